// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cast"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/section-engine/pkg/types"
)

const (
	draftsDir    = "_drafts"
	siteFile     = "site.yaml"
	siteTemplate = "site"
	metaExt      = ".yaml"
)

var listedDir = regexp.MustCompile(`^(\d+)_(.+)$`)

// walker accumulates nodes while walking the content tree.
type walker struct {
	ctx     context.Context
	w       io.Writer
	nodes   []*types.Node
	summary IngestSummary
}

// walkTree reads the whole content tree rooted at root. The site node comes
// first, followed by pages and files in depth-first order.
func walkTree(ctx context.Context, root string, w io.Writer) ([]*types.Node, IngestSummary, error) {
	wk := &walker{ctx: ctx, w: w}

	site := &types.Node{ID: types.SiteID, Kind: types.KindSite, Template: siteTemplate}
	sitePath := filepath.Join(root, siteFile)
	if info, err := os.Stat(sitePath); err == nil {
		fields, err := readFields(sitePath)
		if err != nil {
			return nil, wk.summary, fmt.Errorf("reading %s: %w", sitePath, err)
		}
		site.Fields = fields
		site.Modified = info.ModTime()
	}
	wk.nodes = append(wk.nodes, site)

	if err := wk.dir(root, types.SiteID, true); err != nil {
		return nil, wk.summary, err
	}
	return wk.nodes, wk.summary, nil
}

// dir indexes the files and child pages found in path, which belongs to the
// node ownerID.
func (wk *walker) dir(path, ownerID string, isRoot bool) error {
	select {
	case <-wk.ctx.Done():
		return wk.ctx.Err()
	default:
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasSuffix(name, metaExt) {
			continue
		}
		if isRoot && name == siteFile {
			continue
		}
		wk.file(filepath.Join(path, name), ownerID, names[name+metaExt])
	}

	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if name == draftsDir {
			if err := wk.drafts(filepath.Join(path, name), ownerID); err != nil {
				return err
			}
			continue
		}

		slug, num, status := name, 0, types.StatusUnlisted
		if m := listedDir.FindStringSubmatch(name); m != nil {
			num, _ = strconv.Atoi(m[1])
			slug, status = m[2], types.StatusListed
		}
		if err := wk.page(filepath.Join(path, name), ownerID, slug, num, status); err != nil {
			return err
		}
	}
	return nil
}

func (wk *walker) drafts(path, ownerID string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if err := wk.page(filepath.Join(path, e.Name()), ownerID, e.Name(), 0, types.StatusDraft); err != nil {
			return err
		}
	}
	return nil
}

func (wk *walker) page(path, parentID, slug string, num int, status types.NodeStatus) error {
	id := childID(parentID, slug)

	contentFile, err := pageContentFile(path)
	if err != nil {
		fmt.Fprintf(wk.w, "failed  %s: %v\n", id, err)
		wk.summary.Failed++
		return nil
	}

	n := &types.Node{
		ID:       id,
		Kind:     types.KindPage,
		ParentID: parentID,
		Slug:     slug,
		Template: "default",
		Status:   status,
		Num:      num,
	}
	if status != types.StatusListed {
		n.Num = 0
	}

	if contentFile != "" {
		info, err := os.Stat(contentFile)
		if err != nil {
			fmt.Fprintf(wk.w, "failed  %s: %v\n", id, err)
			wk.summary.Failed++
			return nil
		}
		fields, err := readFields(contentFile)
		if err != nil {
			fmt.Fprintf(wk.w, "failed  %s: parse error: %v\n", id, err)
			wk.summary.Failed++
			return nil
		}
		n.Template = strings.TrimSuffix(filepath.Base(contentFile), metaExt)
		n.Fields = fields
		n.Modified = info.ModTime()
	}

	wk.nodes = append(wk.nodes, n)
	if status == types.StatusDraft {
		wk.summary.Drafts++
	} else {
		wk.summary.Pages++
	}
	fmt.Fprintf(wk.w, "indexing %s (%s, %s)\n", id, n.Template, status)

	return wk.dir(path, id, false)
}

func (wk *walker) file(path, ownerID string, hasMeta bool) {
	filename := filepath.Base(path)
	id := childID(ownerID, filename)

	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(wk.w, "failed  %s: %v\n", id, err)
		wk.summary.Failed++
		return
	}

	n := &types.Node{
		ID:        id,
		Kind:      types.KindFile,
		ParentID:  ownerID,
		Filename:  filename,
		Extension: strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")),
		Mime:      detectMime(path),
		Size:      info.Size(),
		Modified:  info.ModTime(),
	}

	if hasMeta {
		fields, err := readFields(path + metaExt)
		if err != nil {
			fmt.Fprintf(wk.w, "failed  %s: parse error: %v\n", id, err)
			wk.summary.Failed++
			return
		}
		n.Template = fields["template"]
		delete(fields, "template")
		if s, ok := fields["sort"]; ok {
			n.Num = cast.ToInt(s)
			delete(fields, "sort")
		}
		n.Fields = fields
	}

	wk.nodes = append(wk.nodes, n)
	wk.summary.Files++
}

// pageContentFile returns the YAML file holding the fields of the page in
// dir, or "" when the page has none. YAML files that describe an attachment
// (cover.jpg.yaml next to cover.jpg) are not candidates. When several
// candidates exist the first in lexical order wins.
func pageContentFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}

	var candidates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, metaExt) || strings.HasPrefix(name, ".") {
			continue
		}
		if names[strings.TrimSuffix(name, metaExt)] {
			continue
		}
		candidates = append(candidates, name)
	}
	if len(candidates) == 0 {
		return "", nil
	}
	sort.Strings(candidates)
	return filepath.Join(dir, candidates[0]), nil
}

// readFields parses a YAML mapping and flattens its values to strings.
func readFields(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		fields[k] = fieldString(v)
	}
	return fields, nil
}

func fieldString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	case []any, map[string]any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
	return cast.ToString(v)
}

func detectMime(path string) string {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "application/octet-stream"
	}
	mediaType, _, _ := strings.Cut(m.String(), ";")
	return strings.TrimSpace(mediaType)
}

func childID(parentID, name string) string {
	if parentID == types.SiteID || parentID == "" {
		return name
	}
	return parentID + "/" + name
}
