// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tmpl renders the query templates used for item texts and infos,
// e.g. "{{ page.title }}" or "{{ file.filename | upper }}".
//
// Query roots (page, file, node, model, site, parent) are rewritten to
// text/template field lookups, so the full text/template syntax and the
// sprig function set are available. Unknown fields render empty.
package tmpl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/pdiddy/section-engine/pkg/types"
)

var (
	actionPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)
	rootPattern   = regexp.MustCompile(`(^|[^\w.$"'])(page|file|node|model|site|parent)\b`)
	stringPattern = regexp.MustCompile("\"(?:[^\"\\\\]|\\\\.)*\"|`[^`]*`")
)

// Nodes looks up the parent and site of a rendered node.
type Nodes interface {
	Node(ctx context.Context, id string) (*types.Node, error)
}

// Renderer renders query templates against content nodes.
type Renderer struct {
	nodes Nodes

	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewRenderer returns a renderer that resolves parent and site through
// nodes. nodes may be nil, in which case only the node itself is exposed.
func NewRenderer(nodes Nodes) *Renderer {
	return &Renderer{nodes: nodes, cache: map[string]*template.Template{}}
}

// Render evaluates src for n. An empty template renders empty.
func (r *Renderer) Render(ctx context.Context, src string, n *types.Node) (string, error) {
	if src == "" {
		return "", nil
	}
	t, err := r.compile(src)
	if err != nil {
		return "", err
	}

	data, err := r.data(ctx, n)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %q for %s: %w", src, n.ID, err)
	}
	return buf.String(), nil
}

func (r *Renderer) compile(src string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.cache[src]; ok {
		return t, nil
	}
	t, err := template.New("query").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=zero").
		Parse(Translate(src))
	if err != nil {
		return nil, fmt.Errorf("parsing template %q: %w", src, err)
	}
	r.cache[src] = t
	return t, nil
}

// Translate rewrites query roots inside template actions to field lookups:
// "{{ page.title }}" becomes "{{ .page.title }}".
func Translate(src string) string {
	return actionPattern.ReplaceAllStringFunc(src, func(action string) string {
		return "{{" + rewriteRoots(action[2:len(action)-2]) + "}}"
	})
}

// rewriteRoots prefixes query roots with a dot, leaving string literals
// untouched.
func rewriteRoots(inner string) string {
	var b strings.Builder
	last := 0
	for _, loc := range stringPattern.FindAllStringIndex(inner, -1) {
		b.WriteString(rootPattern.ReplaceAllString(inner[last:loc[0]], "${1}.${2}"))
		b.WriteString(inner[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(rootPattern.ReplaceAllString(inner[last:], "${1}.${2}"))
	return b.String()
}

// data builds the template scope of n. Files see their parent page as
// "page"; pages see themselves.
func (r *Renderer) data(ctx context.Context, n *types.Node) (map[string]map[string]string, error) {
	self := Fields(n)
	data := map[string]map[string]string{
		"node":  self,
		"model": self,
	}
	switch n.Kind {
	case types.KindFile:
		data["file"] = self
	case types.KindSite:
		data["site"] = self
	default:
		data["page"] = self
	}

	if r.nodes == nil {
		return data, nil
	}

	if n.ParentID != "" {
		parent, err := r.lookup(ctx, n.ParentID)
		if err != nil {
			return nil, err
		}
		if parent != nil {
			pf := Fields(parent)
			data["parent"] = pf
			if n.Kind == types.KindFile && parent.Kind == types.KindPage {
				data["page"] = pf
			}
		}
	}
	if _, ok := data["site"]; !ok {
		site, err := r.lookup(ctx, types.SiteID)
		if err != nil {
			return nil, err
		}
		if site != nil {
			data["site"] = Fields(site)
		}
	}
	return data, nil
}

func (r *Renderer) lookup(ctx context.Context, id string) (*types.Node, error) {
	n, err := r.nodes.Node(ctx, id)
	if errors.Is(err, types.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s for template: %w", id, err)
	}
	return n, nil
}

// Fields flattens n into the string map a template sees. Built-in
// attributes override content fields of the same name.
func Fields(n *types.Node) map[string]string {
	out := make(map[string]string, len(n.Fields)+12)
	for k, v := range n.Fields {
		out[k] = v
	}
	for _, key := range []string{"id", "slug", "title", "template", "status", "filename", "name", "extension", "mime", "modified"} {
		if v := n.Value(key); v != "" {
			out[key] = v
		}
	}
	out["num"] = strconv.Itoa(n.Num)
	if n.IsFile() {
		out["size"] = strconv.FormatInt(n.Size, 10)
	}
	return out
}
