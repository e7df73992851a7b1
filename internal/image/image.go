// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package image resolves the preview image descriptor of listed pages and
// files.
package image

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/section-engine/pkg/types"
)

// Files lists the attachments of a node in manual order.
type Files interface {
	Files(ctx context.Context, parentID, template string) ([]*types.Node, error)
}

// URLs builds public file URLs.
type URLs interface {
	FileURL(file *types.Node) string
}

// Srcset widths per layout.
var srcsetWidths = map[string][]int{
	types.LayoutList:  {38, 76},
	types.LayoutCards: {352, 864, 1408},
}

// Resolver implements the image capability of the section pipeline.
type Resolver struct {
	files Files
	urls  URLs
}

// NewResolver returns a resolver reading attachments from files.
func NewResolver(files Files, urls URLs) *Resolver {
	return &Resolver{files: files, urls: urls}
}

// Image returns the descriptor for n, or nil when images are disabled.
// Pages default to their first image file and files to themselves. When no
// image is found the descriptor carries only an icon.
func (r *Resolver) Image(ctx context.Context, n *types.Node, opts types.ImageOptions, layout string) (*types.Image, error) {
	if opts.Disabled || opts.Query == "none" {
		return nil, nil
	}

	img := &types.Image{
		Cover: opts.Cover,
		Ratio: opts.Ratio,
		Back:  opts.Back,
	}
	if img.Ratio == "" {
		img.Ratio = "3/2"
		if layout != types.LayoutCards {
			img.Ratio = "1/1"
		}
	}
	if img.Back == "" {
		img.Back = "pattern"
	}
	img.Icon, img.Color = icon(n)

	src, err := r.source(ctx, n, opts.Query)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return img, nil
	}

	img.URL = r.urls.FileURL(src)
	img.Srcset = srcset(img.URL, layout)
	return img, nil
}

// source picks the image file for n. Supported queries are "" (default),
// "page.image", "page.images.first", "site.image", "file", and
// "page.<field>" or "file.<field>" where the field names a file of the
// owning page.
func (r *Resolver) source(ctx context.Context, n *types.Node, query string) (*types.Node, error) {
	if query == "" {
		if n.IsFile() {
			return ownImage(n), nil
		}
		return r.firstImage(ctx, n.ID, "")
	}

	root, field, _ := strings.Cut(query, ".")
	firstOnly := field == "image" || field == "images.first"

	switch root {
	case "file":
		if !n.IsFile() {
			return nil, nil
		}
		if field == "" || field == "image" {
			return ownImage(n), nil
		}
		if ref := n.Fields[field]; ref != "" {
			return r.firstImage(ctx, n.ParentID, ref)
		}
	case "site":
		if firstOnly {
			return r.firstImage(ctx, types.SiteID, "")
		}
	case "page":
		pageID, fields := n.ID, n.Fields
		if n.IsFile() {
			pageID, fields = n.ParentID, nil
		}
		if firstOnly {
			return r.firstImage(ctx, pageID, "")
		}
		if ref := fields[field]; ref != "" {
			return r.firstImage(ctx, pageID, ref)
		}
	}
	return nil, nil
}

func ownImage(n *types.Node) *types.Node {
	if n.IsImage() {
		return n
	}
	return nil
}

// firstImage returns the first image among the files of owner, or the image
// named filename when it is set.
func (r *Resolver) firstImage(ctx context.Context, owner, filename string) (*types.Node, error) {
	files, err := r.files.Files(ctx, owner, "")
	if err != nil {
		return nil, fmt.Errorf("loading images of %s: %w", owner, err)
	}
	filename = firstRef(filename)
	for _, f := range files {
		if !f.IsImage() {
			continue
		}
		if filename == "" || f.Filename == filename || f.ID == filename {
			return f, nil
		}
	}
	return nil, nil
}

// firstRef returns the first entry of a file field, which holds either a
// filename or a JSON list of filenames.
func firstRef(field string) string {
	field = strings.TrimSpace(field)
	if !strings.HasPrefix(field, "[") {
		return field
	}
	var refs []string
	if err := json.Unmarshal([]byte(field), &refs); err != nil || len(refs) == 0 {
		return ""
	}
	return refs[0]
}

func srcset(url, layout string) string {
	widths, ok := srcsetWidths[layout]
	if !ok {
		widths = srcsetWidths[types.LayoutList]
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = url + sep + "width=" + strconv.Itoa(w) + " " + strconv.Itoa(w) + "w"
	}
	return strings.Join(parts, ", ")
}

// icon returns the fallback icon and color of n.
func icon(n *types.Node) (string, string) {
	if !n.IsFile() {
		return "page", "gray-500"
	}
	major, _, _ := strings.Cut(n.Mime, "/")
	switch {
	case major == "image":
		return "image", "orange-400"
	case major == "video":
		return "video", "yellow-400"
	case major == "audio":
		return "audio", "aqua-400"
	case n.Mime == "application/pdf", strings.Contains(n.Mime, "document"), strings.Contains(n.Mime, "sheet"), major == "text" && n.Extension != "html" && n.Extension != "css" && n.Extension != "js":
		return "document", "red-400"
	case n.Extension == "html", n.Extension == "css", n.Extension == "js", n.Mime == "application/json":
		return "code", "blue-400"
	case strings.Contains(n.Mime, "zip"), strings.Contains(n.Mime, "tar"), strings.Contains(n.Mime, "compressed"):
		return "archive", "gray-500"
	}
	return "file", "gray-500"
}
