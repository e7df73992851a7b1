// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package panel builds the panel and API URLs of content nodes and the drag
// texts editors drop into text fields.
package panel

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/pdiddy/section-engine/pkg/types"
)

// Panel derives URLs from the panel configuration.
type Panel struct {
	cfg types.PanelConfig
}

// New returns a Panel for cfg. Empty settings fall back to the defaults of
// types.Config.
func New(cfg types.PanelConfig) *Panel {
	return &Panel{cfg: types.Config{Panel: cfg}.WithDefaults().Panel}
}

// PageSegment encodes a page ID for use in a URL path: "blog/hello" becomes
// "blog+hello".
func PageSegment(id string) string {
	return strings.ReplaceAll(id, "/", "+")
}

// PageID reverses PageSegment.
func PageID(segment string) string {
	return strings.ReplaceAll(segment, "+", "/")
}

// Path returns the panel path of n without the panel prefix: "site",
// "pages/blog+hello" or "pages/blog+hello/files/cover.jpg".
func (p *Panel) Path(n *types.Node) string {
	switch n.Kind {
	case types.KindSite:
		return "site"
	case types.KindFile:
		return p.parentPath(n) + "/files/" + url.PathEscape(n.Filename)
	}
	return "pages/" + PageSegment(n.ID)
}

func (p *Panel) parentPath(file *types.Node) string {
	if file.ParentID == "" || file.ParentID == types.SiteID {
		return "site"
	}
	return "pages/" + PageSegment(file.ParentID)
}

// URL returns the panel URL of n.
func (p *Panel) URL(n *types.Node) string {
	return strings.TrimRight(p.cfg.URL, "/") + "/" + p.Path(n)
}

// APIURL returns the API URL of n.
func (p *Panel) APIURL(n *types.Node) string {
	return strings.TrimRight(p.cfg.API, "/") + "/" + p.Path(n)
}

// FileURL returns the public URL of a file. Files of the site live under
// "<media>/site/".
func (p *Panel) FileURL(file *types.Node) string {
	owner := file.ParentID
	if owner == "" || owner == types.SiteID {
		owner = "site"
	}
	return strings.TrimRight(p.cfg.MediaURL, "/") + "/" + path.Join(owner, url.PathEscape(file.Filename))
}

// DragText returns the markup inserted when n is dragged into a text field.
// File references are absolute (the full file ID) when absolute is set,
// which the caller does when the file is listed away from its own page.
func (p *Panel) DragText(n *types.Node, absolute bool) string {
	if p.cfg.DragTextType == types.DragMarkdown {
		return p.markdown(n)
	}
	switch n.Kind {
	case types.KindFile:
		ref := n.Filename
		if absolute {
			ref = n.ID
		}
		if n.IsImage() {
			return fmt.Sprintf("(image: %s)", ref)
		}
		return fmt.Sprintf("(file: %s)", ref)
	case types.KindSite:
		return "(link: / text: " + n.Title() + ")"
	}
	return fmt.Sprintf("(link: %s text: %s)", n.ID, n.Title())
}

func (p *Panel) markdown(n *types.Node) string {
	switch n.Kind {
	case types.KindFile:
		if n.IsImage() {
			return fmt.Sprintf("![%s](%s)", n.Fields["alt"], p.FileURL(n))
		}
		return fmt.Sprintf("[%s](%s)", n.Filename, p.FileURL(n))
	case types.KindSite:
		return "[" + n.Title() + "](/)"
	}
	return fmt.Sprintf("[%s](/%s)", n.Title(), n.ID)
}
