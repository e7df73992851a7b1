// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the section-engine
// pipeline: content nodes, resolved section configuration, view-model items
// and the application configuration.
package types

import (
	"errors"
	"path"
	"strconv"
	"strings"
	"time"
)

// NodeKind distinguishes the site root, pages and file attachments.
type NodeKind string

const (
	KindSite NodeKind = "site"
	KindPage NodeKind = "page"
	KindFile NodeKind = "file"
)

// SiteID is the identifier of the root node. Top-level pages have it as
// their ParentID.
const SiteID = "site"

// NodeStatus is the publication state of a single page. Files carry no
// status.
type NodeStatus string

const (
	StatusDraft    NodeStatus = "draft"
	StatusListed   NodeStatus = "listed"
	StatusUnlisted NodeStatus = "unlisted"
)

// ErrNotFound is returned by stores when a node does not exist.
var ErrNotFound = errors.New("node not found")

// DefaultFileTemplate is the template name of a file without an explicit
// template.
const DefaultFileTemplate = "default"

// Node is a content item read from the store: the site, a page, or a file
// attached to a page or to the site.
type Node struct {
	// ID is the node path, e.g. "blog/hello" for a page or
	// "blog/hello/cover.jpg" for a file. The site uses SiteID.
	ID string `json:"id" yaml:"id"`

	// Kind is site, page or file.
	Kind NodeKind `json:"kind" yaml:"kind"`

	// ParentID is the ID of the owning page, or SiteID.
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`

	// Slug is the last path segment of a page.
	Slug string `json:"slug,omitempty" yaml:"slug,omitempty"`

	// Template is the intended template (blueprint name) of the node. Files
	// without a template report DefaultFileTemplate through IntendedTemplate.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`

	// Status is the page status. Empty for files and the site.
	Status NodeStatus `json:"status,omitempty" yaml:"status,omitempty"`

	// Num is the sorting number of a listed page, or the manual sort
	// position of a file. Zero when unset.
	Num int `json:"num,omitempty" yaml:"num,omitempty"`

	// Fields holds the content fields (title, date, alt, …).
	Fields map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`

	// Filename, Extension, Mime and Size describe file nodes.
	Filename  string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Extension string `json:"extension,omitempty" yaml:"extension,omitempty"`
	Mime      string `json:"mime,omitempty" yaml:"mime,omitempty"`
	Size      int64  `json:"size,omitempty" yaml:"size,omitempty"`

	// Modified is the modification time of the node's source on disk.
	Modified time.Time `json:"modified" yaml:"modified"`
}

// IsSite reports whether n is the root node.
func (n *Node) IsSite() bool {
	return n.Kind == KindSite
}

// IsFile reports whether n is a file attachment.
func (n *Node) IsFile() bool {
	return n.Kind == KindFile
}

// IsDraft reports whether n is a draft page.
func (n *Node) IsDraft() bool {
	return n.Kind == KindPage && n.Status == StatusDraft
}

// IsImage reports whether n is a file with an image MIME type.
func (n *Node) IsImage() bool {
	return n.IsFile() && strings.HasPrefix(n.Mime, "image/")
}

// IntendedTemplate returns the template name the node was authored with.
func (n *Node) IntendedTemplate() string {
	if n.Template == "" && n.IsFile() {
		return DefaultFileTemplate
	}
	return n.Template
}

// Title returns the title field, falling back to the slug for pages and the
// filename for files.
func (n *Node) Title() string {
	if t := n.Fields["title"]; t != "" {
		return t
	}
	switch n.Kind {
	case KindFile:
		return n.Filename
	case KindSite:
		return "Site"
	}
	return n.Slug
}

// Name returns the filename without its extension. Pages return their slug.
func (n *Node) Name() string {
	if n.IsFile() {
		return strings.TrimSuffix(n.Filename, path.Ext(n.Filename))
	}
	return n.Slug
}

// Value returns the value used to sort or render n by field. Built-in
// attributes take precedence over content fields of the same name.
func (n *Node) Value(field string) string {
	switch strings.ToLower(field) {
	case "id":
		return n.ID
	case "slug":
		return n.Slug
	case "title":
		return n.Title()
	case "template":
		return n.IntendedTemplate()
	case "status":
		return string(n.Status)
	case "num", "sort":
		return strconv.Itoa(n.Num)
	case "filename":
		return n.Filename
	case "name":
		return n.Name()
	case "extension":
		return n.Extension
	case "mime":
		return n.Mime
	case "size":
		return strconv.FormatInt(n.Size, 10)
	case "modified":
		if n.Modified.IsZero() {
			return ""
		}
		return n.Modified.UTC().Format(time.RFC3339)
	}
	if v, ok := n.Fields[field]; ok {
		return v
	}
	return n.Fields[strings.ToLower(field)]
}
