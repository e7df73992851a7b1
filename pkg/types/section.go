// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SectionKind selects which pipeline branch a section runs.
type SectionKind string

const (
	SectionPages SectionKind = "pages"
	SectionFiles SectionKind = "files"
)

// StatusFilter selects which children of the parent a pages section lists.
type StatusFilter string

const (
	FilterDraft     StatusFilter = "draft"
	FilterListed    StatusFilter = "listed"
	FilterPublished StatusFilter = "published"
	FilterUnlisted  StatusFilter = "unlisted"
	FilterAll       StatusFilter = "all"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Layouts understood by the panel.
const (
	LayoutList  = "list"
	LayoutCards = "cards"
)

// SortPair is a single field and direction of a sort specification.
type SortPair struct {
	Field     string `json:"field" yaml:"field"`
	Direction string `json:"direction" yaml:"direction"`
}

// Desc reports whether the pair sorts in descending order.
func (p SortPair) Desc() bool {
	return p.Direction == SortDesc
}

// SortSpec is an ordered list of sort pairs. The first pair is the primary
// key. An empty spec means manual order.
type SortSpec []SortPair

// String renders the spec in its configuration form ("date desc, title asc").
func (s SortSpec) String() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = p.Field + " " + p.Direction
	}
	return strings.Join(parts, ", ")
}

// ImageOptions controls the preview image of each item.
type ImageOptions struct {
	// Disabled is set when the section configures `image: false`.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`

	// Query selects the image source, e.g. "page.image" or "file".
	Query string `json:"query,omitempty" yaml:"query,omitempty"`

	// Cover crops the image to fill its box.
	Cover bool `json:"cover,omitempty" yaml:"cover,omitempty"`

	// Ratio is the box ratio, e.g. "3/2".
	Ratio string `json:"ratio,omitempty" yaml:"ratio,omitempty"`

	// Back is the background color name behind the image.
	Back string `json:"back,omitempty" yaml:"back,omitempty"`
}

// SectionConfig is the resolved, immutable configuration of one section
// for one request.
type SectionConfig struct {
	Name string
	Kind SectionKind

	// Model is the ID of the node the section is rendered on; Parent is the
	// ID of the node whose children or files are listed.
	Model  string
	Parent string

	Status    StatusFilter
	Templates []string // allow-list; empty means no filtering
	Template  string   // files: the single bound template
	SortBy    SortSpec
	Flip      bool
	Sortable  bool

	Page  int
	Limit int

	// Create lists the templates offered for new pages. CreateDisabled is
	// set when the section configures `create: false`.
	Create         []string
	CreateDisabled bool

	Text     string
	Info     string
	Image    ImageOptions
	Size     string
	Layout   string
	Headline string
	Help     string
	Empty    string
	Min      *int
	Max      *int
}

// Image is the preview descriptor of a single item.
type Image struct {
	URL    string `json:"url,omitempty"`
	Srcset string `json:"srcset,omitempty"`
	Cover  bool   `json:"cover"`
	Ratio  string `json:"ratio"`
	Back   string `json:"back"`
	Icon   string `json:"icon,omitempty"`
	Color  string `json:"color,omitempty"`
}

// ItemPermissions summarises what the actor may do with a listed page.
type ItemPermissions struct {
	Sort         bool `json:"sort"`
	ChangeSlug   bool `json:"changeSlug"`
	ChangeStatus bool `json:"changeStatus"`
	ChangeTitle  bool `json:"changeTitle"`
}

// Item is the flat view-model record of a listed node. Fields that only one
// section kind fills are omitted from JSON when empty.
type Item struct {
	ID          string           `json:"id"`
	Text        string           `json:"text"`
	Info        string           `json:"info"`
	DragText    string           `json:"dragText"`
	Image       *Image           `json:"image"`
	Link        string           `json:"link"`
	Parent      string           `json:"parent"`
	Template    string           `json:"template"`
	Status      NodeStatus       `json:"status,omitempty"`
	Permissions *ItemPermissions `json:"permissions,omitempty"`
	Filename    string           `json:"filename,omitempty"`
	Extension   string           `json:"extension,omitempty"`
	Mime        string           `json:"mime,omitempty"`
	URL         string           `json:"url,omitempty"`
}

// Pagination describes the slice of survivors returned for a page.
// Only Page and Total are part of the wire format.
type Pagination struct {
	Page  int `json:"page"`
	Total int `json:"total"`
	Limit int `json:"-"`
	Pages int `json:"-"`
}

// PageResult is the output of the section pipeline.
type PageResult struct {
	Items      []Item     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Upload describes how the panel uploads new files into a files section.
// An empty Accept means any type and is encoded as null, like the
// summary's accept.
type Upload struct {
	Accept     string
	Multiple   bool
	Max        *int
	API        string
	Attributes map[string]string
}

func (u Upload) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"accept":     nullable(u.Accept),
		"multiple":   u.Multiple,
		"max":        u.Max,
		"api":        u.API,
		"attributes": u.Attributes,
	})
}

// BlueprintEntry is one template offered when creating a page.
type BlueprintEntry struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Summary holds the resolved section flags sent to the panel. Add is only
// set for pages sections; Accept, APIURL and Upload only for files sections.
type Summary struct {
	Kind     SectionKind
	Add      *bool
	Accept   string
	APIURL   string
	Empty    string
	Headline string
	Help     string
	Layout   string
	Link     string
	Max      *int
	Min      *int
	Size     string
	Sortable bool
	Upload   *Upload
}

// MarshalJSON emits the key set of the section kind. An unconstrained
// accept list is encoded as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"empty":    s.Empty,
		"headline": s.Headline,
		"help":     s.Help,
		"layout":   s.Layout,
		"link":     nullable(s.Link),
		"max":      s.Max,
		"min":      s.Min,
		"size":     s.Size,
		"sortable": s.Sortable,
	}
	switch s.Kind {
	case SectionPages:
		out["add"] = s.Add != nil && *s.Add
	case SectionFiles:
		out["accept"] = nullable(s.Accept)
		out["apiUrl"] = s.APIURL
		out["upload"] = s.Upload
	default:
		return nil, fmt.Errorf("unknown section kind %q", s.Kind)
	}
	return json.Marshal(out)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
