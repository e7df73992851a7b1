// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package section

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/text/language"

	"github.com/pdiddy/section-engine/internal/blueprint"
	"github.com/pdiddy/section-engine/pkg/types"
)

// Defaults applied by Resolve.
const (
	DefaultLimit = 20
	DefaultPage  = 1
	DefaultSize  = "auto"

	DefaultPagesText = "{{ page.title }}"
	DefaultFilesText = "{{ file.filename }}"
)

// DefaultText returns the text template used when a section sets none.
func DefaultText(kind types.SectionKind) string {
	if kind == types.SectionFiles {
		return DefaultFilesText
	}
	return DefaultPagesText
}

// Binding identifies where a section is rendered.
type Binding struct {
	// Name is the section key in the blueprint.
	Name string

	// Model is the node whose blueprint declares the section.
	Model *types.Node

	// Language selects labels from translated strings.
	Language string
}

// Request carries the caller's pagination. Nil fields take the defaults.
type Request struct {
	Page  *int
	Limit *int
}

// Resolve turns the raw blueprint configuration of a section into a
// SectionConfig. Author mistakes are corrected silently; only a
// non-positive page or limit in req fails, with a *ConfigError.
func Resolve(raw map[string]any, b Binding, req Request) (types.SectionConfig, error) {
	kind, ok := sectionKind(raw, b.Name)
	if !ok {
		return types.SectionConfig{}, fmt.Errorf("section %s has unsupported type %q: %w",
			b.Name, cast.ToString(raw["type"]), ErrSectionNotFound)
	}

	cfg := types.SectionConfig{
		Name:     b.Name,
		Kind:     kind,
		Model:    b.Model.ID,
		Parent:   b.Model.ID,
		Status:   types.FilterAll,
		SortBy:   ParseSort(cast.ToString(raw["sortBy"])),
		Flip:     cast.ToBool(raw["flip"]),
		Sortable: true,
		Page:     DefaultPage,
		Limit:    DefaultLimit,
		Text:     DefaultText(kind),
		Size:     DefaultSize,
		Layout:   types.LayoutList,
		Headline: blueprint.Ucfirst(b.Name),
	}

	if v, ok := raw["sortable"]; ok {
		cfg.Sortable = cast.ToBool(v)
	}
	if p := strings.TrimSpace(cast.ToString(raw["parent"])); p != "" {
		cfg.Parent = p
	}

	if kind == types.SectionPages {
		cfg.Status = NormalizeStatus(cast.ToString(raw["status"]))
		if v, ok := raw["templates"]; ok && v != nil {
			cfg.Templates = stringList(v)
		} else {
			cfg.Templates = stringList(raw["template"])
		}
		switch v := raw["create"].(type) {
		case nil:
		case bool:
			cfg.CreateDisabled = !v
		default:
			if s, isString := v.(string); isString && strings.EqualFold(s, "false") {
				cfg.CreateDisabled = true
			} else {
				cfg.Create = stringList(v)
			}
		}
	} else {
		cfg.Template = strings.TrimSpace(cast.ToString(raw["template"]))
		if cfg.Template != "" {
			cfg.Templates = []string{cfg.Template}
		}
	}

	if v, ok := raw["text"]; ok && v != nil {
		cfg.Text = translate(v, b.Language)
	}
	cfg.Info = translate(raw["info"], b.Language)
	cfg.Help = translate(raw["help"], b.Language)
	cfg.Empty = translate(raw["empty"], b.Language)
	if h := translate(raw["headline"], b.Language); h != "" {
		cfg.Headline = h
	}
	if s := cast.ToString(raw["size"]); s != "" {
		cfg.Size = s
	}
	if cast.ToString(raw["layout"]) == types.LayoutCards {
		cfg.Layout = types.LayoutCards
	}
	cfg.Image = imageOptions(raw["image"])
	cfg.Min = optionalCount(raw["min"])
	cfg.Max = optionalCount(raw["max"])

	// a malformed configured limit falls back to the default
	if n, err := cast.ToIntE(raw["limit"]); err == nil && n >= 1 {
		cfg.Limit = n
	}
	if req.Limit != nil {
		cfg.Limit = *req.Limit
	}
	if req.Page != nil {
		cfg.Page = *req.Page
	}
	if cfg.Page < 1 {
		return cfg, &ConfigError{Field: "page", Value: cfg.Page, Err: ErrInvalidPagination}
	}
	if cfg.Limit < 1 {
		return cfg, &ConfigError{Field: "limit", Value: cfg.Limit, Err: ErrInvalidPagination}
	}

	return cfg, nil
}

// sectionKind reads the type key, falling back to the section name so a
// section called "files" needs no type.
func sectionKind(raw map[string]any, name string) (types.SectionKind, bool) {
	t := cast.ToString(raw["type"])
	if t == "" {
		t = name
	}
	switch types.SectionKind(t) {
	case types.SectionPages:
		return types.SectionPages, true
	case types.SectionFiles:
		return types.SectionFiles, true
	}
	return "", false
}

// NormalizeStatus maps a configured status to one of the five filters.
// "drafts" is an alias of "draft"; anything unknown lists all pages.
func NormalizeStatus(s string) types.StatusFilter {
	if s == "drafts" {
		s = "draft"
	}
	switch f := types.StatusFilter(s); f {
	case types.FilterDraft, types.FilterListed, types.FilterPublished, types.FilterUnlisted, types.FilterAll:
		return f
	}
	return types.FilterAll
}

// ParseSort parses "date desc", "date desc, title asc" or
// "date desc title asc". A field without a direction sorts ascending.
func ParseSort(s string) types.SortSpec {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	var spec types.SortSpec
	for i := 0; i < len(tokens); i++ {
		pair := types.SortPair{Field: tokens[i], Direction: types.SortAsc}
		if i+1 < len(tokens) {
			switch strings.ToLower(tokens[i+1]) {
			case types.SortAsc:
				i++
			case types.SortDesc:
				pair.Direction = types.SortDesc
				i++
			}
		}
		spec = append(spec, pair)
	}
	return spec
}

func imageOptions(v any) types.ImageOptions {
	switch x := v.(type) {
	case nil:
		return types.ImageOptions{}
	case bool:
		return types.ImageOptions{Disabled: !x}
	case string:
		if strings.EqualFold(x, "false") {
			return types.ImageOptions{Disabled: true}
		}
		return types.ImageOptions{Query: x}
	case map[string]any:
		return types.ImageOptions{
			Query: cast.ToString(x["query"]),
			Cover: cast.ToBool(x["cover"]),
			Ratio: cast.ToString(x["ratio"]),
			Back:  cast.ToString(x["back"]),
		}
	}
	return types.ImageOptions{}
}

func optionalCount(v any) *int {
	if v == nil {
		return nil
	}
	n, err := cast.ToIntE(v)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// stringList accepts a single string, a comma-separated string or a list.
func stringList(v any) []string {
	var items []string
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		for _, item := range x {
			items = append(items, cast.ToString(item))
		}
	case []string:
		items = x
	default:
		items = strings.Split(cast.ToString(v), ",")
	}

	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// translate resolves a label that is either a plain string or a map of
// language codes to strings. Maps are matched against lang, falling back
// to English and then to the first language in code order.
func translate(v any, lang string) string {
	var labels map[string]string
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case map[string]any:
		labels = cast.ToStringMapString(x)
	case map[string]string:
		labels = x
	default:
		return cast.ToString(v)
	}
	if len(labels) == 0 {
		return ""
	}
	if s, ok := labels[lang]; ok {
		return s
	}

	codes := make([]string, 0, len(labels))
	for code := range labels {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if (codes[i] == "en") != (codes[j] == "en") {
			return codes[i] == "en"
		}
		return codes[i] < codes[j]
	})

	var (
		tags  []language.Tag
		valid []string
	)
	for _, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		valid = append(valid, code)
	}
	if len(tags) == 0 {
		return labels[codes[0]]
	}

	want, err := language.Parse(lang)
	if err != nil {
		return labels[valid[0]]
	}
	_, idx, _ := language.NewMatcher(tags).Match(want)
	return labels[valid[idx]]
}
