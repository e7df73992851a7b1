// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package section

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/section-engine/pkg/types"
)

func bind(name string) Binding {
	return Binding{Name: name, Model: siteNode(), Language: "en"}
}

func TestNormalizeStatusIsAlwaysCanonical(t *testing.T) {
	canonical := map[types.StatusFilter]bool{
		types.FilterDraft: true, types.FilterListed: true, types.FilterPublished: true,
		types.FilterUnlisted: true, types.FilterAll: true,
	}
	inputs := []string{
		"", "draft", "drafts", "listed", "published", "unlisted", "all",
		"Listed", "DRAFT", "archived", " listed", "listed ", "null", "0", "✓", "drafts,listed",
	}
	for _, in := range inputs {
		got := NormalizeStatus(in)
		assert.True(t, canonical[got], "NormalizeStatus(%q) = %q", in, got)
	}

	assert.Equal(t, types.FilterDraft, NormalizeStatus("drafts"))
	assert.Equal(t, types.FilterDraft, NormalizeStatus("draft"))
	assert.Equal(t, types.FilterAll, NormalizeStatus("archived"))
	assert.Equal(t, types.FilterAll, NormalizeStatus(""))
	assert.Equal(t, types.FilterPublished, NormalizeStatus("published"))
}

func TestResolveDefaults(t *testing.T) {
	pages, err := Resolve(map[string]any{"type": "pages"}, bind("articles"), Request{})
	require.NoError(t, err)
	assert.Equal(t, types.SectionPages, pages.Kind)
	assert.Equal(t, types.FilterAll, pages.Status)
	assert.Equal(t, DefaultPagesText, pages.Text)
	assert.Equal(t, "Articles", pages.Headline)
	assert.Equal(t, DefaultLimit, pages.Limit)
	assert.Equal(t, DefaultPage, pages.Page)
	assert.Equal(t, "auto", pages.Size)
	assert.Equal(t, types.LayoutList, pages.Layout)
	assert.True(t, pages.Sortable)
	assert.False(t, pages.Flip)
	assert.Empty(t, pages.SortBy)
	assert.Empty(t, pages.Templates)
	assert.Nil(t, pages.Min)
	assert.Nil(t, pages.Max)
	assert.Equal(t, types.SiteID, pages.Model)
	assert.Equal(t, types.SiteID, pages.Parent)

	files, err := Resolve(map[string]any{}, bind("files"), Request{})
	require.NoError(t, err)
	assert.Equal(t, types.SectionFiles, files.Kind)
	assert.Equal(t, DefaultFilesText, files.Text)
	assert.Empty(t, files.Template)
}

func TestResolveUnsupportedType(t *testing.T) {
	_, err := Resolve(map[string]any{"type": "fields"}, bind("meta"), Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestResolveCoercion(t *testing.T) {
	raw := map[string]any{
		"type":     "pages",
		"status":   "drafts",
		"flip":     "true",
		"sortable": "false",
		"sortBy":   "date desc",
		"limit":    "5",
		"layout":   "cards",
		"size":     "small",
		"min":      1,
		"max":      "10",
		"parent":   "blog",
		"headline": "Posts",
		"info":     "{{ page.date }}",
		"text":     "{{ page.title | upper }}",
	}
	cfg, err := Resolve(raw, bind("posts"), Request{})
	require.NoError(t, err)

	assert.Equal(t, types.FilterDraft, cfg.Status)
	assert.True(t, cfg.Flip)
	assert.False(t, cfg.Sortable)
	assert.Equal(t, types.SortSpec{{Field: "date", Direction: types.SortDesc}}, cfg.SortBy)
	assert.Equal(t, 5, cfg.Limit)
	assert.Equal(t, types.LayoutCards, cfg.Layout)
	assert.Equal(t, "small", cfg.Size)
	require.NotNil(t, cfg.Min)
	require.NotNil(t, cfg.Max)
	assert.Equal(t, 1, *cfg.Min)
	assert.Equal(t, 10, *cfg.Max)
	assert.Equal(t, "blog", cfg.Parent)
	assert.Equal(t, "Posts", cfg.Headline)
	assert.Equal(t, "{{ page.date }}", cfg.Info)
	assert.Equal(t, "{{ page.title | upper }}", cfg.Text)
}

func TestResolveIgnoresBadOptionalValues(t *testing.T) {
	cfg, err := Resolve(map[string]any{"type": "pages", "layout": "grid", "min": -1, "max": "many", "bogus": 42}, bind("p"), Request{})
	require.NoError(t, err)
	assert.Equal(t, types.LayoutList, cfg.Layout)
	assert.Nil(t, cfg.Min)
	assert.Nil(t, cfg.Max)
}

func TestResolveTemplates(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want []string
	}{
		{"omitted", map[string]any{"type": "pages"}, nil},
		{"single string", map[string]any{"type": "pages", "templates": "article"}, []string{"article"}},
		{"list", map[string]any{"type": "pages", "templates": []any{"article", "note"}}, []string{"article", "note"}},
		{"comma string", map[string]any{"type": "pages", "templates": "article, note"}, []string{"article", "note"}},
		{"bound template", map[string]any{"type": "pages", "template": "article"}, []string{"article"}},
		{"templates win", map[string]any{"type": "pages", "template": "article", "templates": []any{"note"}}, []string{"note"}},
		{"files bound template", map[string]any{"type": "files", "template": "cover"}, []string{"cover"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(tt.raw, bind("s"), Request{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Templates)
		})
	}
}

func TestResolveCreate(t *testing.T) {
	tests := []struct {
		name         string
		create       any
		wantDisabled bool
		want         []string
	}{
		{"unset", nil, false, nil},
		{"false", false, true, nil},
		{"false string", "false", true, nil},
		{"true", true, false, nil},
		{"single", "article", false, []string{"article"}},
		{"list", []any{"article", "note"}, false, []string{"article", "note"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{"type": "pages"}
			if tt.create != nil {
				raw["create"] = tt.create
			}
			cfg, err := Resolve(raw, bind("s"), Request{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantDisabled, cfg.CreateDisabled)
			assert.Equal(t, tt.want, cfg.Create)
		})
	}
}

func TestResolvePagination(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]any
		req       Request
		wantPage  int
		wantLimit int
		wantField string
	}{
		{"defaults", map[string]any{}, Request{}, 1, 20, ""},
		{"configured limit", map[string]any{"limit": 3}, Request{}, 1, 3, ""},
		{"request wins", map[string]any{"limit": 3}, Request{Page: intp(4), Limit: intp(7)}, 4, 7, ""},
		{"page beyond range kept", map[string]any{}, Request{Page: intp(999)}, 999, 20, ""},
		{"zero page", map[string]any{}, Request{Page: intp(0)}, 0, 0, "page"},
		{"negative page", map[string]any{}, Request{Page: intp(-2)}, 0, 0, "page"},
		{"zero limit", map[string]any{}, Request{Limit: intp(0)}, 0, 0, "limit"},
		{"configured zero limit uses default", map[string]any{"limit": 0}, Request{}, 1, 20, ""},
		{"configured negative limit uses default", map[string]any{"limit": -5}, Request{}, 1, 20, ""},
		{"configured text limit uses default", map[string]any{"limit": "abc"}, Request{}, 1, 20, ""},
		{"configured word limit uses default", map[string]any{"limit": "twenty"}, Request{}, 1, 20, ""},
		{"configured numeric string limit", map[string]any{"limit": "5"}, Request{}, 1, 5, ""},
		{"request limit still checked", map[string]any{"limit": "abc"}, Request{Limit: intp(-1)}, 0, 0, "limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{"type": "pages"}
			for k, v := range tt.raw {
				raw[k] = v
			}
			cfg, err := Resolve(raw, bind("s"), tt.req)
			if tt.wantField != "" {
				var cerr *ConfigError
				require.True(t, errors.As(err, &cerr), "want ConfigError, got %v", err)
				assert.Equal(t, tt.wantField, cerr.Field)
				assert.ErrorIs(t, err, ErrInvalidPagination)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, cfg.Page)
			assert.Equal(t, tt.wantLimit, cfg.Limit)
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in   string
		want types.SortSpec
	}{
		{"", nil},
		{"   ", nil},
		{"date desc", types.SortSpec{{Field: "date", Direction: "desc"}}},
		{"title", types.SortSpec{{Field: "title", Direction: "asc"}}},
		{"date DESC", types.SortSpec{{Field: "date", Direction: "desc"}}},
		{"date desc, title asc", types.SortSpec{{Field: "date", Direction: "desc"}, {Field: "title", Direction: "asc"}}},
		{"date desc title", types.SortSpec{{Field: "date", Direction: "desc"}, {Field: "title", Direction: "asc"}}},
		{"num asc filename desc", types.SortSpec{{Field: "num", Direction: "asc"}, {Field: "filename", Direction: "desc"}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSort(tt.in))
		})
	}
	assert.Equal(t, "date desc, title asc", ParseSort("date desc,title").String())
}

func TestResolveImageOptions(t *testing.T) {
	tests := []struct {
		name  string
		image any
		want  types.ImageOptions
	}{
		{"unset", nil, types.ImageOptions{}},
		{"disabled", false, types.ImageOptions{Disabled: true}},
		{"disabled string", "false", types.ImageOptions{Disabled: true}},
		{"query", "page.cover", types.ImageOptions{Query: "page.cover"}},
		{"map", map[string]any{"query": "page.image", "cover": true, "ratio": "16/9", "back": "white"},
			types.ImageOptions{Query: "page.image", Cover: true, Ratio: "16/9", Back: "white"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{"type": "pages"}
			if tt.image != nil {
				raw["image"] = tt.image
			}
			cfg, err := Resolve(raw, bind("s"), Request{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Image)
		})
	}
}

func TestTranslateLabels(t *testing.T) {
	labels := map[string]any{"en": "Articles", "de": "Artikel"}

	tests := []struct {
		name string
		v    any
		lang string
		want string
	}{
		{"plain string", "Posts", "de", "Posts"},
		{"exact", labels, "de", "Artikel"},
		{"regional match", labels, "de-CH", "Artikel"},
		{"english fallback", labels, "fr", "Articles"},
		{"no english", map[string]any{"fr": "Articles FR", "de": "Artikel"}, "ja", "Artikel"},
		{"unparseable lang", labels, "!!", "Articles"},
		{"empty map", map[string]any{}, "en", ""},
		{"nil", nil, "en", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translate(tt.v, tt.lang))
		})
	}

	cfg, err := Resolve(map[string]any{"type": "pages", "headline": labels, "empty": labels}, Binding{Name: "s", Model: siteNode(), Language: "de"}, Request{})
	require.NoError(t, err)
	assert.Equal(t, "Artikel", cfg.Headline)
	assert.Equal(t, "Artikel", cfg.Empty)
}
