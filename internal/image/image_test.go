// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package image

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/section-engine/pkg/types"
)

type fakeFiles map[string][]*types.Node

func (f fakeFiles) Files(_ context.Context, parentID, _ string) ([]*types.Node, error) {
	if parentID == "broken" {
		return nil, errors.New("index locked")
	}
	return f[parentID], nil
}

type fakeURLs struct{}

func (fakeURLs) FileURL(file *types.Node) string {
	return "/media/" + file.ID
}

func file(parent, name, mime string) *types.Node {
	return &types.Node{ID: parent + "/" + name, Kind: types.KindFile, ParentID: parent, Filename: name, Mime: mime}
}

func testResolver() *Resolver {
	return NewResolver(fakeFiles{
		"blog": {
			file("blog", "notes.pdf", "application/pdf"),
			file("blog", "a.jpg", "image/jpeg"),
			file("blog", "b.png", "image/png"),
		},
		types.SiteID: {file(types.SiteID, "logo.svg", "image/svg+xml")},
	}, fakeURLs{})
}

func TestPageDefaultImage(t *testing.T) {
	r := testResolver()
	page := &types.Node{ID: "blog", Kind: types.KindPage}

	img, err := r.Image(context.Background(), page, types.ImageOptions{}, types.LayoutList)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "/media/blog/a.jpg", img.URL)
	assert.Equal(t, "/media/blog/a.jpg?width=38 38w, /media/blog/a.jpg?width=76 76w", img.Srcset)
	assert.Equal(t, "1/1", img.Ratio)
	assert.Equal(t, "pattern", img.Back)
	assert.False(t, img.Cover)
	assert.Equal(t, "page", img.Icon)
}

func TestCardsLayout(t *testing.T) {
	r := testResolver()
	page := &types.Node{ID: "blog", Kind: types.KindPage}

	img, err := r.Image(context.Background(), page, types.ImageOptions{Cover: true, Back: "black"}, types.LayoutCards)
	require.NoError(t, err)
	assert.Equal(t, "3/2", img.Ratio)
	assert.Equal(t, "black", img.Back)
	assert.True(t, img.Cover)
	assert.Contains(t, img.Srcset, "width=1408 1408w")
}

func TestImageQueries(t *testing.T) {
	r := testResolver()
	page := &types.Node{ID: "blog", Kind: types.KindPage, Fields: map[string]string{"cover": `["b.png"]`, "hero": "b.png"}}
	pdf := file("blog", "notes.pdf", "application/pdf")
	jpg := file("blog", "a.jpg", "image/jpeg")
	jpg.Fields = map[string]string{"thumb": "b.png"}

	tests := []struct {
		name    string
		node    *types.Node
		query   string
		wantURL string
	}{
		{"page image", page, "page.image", "/media/blog/a.jpg"},
		{"page field list", page, "page.cover", "/media/blog/b.png"},
		{"page field string", page, "page.hero", "/media/blog/b.png"},
		{"page missing field", page, "page.nope", ""},
		{"site image", page, "site.image", "/media/site/logo.svg"},
		{"file itself", jpg, "", "/media/blog/a.jpg"},
		{"non-image file", pdf, "", ""},
		{"file query", jpg, "file", "/media/blog/a.jpg"},
		{"file field", jpg, "file.thumb", "/media/blog/b.png"},
		{"file parent image", pdf, "page.image", "/media/blog/a.jpg"},
		{"file query on page", page, "file", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := r.Image(context.Background(), tt.node, types.ImageOptions{Query: tt.query}, types.LayoutList)
			require.NoError(t, err)
			require.NotNil(t, img)
			assert.Equal(t, tt.wantURL, img.URL)
			if tt.wantURL == "" {
				assert.Empty(t, img.Srcset)
			}
		})
	}
}

func TestImageDisabled(t *testing.T) {
	r := testResolver()
	page := &types.Node{ID: "blog", Kind: types.KindPage}

	img, err := r.Image(context.Background(), page, types.ImageOptions{Disabled: true}, types.LayoutList)
	require.NoError(t, err)
	assert.Nil(t, img)

	img, err = r.Image(context.Background(), page, types.ImageOptions{Query: "none"}, types.LayoutList)
	require.NoError(t, err)
	assert.Nil(t, img)
}

func TestImageStoreError(t *testing.T) {
	r := testResolver()
	_, err := r.Image(context.Background(), &types.Node{ID: "broken", Kind: types.KindPage}, types.ImageOptions{}, types.LayoutList)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index locked")
}

func TestIcon(t *testing.T) {
	tests := []struct {
		node        *types.Node
		icon, color string
	}{
		{&types.Node{Kind: types.KindPage}, "page", "gray-500"},
		{&types.Node{Kind: types.KindFile, Mime: "image/png"}, "image", "orange-400"},
		{&types.Node{Kind: types.KindFile, Mime: "video/mp4"}, "video", "yellow-400"},
		{&types.Node{Kind: types.KindFile, Mime: "audio/mpeg"}, "audio", "aqua-400"},
		{&types.Node{Kind: types.KindFile, Mime: "application/pdf"}, "document", "red-400"},
		{&types.Node{Kind: types.KindFile, Mime: "text/plain", Extension: "txt"}, "document", "red-400"},
		{&types.Node{Kind: types.KindFile, Mime: "text/html", Extension: "html"}, "code", "blue-400"},
		{&types.Node{Kind: types.KindFile, Mime: "application/zip"}, "archive", "gray-500"},
		{&types.Node{Kind: types.KindFile, Mime: "application/octet-stream"}, "file", "gray-500"},
	}
	for _, tt := range tests {
		t.Run(tt.node.Mime, func(t *testing.T) {
			icon, color := icon(tt.node)
			assert.Equal(t, tt.icon, icon)
			assert.Equal(t, tt.color, color)
		})
	}
}
