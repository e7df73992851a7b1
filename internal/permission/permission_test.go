// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package permission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/section-engine/internal/blueprint"
	"github.com/pdiddy/section-engine/pkg/types"
)

type fakeBlueprints map[string]*blueprint.Blueprint

func (f fakeBlueprints) Load(kind blueprint.Kind, name string) (*blueprint.Blueprint, error) {
	if name == "broken" {
		return nil, errors.New("disk on fire")
	}
	bp, ok := f[string(kind)+"/"+name]
	if !ok {
		return nil, blueprint.ErrNotFound
	}
	return bp, nil
}

func newTestEvaluator() *Evaluator {
	roles := map[string]map[string]bool{
		"admin":  {"*": true},
		"editor": {"pages.changeSlug": false, "files.*": false},
		"guest":  {"*": false, "pages.read": true},
	}
	bps := fakeBlueprints{
		"pages/locked": {Options: map[string]any{
			"changeTitle": false,
			"sort":        map[string]any{"admin": true, "*": false},
		}},
		"pages/secret": {Options: map[string]any{"read": map[string]any{"admin": true, "*": false}}},
	}
	return NewEvaluator(roles, bps, "home", "error")
}

func TestCan(t *testing.T) {
	e := newTestEvaluator()
	admin := types.Actor{ID: "ada", Role: "admin"}
	editor := types.Actor{ID: "ed", Role: "editor"}
	guest := types.Actor{ID: "gus", Role: "guest"}

	page := &types.Node{ID: "blog", Kind: types.KindPage, Template: "default", Status: types.StatusListed}
	draft := &types.Node{ID: "blog/wip", Kind: types.KindPage, Template: "default", Status: types.StatusDraft}
	home := &types.Node{ID: "home", Kind: types.KindPage, Template: "default", Status: types.StatusListed}
	errPage := &types.Node{ID: "error", Kind: types.KindPage, Template: "default", Status: types.StatusUnlisted}
	locked := &types.Node{ID: "locked", Kind: types.KindPage, Template: "locked", Status: types.StatusListed}
	secret := &types.Node{ID: "secret", Kind: types.KindPage, Template: "secret", Status: types.StatusListed}
	file := &types.Node{ID: "blog/a.jpg", Kind: types.KindFile, Filename: "a.jpg"}

	tests := []struct {
		name   string
		actor  types.Actor
		node   *types.Node
		action string
		want   bool
	}{
		{"anonymous denied", types.Actor{}, page, ActionRead, false},
		{"unknown role denied", types.Actor{ID: "x", Role: "nobody"}, page, ActionRead, false},
		{"admin reads", admin, page, ActionRead, true},
		{"admin sorts listed", admin, page, ActionSort, true},
		{"draft never sortable", admin, draft, ActionSort, false},
		{"home slug fixed", admin, home, ActionChangeSlug, false},
		{"error slug fixed", admin, errPage, ActionChangeSlug, false},
		{"error status fixed", admin, errPage, ActionChangeStatus, false},
		{"home status free", admin, home, ActionChangeStatus, true},
		{"editor slug denied by role", editor, page, ActionChangeSlug, false},
		{"editor unlisted action allowed", editor, page, ActionChangeTitle, true},
		{"editor files wildcard", editor, file, ActionRead, false},
		{"guest wildcard deny", guest, page, ActionSort, false},
		{"guest explicit read", guest, page, ActionRead, true},
		{"blueprint bool option", admin, locked, ActionChangeTitle, false},
		{"blueprint role option admin", admin, locked, ActionSort, true},
		{"blueprint role option fallback", editor, locked, ActionSort, false},
		{"blueprint hides page", editor, secret, ActionRead, false},
		{"blueprint shows page to admin", admin, secret, ActionRead, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Can(context.Background(), tt.actor, tt.node, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanBlueprintError(t *testing.T) {
	e := newTestEvaluator()
	n := &types.Node{ID: "x", Kind: types.KindPage, Template: "broken"}

	_, err := e.Can(context.Background(), types.Actor{ID: "ada", Role: "admin"}, n, ActionRead)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestCanWithoutBlueprints(t *testing.T) {
	e := NewEvaluator(map[string]map[string]bool{"admin": {"*": true}}, nil, "home", "error")
	n := &types.Node{ID: "x", Kind: types.KindPage, Template: "any", Status: types.StatusListed}

	ok, err := e.Can(context.Background(), types.Actor{ID: "ada", Role: "admin"}, n, ActionSort)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanFoldsCase(t *testing.T) {
	// viper lowercases configuration keys
	roles := map[string]map[string]bool{"editor": {"pages.changeslug": false}}
	e := NewEvaluator(roles, nil, "home", "error")
	page := &types.Node{ID: "blog", Kind: types.KindPage, Status: types.StatusListed}

	ok, err := e.Can(context.Background(), types.Actor{ID: "ed", Role: "Editor"}, page, ActionChangeSlug)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.Can(context.Background(), types.Actor{ID: "ed", Role: "editor"}, page, ActionChangeTitle)
	require.NoError(t, err)
	assert.True(t, ok)
}
