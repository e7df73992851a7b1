// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package section

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/section-engine/internal/blueprint"
	"github.com/pdiddy/section-engine/internal/panel"
	"github.com/pdiddy/section-engine/internal/tmpl"
	"github.com/pdiddy/section-engine/pkg/types"
)

// fakeStore keeps nodes in manual order.
type fakeStore struct {
	nodes []*types.Node
	err   error
}

func (s *fakeStore) add(nodes ...*types.Node) *fakeStore {
	s.nodes = append(s.nodes, nodes...)
	return s
}

func (s *fakeStore) Node(_ context.Context, id string) (*types.Node, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, n := range s.nodes {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, types.ErrNotFound
}

func (s *fakeStore) Children(_ context.Context, parentID string, status types.NodeStatus) ([]*types.Node, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*types.Node
	for _, n := range s.nodes {
		if n.Kind == types.KindPage && n.ParentID == parentID && n.Status == status {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *fakeStore) Drafts(ctx context.Context, parentID string) ([]*types.Node, error) {
	return s.Children(ctx, parentID, types.StatusDraft)
}

func (s *fakeStore) Files(_ context.Context, parentID, template string) ([]*types.Node, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*types.Node
	for _, n := range s.nodes {
		if n.Kind != types.KindFile || n.ParentID != parentID {
			continue
		}
		if template != "" && n.IntendedTemplate() != template {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// fakePerms denies reading the nodes in hidden and the actions in denied
// ("<id>/<action>").
type fakePerms struct {
	hidden map[string]bool
	denied map[string]bool
	err    error
}

func (p *fakePerms) Can(_ context.Context, _ types.Actor, n *types.Node, action string) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	if action == actionRead && p.hidden[n.ID] {
		return false, nil
	}
	return !p.denied[n.ID+"/"+action], nil
}

type fakeImages struct{}

func (fakeImages) Image(_ context.Context, n *types.Node, opts types.ImageOptions, layout string) (*types.Image, error) {
	if opts.Disabled {
		return nil, nil
	}
	return &types.Image{URL: "/img/" + n.ID, Ratio: layout}, nil
}

type fakeBlueprints map[string]*blueprint.Blueprint

func (f fakeBlueprints) Load(kind blueprint.Kind, name string) (*blueprint.Blueprint, error) {
	key := string(kind) + "/" + name
	if kind == blueprint.KindSite {
		key = "site"
	}
	if bp, ok := f[key]; ok {
		return bp, nil
	}
	if name == "broken" {
		return nil, errors.New("yaml: line 3: mapping values are not allowed")
	}
	return nil, fmt.Errorf("%s: %w", key, blueprint.ErrNotFound)
}

func (f fakeBlueprints) Names(kind blueprint.Kind) ([]string, error) {
	var names []string
	prefix := string(kind) + "/"
	for key := range f {
		if name, ok := strings.CutPrefix(key, prefix); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

var (
	admin = types.Actor{ID: "ada", Role: types.RoleAdmin}
	ctx   = context.Background()
)

func intp(v int) *int { return &v }

func siteNode() *types.Node {
	return &types.Node{ID: types.SiteID, Kind: types.KindSite, Template: "site", Fields: map[string]string{"title": "Site"}}
}

func pageNode(parent, slug, template string, status types.NodeStatus, num int, fields map[string]string) *types.Node {
	id := slug
	if parent != types.SiteID {
		id = parent + "/" + slug
	}
	return &types.Node{
		ID: id, Kind: types.KindPage, ParentID: parent, Slug: slug,
		Template: template, Status: status, Num: num, Fields: fields,
	}
}

func fileNode(parent, filename, template, mime string, num int) *types.Node {
	id := filename
	if parent != types.SiteID {
		id = parent + "/" + filename
	}
	return &types.Node{
		ID: id, Kind: types.KindFile, ParentID: parent, Filename: filename,
		Template: template, Mime: mime, Num: num,
	}
}

func newDeps(store *fakeStore, perms *fakePerms, bps fakeBlueprints) Deps {
	if perms == nil {
		perms = &fakePerms{}
	}
	return Deps{
		Store:       store,
		Permissions: perms,
		Renderer:    tmpl.NewRenderer(store),
		Images:      fakeImages{},
		Blueprints:  bps,
		Panel:       panel.New(types.PanelConfig{}),
	}
}

func ids(nodes []*types.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func itemIDs(items []types.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
