// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package section

import (
	"context"
	"fmt"
	"html"

	"github.com/pdiddy/section-engine/pkg/types"
)

// Project maps the nodes of a page to view-model items. parent is the node
// whose children or files are listed.
//
// The text of an item is HTML-escaped only when the section uses the
// default text template. Custom templates are emitted as rendered.
func Project(ctx context.Context, deps Deps, actor types.Actor, parent *types.Node, nodes []*types.Node, cfg types.SectionConfig) ([]types.Item, error) {
	items := make([]types.Item, 0, len(nodes))
	for _, n := range nodes {
		item, err := projectCommon(ctx, deps, n, cfg)
		if err != nil {
			return nil, err
		}

		if cfg.Kind == types.SectionFiles {
			// drag texts of files listed away from their own page use the full id
			item.DragText = deps.Panel.DragText(n, cfg.Model != cfg.Parent)
			item.Filename = n.Filename
			item.Extension = n.Extension
			item.Mime = n.Mime
			item.URL = deps.Panel.FileURL(n)
			item.Parent = deps.Panel.Path(parent)
			item.Template = n.Template
		} else {
			perms, err := pagePermissions(ctx, deps.Permissions, actor, n)
			if err != nil {
				return nil, err
			}
			item.DragText = deps.Panel.DragText(n, false)
			item.Status = n.Status
			item.Permissions = perms
			if n.ParentID != types.SiteID {
				item.Parent = n.ParentID
			}
			item.Template = n.IntendedTemplate()
		}

		items = append(items, item)
	}
	return items, nil
}

func projectCommon(ctx context.Context, deps Deps, n *types.Node, cfg types.SectionConfig) (types.Item, error) {
	text, err := deps.Renderer.Render(ctx, cfg.Text, n)
	if err != nil {
		return types.Item{}, fmt.Errorf("rendering text of %s: %w", n.ID, err)
	}
	if cfg.Text == DefaultText(cfg.Kind) {
		text = html.EscapeString(text)
	}

	info, err := deps.Renderer.Render(ctx, cfg.Info, n)
	if err != nil {
		return types.Item{}, fmt.Errorf("rendering info of %s: %w", n.ID, err)
	}

	img, err := deps.Images.Image(ctx, n, cfg.Image, cfg.Layout)
	if err != nil {
		return types.Item{}, fmt.Errorf("resolving image of %s: %w", n.ID, err)
	}

	return types.Item{
		ID:    n.ID,
		Text:  text,
		Info:  info,
		Image: img,
		Link:  deps.Panel.URL(n),
	}, nil
}

func pagePermissions(ctx context.Context, perms Permissions, actor types.Actor, n *types.Node) (*types.ItemPermissions, error) {
	var out types.ItemPermissions
	for _, check := range []struct {
		action string
		dst    *bool
	}{
		{actionSort, &out.Sort},
		{actionChangeSlug, &out.ChangeSlug},
		{actionChangeStatus, &out.ChangeStatus},
		{actionChangeTitle, &out.ChangeTitle},
	} {
		ok, err := perms.Can(ctx, actor, n, check.action)
		if err != nil {
			return nil, fmt.Errorf("checking %s on %s: %w", check.action, n.ID, err)
		}
		*check.dst = ok
	}
	return &out, nil
}
