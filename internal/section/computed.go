// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package section

import (
	"errors"
	"fmt"
	"path"

	"github.com/pdiddy/section-engine/internal/blueprint"
	"github.com/pdiddy/section-engine/pkg/types"
)

// Sortable reports whether the panel may offer manual reordering. Explicit
// sorting, flipping and `sortable: false` all disable it, and pages
// sections only allow it for listed, published or all.
func Sortable(cfg types.SectionConfig) bool {
	if cfg.Kind == types.SectionPages {
		switch cfg.Status {
		case types.FilterListed, types.FilterPublished, types.FilterAll:
		default:
			return false
		}
	}
	return cfg.Sortable && len(cfg.SortBy) == 0 && !cfg.Flip
}

// Add reports whether a pages section offers page creation: creation must
// not be disabled and the section must show drafts.
func Add(cfg types.SectionConfig) bool {
	if cfg.CreateDisabled {
		return false
	}
	return cfg.Status == types.FilterDraft || cfg.Status == types.FilterAll
}

// Link returns the panel URL of parent when the section is rendered on
// another node, or "".
func Link(p Panel, model, parent *types.Node) string {
	parentURL := p.URL(parent)
	if p.URL(model) == parentURL {
		return ""
	}
	return parentURL
}

// Accept returns the MIME types accepted by the bound file template, or ""
// when the section binds none or the template has no blueprint.
func Accept(bps Blueprints, cfg types.SectionConfig) (string, error) {
	if cfg.Template == "" {
		return "", nil
	}
	bp, err := bps.Load(blueprint.KindFiles, cfg.Template)
	if errors.Is(err, blueprint.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading file blueprint %s: %w", cfg.Template, err)
	}
	return bp.AcceptMime(), nil
}

// Upload describes the upload dialog of a files section. The template
// attribute is omitted for the default template.
func Upload(p Panel, parent *types.Node, cfg types.SectionConfig, accept string) *types.Upload {
	attrs := map[string]string{}
	if cfg.Template != "" && cfg.Template != types.DefaultFileTemplate {
		attrs["template"] = cfg.Template
	}
	return &types.Upload{
		Accept:     accept,
		Multiple:   true,
		Max:        cfg.Max,
		API:        p.APIURL(parent) + "/files",
		Attributes: attrs,
	}
}

// ListBlueprints returns the templates offered when creating a page. The
// create list wins over the template allow-list; with neither, every page
// blueprint is offered. A template whose blueprint cannot be loaded is
// still offered under its capitalised name.
func ListBlueprints(bps Blueprints, cfg types.SectionConfig) ([]types.BlueprintEntry, error) {
	templates := cfg.Create
	if len(templates) == 0 {
		templates = cfg.Templates
	}
	if len(templates) == 0 {
		names, err := bps.Names(blueprint.KindPages)
		if err != nil {
			return nil, fmt.Errorf("listing page blueprints: %w", err)
		}
		templates = names
	}

	entries := make([]types.BlueprintEntry, 0, len(templates))
	for _, tpl := range templates {
		bp, err := bps.Load(blueprint.KindPages, tpl)
		if err != nil {
			entries = append(entries, types.BlueprintEntry{
				Name:  path.Base(tpl),
				Title: blueprint.Ucfirst(tpl),
			})
			continue
		}
		entries = append(entries, types.BlueprintEntry{
			Name:  path.Base(bp.Name),
			Title: bp.Title,
		})
	}
	return entries, nil
}
