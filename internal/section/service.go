// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package section

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/section-engine/internal/blueprint"
	"github.com/pdiddy/section-engine/internal/logging"
	"github.com/pdiddy/section-engine/pkg/types"
)

// Service runs the pipeline for sections declared in blueprints.
type Service struct {
	deps     Deps
	language string
}

// NewService returns a Service. language selects translated labels.
func NewService(deps Deps, language string) *Service {
	return &Service{deps: deps, language: language}
}

// Resolved is a section bound to its model and parent nodes.
type Resolved struct {
	Config types.SectionConfig
	Model  *types.Node
	Parent *types.Node
}

// Resolve loads the model node, finds the named section in its blueprint
// and resolves the section configuration and parent node.
func (s *Service) Resolve(ctx context.Context, modelID, name string, req Request) (*Resolved, error) {
	model, err := s.node(ctx, modelID)
	if err != nil {
		return nil, err
	}

	kind := blueprint.KindOf(model)
	bp, err := s.deps.Blueprints.Load(kind, model.IntendedTemplate())
	if errors.Is(err, blueprint.ErrNotFound) {
		return nil, fmt.Errorf("%s has no blueprint: %w", modelID, ErrSectionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading blueprint of %s: %w", modelID, err)
	}

	raw, ok := bp.Section(name)
	if !ok {
		return nil, fmt.Errorf("section %s on %s: %w", name, modelID, ErrSectionNotFound)
	}

	cfg, err := Resolve(raw, Binding{Name: name, Model: model, Language: s.language}, req)
	if err != nil {
		return nil, err
	}

	parent := model
	if cfg.Parent != model.ID {
		parent, err = s.node(ctx, cfg.Parent)
		if err != nil {
			return nil, err
		}
	}
	return &Resolved{Config: cfg, Model: model, Parent: parent}, nil
}

func (s *Service) node(ctx context.Context, id string) (*types.Node, error) {
	n, err := s.deps.Store.Node(ctx, id)
	if errors.Is(err, types.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", id, ErrNodeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", id, err)
	}
	return n, nil
}

// Items runs fetch, filter, order, paginate and project for one section.
func (s *Service) Items(ctx context.Context, actor types.Actor, modelID, name string, req Request) (types.PageResult, error) {
	log := logging.FromContext(ctx).With().
		Str("component", "section").
		Str("operation", "items").
		Str("model", modelID).
		Str("section", name).
		Logger()

	r, err := s.Resolve(ctx, modelID, name, req)
	if err != nil {
		return types.PageResult{}, err
	}
	cfg := r.Config

	candidates, err := Fetch(ctx, s.deps.Store, r.Parent, cfg)
	if err != nil {
		return types.PageResult{}, err
	}
	survivors, err := Filter(ctx, s.deps.Permissions, actor, candidates, cfg)
	if err != nil {
		return types.PageResult{}, err
	}
	ordered := Order(survivors, cfg)
	page, pagination := Paginate(ordered, cfg.Page, cfg.Limit)

	items, err := Project(ctx, s.deps, actor, r.Parent, page, cfg)
	if err != nil {
		return types.PageResult{}, err
	}

	log.Debug().
		Str("kind", string(cfg.Kind)).
		Str("status", string(cfg.Status)).
		Str("sort_by", cfg.SortBy.String()).
		Int("candidates", len(candidates)).
		Int("survivors", len(survivors)).
		Int("page", cfg.Page).
		Int("returned", len(items)).
		Msg("section listed")

	return types.PageResult{Items: items, Pagination: pagination}, nil
}

// Summary computes the section flags sent to the panel.
func (s *Service) Summary(ctx context.Context, modelID, name string) (types.Summary, error) {
	r, err := s.Resolve(ctx, modelID, name, Request{})
	if err != nil {
		return types.Summary{}, err
	}
	cfg := r.Config

	sum := types.Summary{
		Kind:     cfg.Kind,
		Empty:    cfg.Empty,
		Headline: cfg.Headline,
		Help:     cfg.Help,
		Layout:   cfg.Layout,
		Link:     Link(s.deps.Panel, r.Model, r.Parent),
		Max:      cfg.Max,
		Min:      cfg.Min,
		Size:     cfg.Size,
		Sortable: Sortable(cfg),
	}

	if cfg.Kind == types.SectionPages {
		add := Add(cfg)
		sum.Add = &add
		return sum, nil
	}

	accept, err := Accept(s.deps.Blueprints, cfg)
	if err != nil {
		return types.Summary{}, err
	}
	sum.Accept = accept
	sum.APIURL = s.deps.Panel.APIURL(r.Parent)
	sum.Upload = Upload(s.deps.Panel, r.Parent, cfg, accept)
	return sum, nil
}

// Blueprints lists the templates offered when creating pages in a pages
// section. Files sections offer none.
func (s *Service) Blueprints(ctx context.Context, modelID, name string) ([]types.BlueprintEntry, error) {
	r, err := s.Resolve(ctx, modelID, name, Request{})
	if err != nil {
		return nil, err
	}
	if r.Config.Kind != types.SectionPages {
		return []types.BlueprintEntry{}, nil
	}
	return ListBlueprints(s.deps.Blueprints, r.Config)
}
