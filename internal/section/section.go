// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package section implements the collection-section query pipeline: it
// lists the child pages or the files of a parent node for the panel.
//
// A request flows through resolve, fetch, filter, order, paginate and
// project. The section-level flags (sortable, add, link, accept, upload)
// are computed from the resolved configuration alone. Every collaborator
// is consumed through the small interfaces declared here, so the stages
// can be tested with in-memory fakes.
package section

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/section-engine/internal/blueprint"
	"github.com/pdiddy/section-engine/pkg/types"
)

// Store reads content nodes. Children are returned in manual order: listed
// pages by sorting number, unlisted pages and drafts by slug, files by sort
// number then filename.
type Store interface {
	Node(ctx context.Context, id string) (*types.Node, error)
	Children(ctx context.Context, parentID string, status types.NodeStatus) ([]*types.Node, error)
	Drafts(ctx context.Context, parentID string) ([]*types.Node, error)
	Files(ctx context.Context, parentID, template string) ([]*types.Node, error)
}

// Permissions decides what an actor may do with a node.
type Permissions interface {
	Can(ctx context.Context, actor types.Actor, n *types.Node, action string) (bool, error)
}

// Renderer evaluates text and info templates against a node.
type Renderer interface {
	Render(ctx context.Context, src string, n *types.Node) (string, error)
}

// Images resolves the preview image of a node.
type Images interface {
	Image(ctx context.Context, n *types.Node, opts types.ImageOptions, layout string) (*types.Image, error)
}

// Blueprints loads template blueprints.
type Blueprints interface {
	Load(kind blueprint.Kind, name string) (*blueprint.Blueprint, error)
	Names(kind blueprint.Kind) ([]string, error)
}

// Panel builds panel URLs and drag texts.
type Panel interface {
	URL(n *types.Node) string
	Path(n *types.Node) string
	APIURL(n *types.Node) string
	FileURL(n *types.Node) string
	DragText(n *types.Node, absolute bool) string
}

// Deps bundles the collaborators of the pipeline.
type Deps struct {
	Store       Store
	Permissions Permissions
	Renderer    Renderer
	Images      Images
	Blueprints  Blueprints
	Panel       Panel
}

// Permission actions checked by the pipeline.
const (
	actionRead         = "read"
	actionSort         = "sort"
	actionChangeSlug   = "changeSlug"
	actionChangeStatus = "changeStatus"
	actionChangeTitle  = "changeTitle"
)

var (
	// ErrInvalidPagination is wrapped by ConfigError when page or limit is
	// not a positive integer.
	ErrInvalidPagination = errors.New("page and limit must be positive integers")

	// ErrNodeNotFound is returned when the model or parent node does not
	// exist.
	ErrNodeNotFound = errors.New("node not found")

	// ErrSectionNotFound is returned when the model's blueprint does not
	// define the requested section.
	ErrSectionNotFound = errors.New("section not found")
)

// ConfigError reports a request-level configuration problem.
type ConfigError struct {
	Field string
	Value int
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %d: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
