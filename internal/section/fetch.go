// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package section

import (
	"context"
	"fmt"

	"github.com/pdiddy/section-engine/pkg/types"
)

// Fetch returns the candidates of a section in the store's manual order.
//
// Pages are selected by status: draft lists drafts, listed and unlisted
// list the matching children, published lists listed then unlisted
// children, and all appends the drafts. Files are all attachments of the
// parent, narrowed to the bound template when one is set.
func Fetch(ctx context.Context, store Store, parent *types.Node, cfg types.SectionConfig) ([]*types.Node, error) {
	if cfg.Kind == types.SectionFiles {
		files, err := store.Files(ctx, parent.ID, cfg.Template)
		if err != nil {
			return nil, fmt.Errorf("fetching files of %s: %w", parent.ID, err)
		}
		return files, nil
	}

	var statuses []types.NodeStatus
	switch cfg.Status {
	case types.FilterDraft:
		statuses = []types.NodeStatus{types.StatusDraft}
	case types.FilterListed:
		statuses = []types.NodeStatus{types.StatusListed}
	case types.FilterUnlisted:
		statuses = []types.NodeStatus{types.StatusUnlisted}
	case types.FilterPublished:
		statuses = []types.NodeStatus{types.StatusListed, types.StatusUnlisted}
	default:
		statuses = []types.NodeStatus{types.StatusListed, types.StatusUnlisted, types.StatusDraft}
	}

	var pages []*types.Node
	for _, status := range statuses {
		var (
			batch []*types.Node
			err   error
		)
		if status == types.StatusDraft {
			batch, err = store.Drafts(ctx, parent.ID)
		} else {
			batch, err = store.Children(ctx, parent.ID, status)
		}
		if err != nil {
			return nil, fmt.Errorf("fetching %s pages of %s: %w", status, parent.ID, err)
		}
		pages = append(pages, batch...)
	}
	return pages, nil
}
