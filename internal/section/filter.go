// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package section

import (
	"context"
	"fmt"
	"slices"

	"github.com/pdiddy/section-engine/pkg/types"
)

// Filter drops candidates the actor cannot read and, for pages sections
// with a template allow-list, pages of other templates. Survivors keep
// their relative order.
func Filter(ctx context.Context, perms Permissions, actor types.Actor, nodes []*types.Node, cfg types.SectionConfig) ([]*types.Node, error) {
	survivors := make([]*types.Node, 0, len(nodes))
	for _, n := range nodes {
		readable, err := perms.Can(ctx, actor, n, actionRead)
		if err != nil {
			return nil, fmt.Errorf("checking read access to %s: %w", n.ID, err)
		}
		if !readable {
			continue
		}
		if cfg.Kind == types.SectionPages && len(cfg.Templates) > 0 &&
			!slices.Contains(cfg.Templates, n.IntendedTemplate()) {
			continue
		}
		survivors = append(survivors, n)
	}
	return survivors, nil
}
