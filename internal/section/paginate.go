// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package section

import (
	"github.com/pdiddy/section-engine/pkg/types"
)

// Paginate returns the nodes of the requested page, nodes[(page-1)*limit :
// page*limit] clamped to bounds, and the pagination metadata. The page is
// not clamped: a page past the end yields no nodes and the full total.
// page and limit must be positive; Resolve guarantees it.
func Paginate(nodes []*types.Node, page, limit int) ([]*types.Node, types.Pagination) {
	total := len(nodes)
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}

	start, end := total, total
	if page-1 < pages {
		start = (page - 1) * limit
		end = min(start+limit, total)
	}

	return nodes[start:end], types.Pagination{
		Page:  page,
		Total: total,
		Limit: limit,
		Pages: pages,
	}
}
