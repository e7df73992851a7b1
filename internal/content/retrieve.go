// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/section-engine/pkg/types"
)

const nodeColumns = `id, kind, parent_id, slug, template, status, num, fields,
	filename, extension, mime, size, modified`

// Node returns the node with the given ID. A missing node wraps
// types.ErrNotFound.
func (s *Store) Node(ctx context.Context, id string) (*types.Node, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("looking up node %s: %w", id, err)
	}
	nodes, err := scanNodes(rows)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("node %s: %w", id, types.ErrNotFound)
	}
	return nodes[0], nil
}

// Children returns the pages of parentID with the given status in manual
// order: listed pages by sorting number, unlisted pages and drafts by slug.
func (s *Store) Children(ctx context.Context, parentID string, status types.NodeStatus) ([]*types.Node, error) {
	order := `slug`
	if status == types.StatusListed {
		order = `num, slug`
	}
	return s.query(ctx,
		`SELECT `+nodeColumns+` FROM nodes
		 WHERE parent_id = ? AND kind = 'page' AND status = ?
		 ORDER BY `+order,
		parentID, string(status))
}

// Drafts returns the draft pages of parentID ordered by slug.
func (s *Store) Drafts(ctx context.Context, parentID string) ([]*types.Node, error) {
	return s.Children(ctx, parentID, types.StatusDraft)
}

// Files returns the files of parentID in manual order (sort number, then
// filename). A non-empty template restricts the result to files with that
// template; files without a template count as "default".
func (s *Store) Files(ctx context.Context, parentID, template string) ([]*types.Node, error) {
	var (
		qb   strings.Builder
		args = []any{parentID}
	)
	qb.WriteString(`SELECT ` + nodeColumns + ` FROM nodes WHERE parent_id = ? AND kind = 'file'`)
	if template != "" {
		qb.WriteString(` AND COALESCE(NULLIF(template, ''), ?) = ?`)
		args = append(args, types.DefaultFileTemplate, template)
	}
	qb.WriteString(` ORDER BY num, filename`)
	return s.query(ctx, qb.String(), args...)
}

// All returns every indexed node ordered by ID.
func (s *Store) All(ctx context.Context) ([]*types.Node, error) {
	return s.query(ctx, `SELECT `+nodeColumns+` FROM nodes ORDER BY id`)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]*types.Node, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying content index: %w", err)
	}
	return scanNodes(rows)
}

func scanNodes(rows *sql.Rows) ([]*types.Node, error) {
	defer rows.Close()

	var nodes []*types.Node
	for rows.Next() {
		var (
			n          types.Node
			kind       string
			status     string
			parentID   sql.NullString
			slug       sql.NullString
			template   sql.NullString
			fieldsJSON sql.NullString
			filename   sql.NullString
			extension  sql.NullString
			mime       sql.NullString
			modified   sql.NullString
		)
		if err := rows.Scan(
			&n.ID, &kind, &parentID, &slug, &template, &status, &n.Num, &fieldsJSON,
			&filename, &extension, &mime, &n.Size, &modified,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		n.Kind = types.NodeKind(kind)
		n.Status = types.NodeStatus(status)
		n.ParentID = parentID.String
		n.Slug = slug.String
		n.Template = template.String
		n.Filename = filename.String
		n.Extension = extension.String
		n.Mime = mime.String

		if fieldsJSON.Valid && fieldsJSON.String != "" && fieldsJSON.String != "null" {
			if err := json.Unmarshal([]byte(fieldsJSON.String), &n.Fields); err != nil {
				return nil, fmt.Errorf("decoding fields of %s: %w", n.ID, err)
			}
		}
		if modified.Valid && modified.String != "" {
			t, err := time.Parse(time.RFC3339Nano, modified.String)
			if err == nil {
				n.Modified = t
			}
		}

		nodes = append(nodes, &n)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return nodes, nil
}
