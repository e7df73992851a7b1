// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package content indexes a content directory into SQLite and serves the
// read-only node queries the section pipeline needs: a node by ID, the
// children of a page by status, its drafts, and its files.
//
// The content directory follows these conventions:
//
//	content/
//	  site.yaml             site fields
//	  1_blog/               listed page "blog", sorting number 1
//	    blog.yaml           fields; the file name is the template
//	    cover.jpg           file attached to "blog"
//	    cover.jpg.yaml      file meta: template, sort, fields
//	    _drafts/
//	      wip/article.yaml  draft page "blog/wip"
//	  about/default.yaml    unlisted page "about"
package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/section-engine/internal/logging"
)

const dbFile = "content.db"

// Store manages the content index SQLite database.
type Store struct {
	db       *sql.DB
	indexDir string
}

// NewStore opens or creates the content index at indexDir/content.db. It
// creates the schema if it does not exist.
func NewStore(indexDir string) (*Store, error) {
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(indexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:       db,
		indexDir: indexDir,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			parent_id TEXT,
			slug TEXT,
			template TEXT,
			status TEXT,
			num INTEGER NOT NULL DEFAULT 0,
			fields TEXT,
			filename TEXT,
			extension TEXT,
			mime TEXT,
			size INTEGER NOT NULL DEFAULT 0,
			modified TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id, kind)`,
		`CREATE TABLE IF NOT EXISTS ingest_runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			content_dir TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			pages INTEGER NOT NULL,
			files INTEGER NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from a content indexing run.
type IngestSummary struct {
	Pages  int
	Drafts int
	Files  int
	Failed int
}

// Total returns the number of nodes processed, the site excluded.
func (s IngestSummary) Total() int {
	return s.Pages + s.Drafts + s.Files + s.Failed
}

// Ingest walks contentDir and replaces the index with the nodes it finds.
// Unreadable or malformed pages and files are reported on w and counted as
// failed; the rest of the tree is still indexed. The replacement happens in
// one transaction, so readers never see a half-built index.
func (s *Store) Ingest(ctx context.Context, contentDir string, w io.Writer) (IngestSummary, error) {
	log := logging.FromContext(ctx).With().
		Str("component", "content").
		Str("operation", "ingest").
		Logger()

	if _, err := os.Stat(contentDir); err != nil {
		return IngestSummary{}, fmt.Errorf("reading content directory %s: %w", contentDir, err)
	}

	nodes, summary, err := walkTree(ctx, contentDir, w)
	if err != nil {
		return summary, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return summary, fmt.Errorf("clearing nodes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO nodes (id, kind, parent_id, slug, template, status, num, fields,
			filename, extension, mime, size, modified)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range nodes {
		fieldsJSON, _ := json.Marshal(n.Fields)
		modified := ""
		if !n.Modified.IsZero() {
			modified = n.Modified.UTC().Format(time.RFC3339Nano)
		}
		_, err := stmt.ExecContext(ctx,
			n.ID, string(n.Kind), n.ParentID, n.Slug, n.Template, string(n.Status), n.Num,
			string(fieldsJSON), n.Filename, n.Extension, n.Mime, n.Size, modified,
		)
		if err != nil {
			return summary, fmt.Errorf("inserting node %s: %w", n.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_runs (content_dir, finished_at, pages, files) VALUES (?, ?, ?, ?)`,
		contentDir, time.Now().UTC().Format(time.RFC3339), summary.Pages+summary.Drafts, summary.Files,
	)
	if err != nil {
		return summary, fmt.Errorf("recording ingest run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing index: %w", err)
	}

	fmt.Fprintf(w, "\npages: %d, drafts: %d, files: %d, failed: %d\n",
		summary.Pages, summary.Drafts, summary.Files, summary.Failed)
	log.Info().
		Int("pages", summary.Pages).
		Int("drafts", summary.Drafts).
		Int("files", summary.Files).
		Int("failed", summary.Failed).
		Msg("content indexed")

	return summary, nil
}
