// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists harvested paper metadata in a local SQLite
// database for post-run queries. The catalog is derived state: resumption
// decisions come from the progress checkpoint and the files on disk, never
// from here.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-harvest/pkg/types"
)

const dbFile = "catalog.db"

// Store manages the paper catalog SQLite database.
type Store struct {
	db  *sql.DB
	dir string
}

// Open opens or creates the catalog database at dir/catalog.db, creating
// the schema if it does not exist.
func Open(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	s := &Store{db: db, dir: cfg.CatalogDir}
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
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			author TEXT,
			booktitle TEXT,
			editor TEXT,
			pages TEXT,
			publisher TEXT,
			url TEXT,
			volume TEXT,
			year TEXT,
			abstract TEXT,
			label TEXT,
			pdf_url TEXT,
			pdf_path TEXT,
			harvested_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_year ON papers(year)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Upsert inserts or updates the given papers in one transaction and
// returns the number of rows written.
func (s *Store) Upsert(ctx context.Context, papers []*types.Paper) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, title, author, booktitle, editor, pages, publisher,
			url, volume, year, abstract, label, pdf_url, pdf_path, harvested_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, author=excluded.author, booktitle=excluded.booktitle,
			editor=excluded.editor, pages=excluded.pages, publisher=excluded.publisher,
			url=excluded.url, volume=excluded.volume, year=excluded.year,
			abstract=excluded.abstract, label=excluded.label,
			pdf_url=excluded.pdf_url, pdf_path=excluded.pdf_path,
			harvested_at=excluded.harvested_at`)
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	count := 0
	for _, p := range papers {
		_, err := stmt.ExecContext(ctx,
			p.ID, p.Title, p.Author, p.Booktitle, p.Editor, p.Pages, p.Publisher,
			p.URL, p.Volume, p.Year, p.Abstract, p.Label, p.PDFURL, p.PDFPath, now)
		if err != nil {
			return 0, fmt.Errorf("upserting paper %s: %w", p.ID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return count, nil
}

// List returns all cataloged papers ordered by year then id.
func (s *Store) List(ctx context.Context) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, author, booktitle, editor, pages, publisher,
			url, volume, year, abstract, label, pdf_url, pdf_path
		 FROM papers ORDER BY year, id`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var p types.Paper
		if err := rows.Scan(&p.ID, &p.Title, &p.Author, &p.Booktitle, &p.Editor,
			&p.Pages, &p.Publisher, &p.URL, &p.Volume, &p.Year, &p.Abstract,
			&p.Label, &p.PDFURL, &p.PDFPath); err != nil {
			return nil, fmt.Errorf("scanning catalog row: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
