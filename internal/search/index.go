// Package search maintains an ephemeral SQLite full-text index over the
// registry and extracted texts. The database is a disposable cache:
// always rebuildable from master-index.json and the paper directories,
// never a source of truth.
package search

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/marais-lab/qkb/internal/paper"
	"github.com/marais-lab/qkb/internal/registry"
)

// Index wraps the search database.
type Index struct {
	dbPath    string
	papersDir string
	reg       *registry.Registry
}

// NewIndex creates an index handle. Nothing is opened until used.
func NewIndex(dbPath, papersDir string, reg *registry.Registry) *Index {
	return &Index{dbPath: dbPath, papersDir: papersDir, reg: reg}
}

// openDB opens the SQLite database with single-writer settings.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	return db, nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS papers (
  paper_id TEXT PRIMARY KEY,
  doi TEXT,
  title TEXT,
  year INTEGER,
  keywords TEXT
);
CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(
  paper_id, title, keywords, full_text
);
CREATE TABLE IF NOT EXISTS meta (
  key TEXT PRIMARY KEY,
  value TEXT
);
`

// SourceHash computes the sha256 of the registry file, used as the
// staleness stamp for the cache.
func (ix *Index) SourceHash() (string, error) {
	f, err := os.Open(ix.reg.Path())
	if err != nil {
		if os.IsNotExist(err) {
			h := sha256.Sum256([]byte{})
			return hex.EncodeToString(h[:]), nil
		}
		return "", fmt.Errorf("opening registry: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("reading registry: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Stale reports whether the cache no longer matches the registry.
// A missing or unreadable cache is stale, never an error.
func (ix *Index) Stale() bool {
	current, err := ix.SourceHash()
	if err != nil {
		return true
	}

	db, err := openDB(ix.dbPath)
	if err != nil {
		return true
	}
	defer db.Close()

	var stored string
	err = db.QueryRow(`SELECT value FROM meta WHERE key = 'source_hash'`).Scan(&stored)
	if err != nil {
		return true
	}
	return stored != current
}

// Rebuild drops and repopulates the index from the registry and the
// papers' full texts. Returns the number of papers indexed.
func (ix *Index) Rebuild() (int, error) {
	idx, err := ix.reg.Load()
	if err != nil {
		return 0, err
	}

	hash, err := ix.SourceHash()
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(ix.dbPath), 0755); err != nil {
		return 0, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := openDB(ix.dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if _, err := db.Exec(schemaDDL); err != nil {
		return 0, fmt.Errorf("creating tables: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"papers", "papers_fts"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, entry := range idx.Papers {
		keywords := strings.Join(entry.Keywords, " ")

		fullText := ""
		textPath := filepath.Join(ix.papersDir, entry.PaperID, paper.FullTextFile)
		if data, err := os.ReadFile(textPath); err == nil {
			fullText = string(data)
		}

		if _, err := tx.Exec(
			`INSERT INTO papers (paper_id, doi, title, year, keywords) VALUES (?, ?, ?, ?, ?)`,
			entry.PaperID, entry.DOI, entry.Title, entry.Year, keywords,
		); err != nil {
			return 0, fmt.Errorf("inserting %s: %w", entry.PaperID, err)
		}

		if _, err := tx.Exec(
			`INSERT INTO papers_fts (paper_id, title, keywords, full_text) VALUES (?, ?, ?, ?)`,
			entry.PaperID, entry.Title, keywords, fullText,
		); err != nil {
			return 0, fmt.Errorf("indexing %s: %w", entry.PaperID, err)
		}
	}

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('source_hash', ?), ('last_rebuild', ?)`,
		hash, time.Now().Format(time.RFC3339),
	); err != nil {
		return 0, fmt.Errorf("updating metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}

	return len(idx.Papers), nil
}
