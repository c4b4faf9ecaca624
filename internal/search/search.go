package search

import (
	"fmt"
	"strings"
)

// Result is one search hit with a snippet of matched text.
type Result struct {
	PaperID string  `json:"paper_id"`
	Title   string  `json:"title"`
	Year    int     `json:"year,omitempty"`
	Snippet string  `json:"snippet"`
	Rank    float64 `json:"rank"`
}

// DefaultLimit caps search results when the caller passes 0.
const DefaultLimit = 20

// Query runs a full-text query against the index, rebuilding it first if
// stale. Matches rank by FTS5 bm25; snippets come from the full text.
func (ix *Index) Query(q string, limit int) ([]Result, error) {
	if strings.TrimSpace(q) == "" {
		return nil, fmt.Errorf("empty query")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	if ix.Stale() {
		if _, err := ix.Rebuild(); err != nil {
			return nil, fmt.Errorf("rebuilding stale index: %w", err)
		}
	}

	db, err := openDB(ix.dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT f.paper_id, p.title, p.year,
		       snippet(papers_fts, 3, '[', ']', '…', 12),
		       bm25(papers_fts)
		FROM papers_fts f
		JOIN papers p ON p.paper_id = f.paper_id
		WHERE papers_fts MATCH ?
		ORDER BY bm25(papers_fts)
		LIMIT ?`, ftsQuery(q), limit)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.PaperID, &r.Title, &r.Year, &r.Snippet, &r.Rank); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// ftsQuery quotes each word so user input can't break FTS5 syntax.
func ftsQuery(q string) string {
	words := strings.Fields(q)
	for i, w := range words {
		words[i] = `"` + strings.ReplaceAll(w, `"`, ``) + `"`
	}
	return strings.Join(words, " ")
}
