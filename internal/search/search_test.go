package search

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marais-lab/qkb/internal/paper"
	"github.com/marais-lab/qkb/internal/registry"
)

func setupIndex(t *testing.T) (*Index, *registry.Registry, string) {
	t.Helper()
	root := t.TempDir()
	papersDir := filepath.Join(root, "papers")
	reg := registry.New(filepath.Join(root, "index"))
	ix := NewIndex(filepath.Join(root, "cache", "search.db"), papersDir, reg)
	return ix, reg, papersDir
}

func addPaper(t *testing.T, reg *registry.Registry, papersDir, id, title, fullText string) {
	t.Helper()
	w := paper.NewWriter(papersDir)
	if _, err := w.Commit(&paper.Record{
		PaperID:   id,
		Title:     title,
		DateAdded: time.Now(),
	}, fullText, false); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(registry.Entry{
		PaperID:   id,
		Title:     title,
		Year:      2016,
		DateAdded: time.Now(),
		FilePath:  filepath.Join("papers", id),
	}); err != nil {
		t.Fatal(err)
	}
}

func TestRebuildAndQuery(t *testing.T) {
	ix, reg, papersDir := setupIndex(t)
	addPaper(t, reg, papersDir, "ritz2000", "A model for magnetoreception in birds",
		"The radical pair mechanism explains the avian compass.")
	addPaper(t, reg, papersDir, "engel2007", "Quantum coherence in photosynthesis",
		"Long-lived electronic coherence in light-harvesting complexes.")

	count, err := ix.Rebuild()
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Rebuild() = %d, want 2", count)
	}

	results, err := ix.Query("radical pair compass", 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(results) != 1 || results[0].PaperID != "ritz2000" {
		t.Errorf("Query() = %+v, want ritz2000", results)
	}
	if results[0].Snippet == "" {
		t.Error("result missing snippet")
	}
}

func TestQuery_RebuildsWhenStale(t *testing.T) {
	ix, reg, papersDir := setupIndex(t)
	addPaper(t, reg, papersDir, "ritz2000", "Magnetoreception model", "radical pair dynamics")

	// No explicit Rebuild: Query must notice the cache is missing
	results, err := ix.Query("magnetoreception", 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Query() = %d results, want 1", len(results))
	}

	// Registry change makes the cache stale again
	addPaper(t, reg, papersDir, "hore2016", "The quantum needle", "spin dynamics of the compass")
	if !ix.Stale() {
		t.Error("Stale() = false after registry change")
	}

	results, err = ix.Query("quantum needle", 10)
	if err != nil {
		t.Fatalf("Query() after change error = %v", err)
	}
	if len(results) != 1 || results[0].PaperID != "hore2016" {
		t.Errorf("Query() = %+v, want hore2016", results)
	}
}

func TestRebuild_Disposable(t *testing.T) {
	ix, reg, papersDir := setupIndex(t)
	addPaper(t, reg, papersDir, "a", "Title alpha", "alpha text")

	if _, err := ix.Rebuild(); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(ix.dbPath); err != nil {
		t.Fatal(err)
	}

	count, err := ix.Rebuild()
	if err != nil {
		t.Fatalf("Rebuild() after delete error = %v", err)
	}
	if count != 1 {
		t.Errorf("Rebuild() = %d, want 1", count)
	}
	if ix.Stale() {
		t.Error("Stale() = true right after rebuild")
	}
}

func TestQuery_Empty(t *testing.T) {
	ix, _, _ := setupIndex(t)
	if _, err := ix.Query("   ", 10); err == nil {
		t.Error("Query(blank) succeeded")
	}
}

func TestFTSQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"radical pair", `"radical" "pair"`},
		{`spin "dynamics`, `"spin" "dynamics"`},
		{"single", `"single"`},
	}

	for _, tt := range tests {
		if got := ftsQuery(tt.in); got != tt.want {
			t.Errorf("ftsQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
