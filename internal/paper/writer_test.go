package paper

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testRecord(id string) *Record {
	return &Record{
		PaperID:   id,
		DOI:       "10.1038/nchem.2447",
		Title:     "Quantum coherence in photosynthesis",
		Authors:   []string{"Scholes, G.", "Fleming, G."},
		Abstract:  "Coherent energy transfer in light harvesting.",
		DateAdded: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCommit_CreatesLayout(t *testing.T) {
	w := NewWriter(t.TempDir())
	rec := testRecord("nchem_2447")

	dir, err := w.Commit(rec, "full text body", false)
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	for _, name := range []string{FullTextFile, MetadataFile, ContextFile, AnnotationsFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
	for _, sub := range []string{FiguresDir, DataDir} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil || !info.IsDir() {
			t.Errorf("missing directory %s", sub)
		}
	}

	text, err := os.ReadFile(filepath.Join(dir, FullTextFile))
	if err != nil {
		t.Fatalf("reading full text: %v", err)
	}
	if string(text) != "full text body" {
		t.Errorf("full text = %q, want %q", text, "full text body")
	}

	got, err := w.ReadRecord("nchem_2447")
	if err != nil {
		t.Fatalf("ReadRecord() error = %v", err)
	}
	if got.Title != rec.Title || got.DOI != rec.DOI {
		t.Errorf("round-tripped record = %+v, want %+v", got, rec)
	}
}

func TestCommit_DuplicateWithoutOverwrite(t *testing.T) {
	w := NewWriter(t.TempDir())
	rec := testRecord("nchem_2447")

	if _, err := w.Commit(rec, "first", false); err != nil {
		t.Fatalf("first Commit() error = %v", err)
	}

	_, err := w.Commit(rec, "second", false)
	var dup *DuplicateIdentifierError
	if !errors.As(err, &dup) {
		t.Fatalf("second Commit() error = %v, want *DuplicateIdentifierError", err)
	}
	if dup.PaperID != "nchem_2447" {
		t.Errorf("DuplicateIdentifierError.PaperID = %q, want nchem_2447", dup.PaperID)
	}

	// First commit's text must be untouched
	text, _ := os.ReadFile(filepath.Join(w.Dir("nchem_2447"), FullTextFile))
	if string(text) != "first" {
		t.Errorf("full text after failed commit = %q, want %q", text, "first")
	}
}

func TestCommit_OverwriteBacksUpArtifacts(t *testing.T) {
	w := NewWriter(t.TempDir())
	rec := testRecord("nchem_2447")

	if _, err := w.Commit(rec, "original text", false); err != nil {
		t.Fatalf("first Commit() error = %v", err)
	}

	dir, err := w.Commit(rec, "reprocessed text", true)
	if err != nil {
		t.Fatalf("overwrite Commit() error = %v", err)
	}

	text, _ := os.ReadFile(filepath.Join(dir, FullTextFile))
	if string(text) != "reprocessed text" {
		t.Errorf("full text = %q, want reprocessed text", text)
	}

	backups, err := os.ReadDir(filepath.Join(dir, BackupsDir))
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected one backup directory, got %v (err %v)", backups, err)
	}
	backed, err := os.ReadFile(filepath.Join(dir, BackupsDir, backups[0].Name(), FullTextFile))
	if err != nil {
		t.Fatalf("reading backup: %v", err)
	}
	if string(backed) != "original text" {
		t.Errorf("backup text = %q, want original text", backed)
	}
}

func TestCommit_ScaffoldsNeverReplaced(t *testing.T) {
	w := NewWriter(t.TempDir())
	rec := testRecord("nchem_2447")

	dir, err := w.Commit(rec, "text", false)
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	edited := "# My notes\n\nhand-written analysis\n"
	ctxPath := filepath.Join(dir, ContextFile)
	if err := os.WriteFile(ctxPath, []byte(edited), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := w.Commit(rec, "re-extracted", true); err != nil {
		t.Fatalf("overwrite Commit() error = %v", err)
	}

	got, _ := os.ReadFile(ctxPath)
	if string(got) != edited {
		t.Errorf("context.md was replaced on reprocess; got %q", got)
	}
}

func TestRenderContext_FillsTitle(t *testing.T) {
	rec := testRecord("nchem_2447")
	out := RenderContext(rec)

	if !strings.Contains(out, rec.Title) {
		t.Errorf("RenderContext() missing title %q", rec.Title)
	}
	if !strings.Contains(out, rec.DOI) {
		t.Errorf("RenderContext() missing DOI %q", rec.DOI)
	}
	if !strings.Contains(out, "## Abstract") {
		t.Error("RenderContext() missing abstract section for record with abstract")
	}
}
