package registry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testEntry(id string) Entry {
	return Entry{
		PaperID:   id,
		DOI:       "10.1038/" + id,
		Title:     "Title of " + id,
		Authors:   []string{"Hore, P.", "Mouritsen, H."},
		Year:      2016,
		Keywords:  []string{"radical pair"},
		DateAdded: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		FilePath:  "knowledge-base/papers/" + id,
	}
}

func TestLoad_MissingFile(t *testing.T) {
	r := New(t.TempDir())

	idx, err := r.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(idx.Papers) != 0 {
		t.Errorf("Papers = %v, want empty", idx.Papers)
	}
	if idx.Version != Version {
		t.Errorf("Version = %q, want %q", idx.Version, Version)
	}
}

func TestRegister_AndFind(t *testing.T) {
	r := New(t.TempDir())

	if err := r.Register(testEntry("nchem_2447")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	entry, err := r.Find("nchem_2447")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if entry == nil || entry.Title != "Title of nchem_2447" {
		t.Errorf("Find() = %+v", entry)
	}

	missing, err := r.Find("unknown")
	if err != nil || missing != nil {
		t.Errorf("Find(unknown) = %v, %v, want nil, nil", missing, err)
	}
}

func TestRegister_Idempotent(t *testing.T) {
	r := New(t.TempDir())
	entry := testEntry("nchem_2447")

	if err := r.Register(entry); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if err := r.Register(entry); err != nil {
		t.Fatalf("second Register() error = %v", err)
	}

	idx, err := r.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(idx.Papers) != 1 {
		t.Errorf("Papers after re-register = %d entries, want 1", len(idx.Papers))
	}
}

func TestRegister_PreservesOtherEntries(t *testing.T) {
	r := New(t.TempDir())

	for _, id := range []string{"alpha", "beta", "gamma"} {
		if err := r.Register(testEntry(id)); err != nil {
			t.Fatalf("Register(%s) error = %v", id, err)
		}
	}

	updated := testEntry("beta")
	updated.Title = "Revised title"
	if err := r.Register(updated); err != nil {
		t.Fatalf("Register(updated) error = %v", err)
	}

	idx, _ := r.Load()
	if len(idx.Papers) != 3 {
		t.Fatalf("Papers = %d entries, want 3", len(idx.Papers))
	}
	for _, id := range []string{"alpha", "gamma"} {
		e, _ := r.Find(id)
		if e == nil || e.Title != "Title of "+id {
			t.Errorf("entry %s was disturbed: %+v", id, e)
		}
	}
	if e, _ := r.Find("beta"); e == nil || e.Title != "Revised title" {
		t.Errorf("beta not updated: %+v", e)
	}
}

func TestRegister_EmptyID(t *testing.T) {
	r := New(t.TempDir())

	err := r.Register(Entry{Title: "no id"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Register() error = %v, want *ValidationError", err)
	}
}

func TestRegister_LockedFailsFast(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)

	lockPath := r.Path() + ".lock"
	if err := os.WriteFile(lockPath, []byte("12345\n"), 0644); err != nil {
		t.Fatal(err)
	}

	err := r.Register(testEntry("nchem_2447"))
	var lerr *LockedError
	if !errors.As(err, &lerr) {
		t.Fatalf("Register() with held lock error = %v, want *LockedError", err)
	}

	// The held lock must survive the failed attempt
	if _, err := os.Stat(lockPath); err != nil {
		t.Error("foreign lock file was removed")
	}
}

func TestRegister_ReleasesLock(t *testing.T) {
	r := New(t.TempDir())

	if err := r.Register(testEntry("a")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := os.Stat(r.Path() + ".lock"); !os.IsNotExist(err) {
		t.Error("lock file left behind after Register()")
	}
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)
	if err := os.WriteFile(r.Path(), []byte("{ not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := r.Load()
	var cerr *CorruptionError
	if !errors.As(err, &cerr) {
		t.Fatalf("Load() error = %v, want *CorruptionError", err)
	}

	// Register against a corrupt index must halt, not overwrite
	if err := r.Register(testEntry("x")); err == nil {
		t.Fatal("Register() over corrupt index succeeded")
	}
	data, _ := os.ReadFile(r.Path())
	if string(data) != "{ not json" {
		t.Error("corrupt registry was modified")
	}
}

func TestLoad_InvalidEntry(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)
	content := `{"version":"1.0.0","papers":[{"paper_id":"","title":"nameless"}]}`
	if err := os.WriteFile(r.Path(), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := r.Load()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Load() error = %v, want *ValidationError", err)
	}
	if !strings.Contains(verr.Field, "papers[0]") {
		t.Errorf("Field = %q, want papers[0] reference", verr.Field)
	}
}

func TestRemove(t *testing.T) {
	r := New(t.TempDir())

	r.Register(testEntry("keep"))
	r.Register(testEntry("drop"))

	if err := r.Remove("drop"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if e, _ := r.Find("drop"); e != nil {
		t.Error("removed entry still present")
	}
	if e, _ := r.Find("keep"); e == nil {
		t.Error("unrelated entry removed")
	}

	// Removing an unknown id is not an error
	if err := r.Remove("never-existed"); err != nil {
		t.Errorf("Remove(unknown) error = %v", err)
	}
}

func TestWrite_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)

	if err := r.Register(testEntry("a")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-index-") {
			t.Errorf("temp file left behind: %s", filepath.Join(dir, e.Name()))
		}
	}
}
