// Package registry maintains master-index.json, the shared index mapping
// paper identifiers to summarized metadata. Updates follow a
// read-validate-merge-write discipline with an atomic replace; the file
// is never truncated in place.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Filename is the registry file name within the index directory.
const Filename = "master-index.json"

// Version identifies the registry format.
const Version = "1.0.0"

// Entry is a denormalized summary of one Paper Record. It never holds
// data not derivable from the record it summarizes.
type Entry struct {
	PaperID   string    `json:"paper_id"`
	DOI       string    `json:"doi"`
	Title     string    `json:"title"`
	Authors   []string  `json:"authors"`
	Year      int       `json:"year,omitempty"`
	Keywords  []string  `json:"keywords"`
	DateAdded time.Time `json:"date_added"`
	FilePath  string    `json:"file_path"` // Paper directory, relative to repo root
}

// Index is the on-disk registry structure.
type Index struct {
	Version     string    `json:"version"`
	LastUpdated time.Time `json:"last_updated"`
	Papers      []Entry   `json:"papers"`
}

// Registry tracks papers in a single index file under dir.
type Registry struct {
	dir string
}

// New creates a registry over the given index directory.
func New(indexDir string) *Registry {
	return &Registry{dir: indexDir}
}

// Path returns the registry file path.
func (r *Registry) Path() string {
	return filepath.Join(r.dir, Filename)
}

// Load reads and validates the registry. A missing file yields an empty
// index; an unparseable file yields *CorruptionError.
func (r *Registry) Load() (*Index, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return &Index{Version: Version}, nil
		}
		return nil, fmt.Errorf("reading registry: %w", err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &CorruptionError{Path: r.Path(), Err: err}
	}

	for i, e := range idx.Papers {
		if e.PaperID == "" {
			return nil, &ValidationError{
				Path:  r.Path(),
				Field: fmt.Sprintf("papers[%d].paper_id", i),
				Msg:   "empty identifier",
			}
		}
	}

	return &idx, nil
}

// Register upserts exactly one entry keyed by paper id. The operation is
// idempotent: registering the same entry twice leaves one entry and the
// same state. Other entries are carried over unchanged.
func (r *Registry) Register(entry Entry) error {
	if entry.PaperID == "" {
		return &ValidationError{Path: r.Path(), Field: "paper_id", Msg: "empty identifier"}
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	lock, err := acquireLock(r.Path())
	if err != nil {
		return err
	}
	defer lock.Release()

	idx, err := r.Load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range idx.Papers {
		if idx.Papers[i].PaperID == entry.PaperID {
			idx.Papers[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		idx.Papers = append(idx.Papers, entry)
	}

	idx.Version = Version
	idx.LastUpdated = time.Now()

	return r.write(idx)
}

// Remove deletes the entry for a paper id. Removing an unknown id is not
// an error.
func (r *Registry) Remove(paperID string) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	lock, err := acquireLock(r.Path())
	if err != nil {
		return err
	}
	defer lock.Release()

	idx, err := r.Load()
	if err != nil {
		return err
	}

	kept := idx.Papers[:0]
	for _, e := range idx.Papers {
		if e.PaperID != paperID {
			kept = append(kept, e)
		}
	}
	idx.Papers = kept
	idx.LastUpdated = time.Now()

	return r.write(idx)
}

// Find returns the entry for a paper id, or nil.
func (r *Registry) Find(paperID string) (*Entry, error) {
	idx, err := r.Load()
	if err != nil {
		return nil, err
	}
	for i := range idx.Papers {
		if idx.Papers[i].PaperID == paperID {
			return &idx.Papers[i], nil
		}
	}
	return nil, nil
}

// write persists the index via temp file + atomic rename, so a crash
// mid-write can never leave a truncated registry behind.
func (r *Registry) write(idx *Index) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(r.dir, ".tmp-index-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	enc := json.NewEncoder(tmpFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(idx); err != nil {
		tmpFile.Close()
		return fmt.Errorf("encoding registry: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, r.Path()); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}
