package paper

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Artifact file names within a paper directory.
const (
	FullTextFile    = "full_text.txt"
	MetadataFile    = "metadata.json"
	ContextFile     = "context.md"
	AnnotationsFile = "annotations.md"
	FiguresDir      = "figures"
	DataDir         = "data"
	BackupsDir      = "backups"
)

// Writer persists paper records under a papers directory.
type Writer struct {
	papersDir string
	now       func() time.Time
}

// NewWriter creates a writer rooted at the given papers directory.
func NewWriter(papersDir string) *Writer {
	return &Writer{papersDir: papersDir, now: time.Now}
}

// Dir returns the directory a paper id maps to.
func (w *Writer) Dir(paperID string) string {
	return filepath.Join(w.papersDir, paperID)
}

// Exists reports whether a paper directory already exists for the id.
func (w *Writer) Exists(paperID string) bool {
	info, err := os.Stat(w.Dir(paperID))
	return err == nil && info.IsDir()
}

// Commit writes a paper directory: full text, metadata record and editable
// scaffolds. It fails with *DuplicateIdentifierError when the directory
// already exists and overwrite is false. The full-text and metadata
// artifacts are never overwritten in place: with overwrite, the existing
// versions are copied into backups/<timestamp>/ first.
func (w *Writer) Commit(rec *Record, fullText string, overwrite bool) (string, error) {
	dir := w.Dir(rec.PaperID)

	if w.Exists(rec.PaperID) {
		if !overwrite {
			return "", &DuplicateIdentifierError{PaperID: rec.PaperID, Dir: dir}
		}
		if err := w.backupArtifacts(dir); err != nil {
			return "", fmt.Errorf("backing up prior artifacts: %w", err)
		}
	}

	for _, sub := range []string{dir, filepath.Join(dir, FiguresDir), filepath.Join(dir, DataDir)} {
		if err := os.MkdirAll(sub, 0755); err != nil {
			return "", fmt.Errorf("creating paper directory: %w", err)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, FullTextFile), []byte(fullText), 0644); err != nil {
		return "", fmt.Errorf("writing full text: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, MetadataFile), data, 0644); err != nil {
		return "", fmt.Errorf("writing metadata: %w", err)
	}

	// Scaffolds are only seeded once. An existing file is assumed edited
	// and is never replaced.
	if err := writeIfAbsent(filepath.Join(dir, ContextFile), RenderContext(rec)); err != nil {
		return "", fmt.Errorf("writing context scaffold: %w", err)
	}
	if err := writeIfAbsent(filepath.Join(dir, AnnotationsFile), RenderAnnotations(rec, w.now())); err != nil {
		return "", fmt.Errorf("writing annotations scaffold: %w", err)
	}

	return dir, nil
}

// backupArtifacts copies the write-once artifacts into a timestamped
// backup directory before a confirmed overwrite.
func (w *Writer) backupArtifacts(dir string) error {
	stamp := w.now().UTC().Format("20060102T150405Z")
	backupDir := filepath.Join(dir, BackupsDir, stamp)

	copied := false
	for _, name := range []string{FullTextFile, MetadataFile} {
		src := filepath.Join(dir, name)
		if _, err := os.Stat(src); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("checking %s: %w", name, err)
		}
		if !copied {
			if err := os.MkdirAll(backupDir, 0755); err != nil {
				return fmt.Errorf("creating backup directory: %w", err)
			}
			copied = true
		}
		if err := copyFile(src, filepath.Join(backupDir, name)); err != nil {
			return fmt.Errorf("backing up %s: %w", name, err)
		}
	}

	return nil
}

// ReadRecord loads the metadata record for a paper id.
func (w *Writer) ReadRecord(paperID string) (*Record, error) {
	return ReadRecord(filepath.Join(w.Dir(paperID), MetadataFile))
}

// ReadRecord loads a metadata.json file.
func ReadRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &rec, nil
}

// SaveRecord writes a metadata record, refreshing last_modified.
func SaveRecord(path string, rec *Record) error {
	rec.LastModified = time.Now()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	return nil
}

// writeIfAbsent writes content only when the path does not exist yet.
func writeIfAbsent(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// copyFile copies src to dst, preserving content but not metadata.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
