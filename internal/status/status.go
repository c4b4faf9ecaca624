// Package status tracks which PDFs in the drop folder have been
// processed, and how each attempt went.
package status

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marais-lab/qkb/internal/paper"
)

// Filename is the status file within the index directory.
const Filename = "processing_status.json"

// Version identifies the status file format.
const Version = "1.0.0"

// Paper processing states.
const (
	StatePending    = "pending"
	StateProcessing = "processing"
	StateCompleted  = "completed"
	StateFailed     = "failed"
)

// Entry tracks one PDF through the pipeline.
type Entry struct {
	PDFFilename   string   `json:"pdf_filename"`
	PaperID       string   `json:"paper_id"`
	Status        string   `json:"status"`
	DateProcessed string   `json:"date_processed,omitempty"`
	FAIRScore     *int     `json:"fair_compliance_score,omitempty"`
	Issues        []string `json:"issues"`
	RunID         string   `json:"run_id,omitempty"` // Batch run that last touched this entry
	Error         string   `json:"error,omitempty"`
}

// File is the on-disk status structure.
type File struct {
	Version     string  `json:"version"`
	LastUpdated string  `json:"last_updated"`
	TotalPDFs   int     `json:"total_pdfs"`
	Processed   int     `json:"processed"`
	Pending     int     `json:"pending"`
	Papers      []Entry `json:"papers"`
}

// Tracker maintains processing_status.json.
type Tracker struct {
	indexDir string
}

// NewTracker creates a tracker over the index directory.
func NewTracker(indexDir string) *Tracker {
	return &Tracker{indexDir: indexDir}
}

// Path returns the status file path.
func (t *Tracker) Path() string {
	return filepath.Join(t.indexDir, Filename)
}

// NewRunID returns a fresh identifier for a batch run.
func NewRunID() string {
	return uuid.NewString()
}

// Init scans the literature drop folder and the papers directory, and
// writes a fresh status file. Papers that already have a directory are
// marked completed.
func (t *Tracker) Init(literatureDir, papersDir string) (*File, error) {
	pdfs, err := listPDFs(literatureDir)
	if err != nil {
		return nil, err
	}

	processed := map[string]bool{}
	if entries, err := os.ReadDir(papersDir); err == nil {
		for _, e := range entries {
			if e.IsDir() && !strings.HasPrefix(e.Name(), "TEMPLATE") {
				processed[e.Name()] = true
			}
		}
	}

	f := &File{Version: Version, TotalPDFs: len(pdfs)}
	for _, name := range pdfs {
		paperID := paper.DeriveID(name, "")
		entry := Entry{
			PDFFilename: name,
			PaperID:     paperID,
			Status:      StatePending,
			Issues:      []string{},
		}
		if processed[paperID] {
			entry.Status = StateCompleted
			if rec, err := paper.ReadRecord(filepath.Join(papersDir, paperID, paper.MetadataFile)); err == nil {
				entry.DateProcessed = rec.DateAdded.Format(time.RFC3339)
			}
		}
		f.Papers = append(f.Papers, entry)
	}
	f.recount()

	if err := t.save(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Load reads the current status file. A missing file is not an error and
// returns nil.
func (t *Tracker) Load() (*File, error) {
	data, err := os.ReadFile(t.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading status: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", t.Path(), err)
	}
	return &f, nil
}

// PendingEntries returns entries still waiting for processing.
func (f *File) PendingEntries() []Entry {
	var out []Entry
	for _, e := range f.Papers {
		if e.Status == StatePending {
			out = append(out, e)
		}
	}
	return out
}

// RetryableEntries returns entries that are pending or previously failed.
func (f *File) RetryableEntries() []Entry {
	var out []Entry
	for _, e := range f.Papers {
		if e.Status == StatePending || e.Status == StateFailed {
			out = append(out, e)
		}
	}
	return out
}

// MarkProcessing flags a paper as in flight for the given run.
func (t *Tracker) MarkProcessing(paperID, runID string) error {
	return t.update(paperID, func(e *Entry) {
		e.Status = StateProcessing
		e.RunID = runID
		e.Error = ""
	})
}

// MarkCompleted records a successful run, with an optional FAIR score and
// its leading issues.
func (t *Tracker) MarkCompleted(paperID, runID string, fairScore *int, issues []string) error {
	return t.update(paperID, func(e *Entry) {
		e.Status = StateCompleted
		e.RunID = runID
		e.DateProcessed = time.Now().Format(time.RFC3339)
		e.FAIRScore = fairScore
		if issues == nil {
			issues = []string{}
		}
		e.Issues = issues
		e.Error = ""
	})
}

// MarkFailed records a failed run with its error message.
func (t *Tracker) MarkFailed(paperID, runID, errMsg string) error {
	return t.update(paperID, func(e *Entry) {
		e.Status = StateFailed
		e.RunID = runID
		e.Error = errMsg
	})
}

// update applies fn to the entry for paperID and saves. Unknown papers
// are appended rather than dropped, so single-file runs outside the drop
// folder still get tracked.
func (t *Tracker) update(paperID string, fn func(*Entry)) error {
	f, err := t.Load()
	if err != nil {
		return err
	}
	if f == nil {
		f = &File{Version: Version}
	}

	found := false
	for i := range f.Papers {
		if f.Papers[i].PaperID == paperID {
			fn(&f.Papers[i])
			found = true
			break
		}
	}
	if !found {
		entry := Entry{PaperID: paperID, Status: StatePending, Issues: []string{}}
		fn(&entry)
		f.Papers = append(f.Papers, entry)
	}

	f.recount()
	return t.save(f)
}

// recount refreshes the aggregate counters from the entries.
func (f *File) recount() {
	f.TotalPDFs = len(f.Papers)
	f.Processed = 0
	f.Pending = 0
	for _, e := range f.Papers {
		switch e.Status {
		case StateCompleted:
			f.Processed++
		case StatePending, StateFailed:
			f.Pending++
		}
	}
}

// save writes the status file.
func (t *Tracker) save(f *File) error {
	f.LastUpdated = time.Now().Format(time.RFC3339)

	if err := os.MkdirAll(t.indexDir, 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}

	if err := os.WriteFile(t.Path(), data, 0644); err != nil {
		return fmt.Errorf("writing status: %w", err)
	}
	return nil
}

// listPDFs returns the sorted PDF filenames in a directory.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading literature directory: %w", err)
	}

	var pdfs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			pdfs = append(pdfs, e.Name())
		}
	}
	sort.Strings(pdfs)
	return pdfs, nil
}
