// Package pipeline runs the full ingestion flow for one or many PDFs:
// extraction, repository commit, registry update, FAIR scoring and status
// tracking. Each paper is processed start-to-finish before the next.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/marais-lab/qkb/internal/extract"
	"github.com/marais-lab/qkb/internal/fair"
	"github.com/marais-lab/qkb/internal/paper"
	"github.com/marais-lab/qkb/internal/registry"
	"github.com/marais-lab/qkb/internal/status"
)

// Processor wires the pipeline stages against one repository.
type Processor struct {
	Root            string
	LiteratureDir   string
	PapersDir       string
	IndexDir        string
	Coordinator     *extract.Coordinator
	PreferNetworked bool
	Progress        func(format string, args ...any) // optional human-mode progress
}

// Options for a single-file run.
type Options struct {
	DOI       string // explicit DOI, overrides anything extracted
	PaperID   string // explicit id, overrides derivation
	Overwrite bool   // confirmed reprocess of an existing paper
}

// Outcome describes one successfully processed paper.
type Outcome struct {
	PaperID   string `json:"paper_id"`
	Dir       string `json:"paper_dir"`
	Title     string `json:"title"`
	DOI       string `json:"doi,omitempty"`
	Method    string `json:"method"`
	FAIRScore *int   `json:"fair_score,omitempty"`
}

// Failure describes one failed paper in a batch.
type Failure struct {
	PDFFilename string `json:"pdf_filename"`
	PaperID     string `json:"paper_id"`
	Error       string `json:"error"`
}

// BatchSummary enumerates every outcome of a batch run. A batch never
// stops at a failing file; every failure is listed here.
type BatchSummary struct {
	RunID      string    `json:"run_id"`
	Total      int       `json:"total"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Outcomes   []Outcome `json:"outcomes"`
	Failures   []Failure `json:"failures"`
	AvgFAIR    float64   `json:"avg_fair_score,omitempty"`
	MinFAIR    int       `json:"min_fair_score,omitempty"`
	MaxFAIR    int       `json:"max_fair_score,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// BatchMode selects which status entries a batch run picks up.
type BatchMode int

const (
	// ModeDefault processes pending and previously failed papers.
	ModeDefault BatchMode = iota
	// ModeSkipProcessed processes only pending papers.
	ModeSkipProcessed
	// ModeForceAll reprocesses everything, backing up prior artifacts.
	ModeForceAll
)

func (p *Processor) progress(format string, args ...any) {
	if p.Progress != nil {
		p.Progress(format, args...)
	}
}

// ProcessFile runs the pipeline for one PDF. On extraction failure no
// artifacts are written at all; writer and registry errors propagate
// untouched so the CLI can map them to exit codes.
func (p *Processor) ProcessFile(ctx context.Context, pdfPath string, opts Options, withFAIR bool) (*Outcome, error) {
	info, err := os.Stat(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", pdfPath, err)
	}

	p.progress("Extracting %s (%.1f MB)\n", filepath.Base(pdfPath), float64(info.Size())/(1024*1024))

	result, err := p.Coordinator.Extract(ctx, pdfPath, p.PreferNetworked)
	if err != nil {
		return nil, err
	}
	p.progress("  method=%s pages=%d chars=%d\n", result.Method, result.PageCount, len(result.Text))

	doi := opts.DOI
	if doi == "" {
		doi = result.DOI
	}

	paperID := opts.PaperID
	if paperID == "" {
		paperID = paper.DeriveID(pdfPath, opts.DOI)
	}

	rec := buildRecord(paperID, doi, pdfPath, info.Size(), result)

	writer := paper.NewWriter(p.PapersDir)
	dir, err := writer.Commit(rec, result.Text, opts.Overwrite)
	if err != nil {
		return nil, err
	}
	p.progress("  committed %s\n", dir)

	reg := registry.New(p.IndexDir)
	relDir, relErr := filepath.Rel(p.Root, dir)
	if relErr != nil {
		relDir = dir
	}
	if err := reg.Register(registry.Entry{
		PaperID:   rec.PaperID,
		DOI:       rec.DOI,
		Title:     rec.Title,
		Authors:   rec.Authors,
		Year:      rec.Publication.Year,
		Keywords:  rec.Keywords,
		DateAdded: rec.DateAdded,
		FilePath:  relDir,
	}); err != nil {
		return nil, err
	}

	outcome := &Outcome{
		PaperID: rec.PaperID,
		Dir:     dir,
		Title:   rec.Title,
		DOI:     rec.DOI,
		Method:  result.Method,
	}

	if withFAIR {
		scorer := fair.NewScorer(p.PapersDir, reg)
		report, err := scorer.Score(rec.PaperID)
		if err == nil && report.Valid {
			score := report.Overall
			outcome.FAIRScore = &score
			p.progress("  FAIR score %d/100\n", score)
		}
	}

	return outcome, nil
}

// ProcessAll runs the pipeline over the drop folder per the batch mode.
// Individual failures are recorded and the batch continues; the summary
// enumerates every file touched.
func (p *Processor) ProcessAll(ctx context.Context, mode BatchMode, withFAIR bool) (*BatchSummary, error) {
	tracker := status.NewTracker(p.IndexDir)

	st, err := tracker.Load()
	if err != nil {
		return nil, err
	}
	if st == nil {
		if st, err = tracker.Init(p.LiteratureDir, p.PapersDir); err != nil {
			return nil, err
		}
	}

	var todo []status.Entry
	switch mode {
	case ModeForceAll:
		todo = st.Papers
	case ModeSkipProcessed:
		todo = st.PendingEntries()
	default:
		todo = st.RetryableEntries()
	}

	summary := &BatchSummary{
		RunID:     status.NewRunID(),
		Total:     len(todo),
		StartedAt: time.Now(),
	}

	for i, entry := range todo {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p.progress("[%d/%d] %s\n", i+1, len(todo), entry.PDFFilename)
		pdfPath := filepath.Join(p.LiteratureDir, entry.PDFFilename)

		if err := tracker.MarkProcessing(entry.PaperID, summary.RunID); err != nil {
			return nil, err
		}

		outcome, err := p.ProcessFile(ctx, pdfPath, Options{
			PaperID:   entry.PaperID,
			Overwrite: mode == ModeForceAll,
		}, withFAIR)
		if err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{
				PDFFilename: entry.PDFFilename,
				PaperID:     entry.PaperID,
				Error:       err.Error(),
			})
			if terr := tracker.MarkFailed(entry.PaperID, summary.RunID, err.Error()); terr != nil {
				return nil, terr
			}
			continue
		}

		summary.Succeeded++
		summary.Outcomes = append(summary.Outcomes, *outcome)

		var issues []string
		if outcome.FAIRScore != nil {
			reg := registry.New(p.IndexDir)
			if report, err := fair.NewScorer(p.PapersDir, reg).Score(outcome.PaperID); err == nil {
				issues = report.Issues()
				if len(issues) > 5 {
					issues = issues[:5]
				}
			}
		}
		if err := tracker.MarkCompleted(entry.PaperID, summary.RunID, outcome.FAIRScore, issues); err != nil {
			return nil, err
		}
	}

	summary.FinishedAt = time.Now()
	summarizeFAIR(summary)
	return summary, nil
}

// summarizeFAIR fills the aggregate score fields from scored outcomes.
func summarizeFAIR(s *BatchSummary) {
	total, count := 0, 0
	for _, o := range s.Outcomes {
		if o.FAIRScore == nil {
			continue
		}
		score := *o.FAIRScore
		if count == 0 || score < s.MinFAIR {
			s.MinFAIR = score
		}
		if count == 0 || score > s.MaxFAIR {
			s.MaxFAIR = score
		}
		total += score
		count++
	}
	if count > 0 {
		s.AvgFAIR = float64(total) / float64(count)
	}
}

// buildRecord seeds a Paper Record from an extraction result. Placeholder
// titles are kept verbatim for manual curation, never guessed at.
func buildRecord(paperID, doi, pdfPath string, size int64, result *extract.Result) *paper.Record {
	now := time.Now()

	title := result.Title
	if title == "" {
		title = paper.PlaceholderTitle
	}

	authors := result.Authors
	if authors == nil {
		authors = []string{}
	}

	return &paper.Record{
		PaperID:      paperID,
		DOI:          doi,
		Title:        title,
		Authors:      authors,
		Abstract:     result.Abstract,
		Keywords:     []string{},
		DateAdded:    now,
		LastModified: now,
		Access: paper.Access{
			License:            "Unknown",
			AccessLevel:        "restricted",
			OriginalFile:       pdfPath,
			AlternativeFormats: []string{},
		},
		Interoperability: paper.Interoperability{
			RelatedPapers: []string{},
			Cites:         []string{},
			CitedBy:       []string{},
			OntologyTerms: []string{},
			DataFormats:   []string{},
			MethodsUsed:   []string{},
		},
		ResearchContext: paper.ResearchContext{
			SpeciesStudied:         []string{},
			Proteins:               []string{},
			ExperimentalTechniques: []string{},
			ComputationalMethods:   []string{},
			KeyFindings:            []string{},
			Applications:           []string{},
		},
		Extraction: paper.ExtractionInfo{
			Method:     result.Method,
			PageCount:  result.PageCount,
			Confidence: result.Confidence,
			SizeBytes:  size,
		},
	}
}
