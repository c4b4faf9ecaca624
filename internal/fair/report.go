package fair

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ReportFilename is the compliance report written next to the registry.
const ReportFilename = "fair_compliance_report.json"

// Score bands for the distribution summary.
const (
	ExcellentThreshold = 90
	GoodThreshold      = 70
)

// Summary aggregates scoring across a set of papers.
type Summary struct {
	TotalPapers  int     `json:"total_papers"`
	AverageScore float64 `json:"average_score"`
	Distribution struct {
		Excellent int `json:"excellent"` // >= 90
		Good      int `json:"good"`      // 70-89
		NeedsWork int `json:"needs_work"`
	} `json:"score_distribution"`
}

// ComplianceReport is the persisted report format.
type ComplianceReport struct {
	Timestamp time.Time `json:"timestamp"`
	Summary   Summary   `json:"summary"`
	Results   []*Report `json:"results"`
}

// ScoreAll scores every paper directory under the papers root, skipping
// template directories. Results are sorted by paper id for stable output.
func (s *Scorer) ScoreAll() ([]*Report, error) {
	entries, err := os.ReadDir(s.papersDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading papers directory: %w", err)
	}

	var reports []*Report
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), "TEMPLATE") {
			continue
		}
		report, err := s.Score(e.Name())
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].PaperID < reports[j].PaperID })
	return reports, nil
}

// Summarize computes the aggregate summary over valid reports.
func Summarize(reports []*Report) Summary {
	var sum Summary
	total := 0
	for _, r := range reports {
		if !r.Valid {
			continue
		}
		sum.TotalPapers++
		total += r.Overall
		switch {
		case r.Overall >= ExcellentThreshold:
			sum.Distribution.Excellent++
		case r.Overall >= GoodThreshold:
			sum.Distribution.Good++
		default:
			sum.Distribution.NeedsWork++
		}
	}
	if sum.TotalPapers > 0 {
		sum.AverageScore = float64(total) / float64(sum.TotalPapers)
	}
	return sum
}

// WriteReport persists a compliance report into the index directory.
func WriteReport(indexDir string, reports []*Report) (string, error) {
	if err := os.MkdirAll(indexDir, 0755); err != nil {
		return "", fmt.Errorf("creating index directory: %w", err)
	}

	report := ComplianceReport{
		Timestamp: time.Now(),
		Summary:   Summarize(reports),
		Results:   reports,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	path := filepath.Join(indexDir, ReportFilename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	return path, nil
}
