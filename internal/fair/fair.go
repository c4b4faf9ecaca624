// Package fair computes FAIR completeness scores for papers. Scores are
// derived values, recomputed on demand and never stored on the Paper
// Record; scoring reads the repository but writes nothing.
package fair

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/marais-lab/qkb/internal/paper"
	"github.com/marais-lab/qkb/internal/registry"
)

// DimensionMax is the maximum per FAIR dimension; four dimensions give an
// overall range of 0-100.
const DimensionMax = 25

// adequateTextLen is the full-text length below which the Accessible
// dimension docks points.
const adequateTextLen = 1000

var doiFormat = regexp.MustCompile(`^10\.\d{4,}/`)

// Dimension holds one FAIR sub-score with its failed criteria.
type Dimension struct {
	Score   int            `json:"score"`
	Max     int            `json:"max_score"`
	Issues  []string       `json:"issues"`
	Details map[string]any `json:"details"`
}

// Report is the result of scoring one paper.
type Report struct {
	PaperID       string    `json:"paper_id"`
	Overall       int       `json:"score"`
	Findable      Dimension `json:"findable"`
	Accessible    Dimension `json:"accessible"`
	Interoperable Dimension `json:"interoperable"`
	Reusable      Dimension `json:"reusable"`
	Valid         bool      `json:"valid"`
	Error         string    `json:"error,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Issues flattens every failed criterion across dimensions.
func (r *Report) Issues() []string {
	var all []string
	for _, d := range []Dimension{r.Findable, r.Accessible, r.Interoperable, r.Reusable} {
		all = append(all, d.Issues...)
	}
	return all
}

// Scorer checks papers against the FAIR criteria.
type Scorer struct {
	papersDir string
	reg       *registry.Registry
}

// NewScorer creates a scorer over a papers directory and its registry.
func NewScorer(papersDir string, reg *registry.Registry) *Scorer {
	return &Scorer{papersDir: papersDir, reg: reg}
}

// Score computes the FAIR report for one paper. Deterministic for a given
// repository state; a missing paper directory yields an invalid report
// rather than an error.
func (s *Scorer) Score(paperID string) (*Report, error) {
	dir := filepath.Join(s.papersDir, paperID)
	report := &Report{PaperID: paperID, Timestamp: time.Now()}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		report.Error = fmt.Sprintf("paper directory not found: %s", dir)
		return report, nil
	}

	rec, recErr := paper.ReadRecord(filepath.Join(dir, paper.MetadataFile))

	report.Findable = s.checkFindable(dir, rec, recErr, paperID)
	report.Accessible = s.checkAccessible(dir)
	report.Interoperable = s.checkInteroperable(dir, rec, recErr)
	report.Reusable = s.checkReusable(dir, rec, recErr)

	report.Overall = report.Findable.Score + report.Accessible.Score +
		report.Interoperable.Score + report.Reusable.Score
	report.Valid = true

	return report, nil
}

// checkFindable scores DOI presence (10), registry membership (5) and
// metadata completeness: title 4, authors 3, year 3.
func (s *Scorer) checkFindable(dir string, rec *paper.Record, recErr error, paperID string) Dimension {
	d := newDimension()

	if recErr != nil {
		d.Issues = append(d.Issues, fmt.Sprintf("failed to read metadata: %v", recErr))
		return d
	}

	switch {
	case doiFormat.MatchString(rec.DOI):
		d.Score += 10
		d.Details["has_valid_doi"] = true
	case rec.PaperID != "":
		d.Score += 5
		d.Details["has_unique_id"] = true
		d.Issues = append(d.Issues, "No valid DOI found")
	default:
		d.Details["has_valid_doi"] = false
		d.Issues = append(d.Issues, "No DOI or unique identifier")
	}

	entry, err := s.reg.Find(paperID)
	if err != nil {
		d.Issues = append(d.Issues, fmt.Sprintf("failed to check master index: %v", err))
		d.Details["indexed"] = false
	} else if entry != nil {
		d.Score += 5
		d.Details["indexed"] = true
	} else {
		d.Issues = append(d.Issues, "Not indexed in master-index.json")
		d.Details["indexed"] = false
	}

	if !rec.HasPlaceholderTitle() {
		d.Score += 4
		d.Details["has_title"] = true
	} else {
		d.Issues = append(d.Issues, "Title missing or not extracted properly")
		d.Details["has_title"] = false
	}

	if len(rec.Authors) > 0 && rec.Authors[0] != "" {
		d.Score += 3
		d.Details["has_authors"] = true
	} else {
		d.Issues = append(d.Issues, "Authors missing or not extracted")
		d.Details["has_authors"] = false
	}

	if rec.Publication.Year != 0 {
		d.Score += 3
		d.Details["has_year"] = true
	} else {
		d.Issues = append(d.Issues, "Publication year missing")
		d.Details["has_year"] = false
	}

	return d
}

// checkAccessible scores file presence (10, pro-rated), full-text length
// (10 adequate / 5 short) and metadata JSON validity (5).
func (s *Scorer) checkAccessible(dir string) Dimension {
	d := newDimension()

	required := []string{paper.MetadataFile, paper.ContextFile, paper.AnnotationsFile, paper.FullTextFile}
	var missing []string
	existing := 0
	for _, name := range required {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			existing++
		} else {
			missing = append(missing, name)
		}
	}

	if existing == len(required) {
		d.Score += 10
		d.Details["all_files_exist"] = true
	} else {
		d.Score += existing * 10 / len(required)
		d.Issues = append(d.Issues, fmt.Sprintf("Missing files: %v", missing))
		d.Details["all_files_exist"] = false
		d.Details["missing_files"] = missing
	}

	if text, err := os.ReadFile(filepath.Join(dir, paper.FullTextFile)); err == nil {
		if len(text) > adequateTextLen {
			d.Score += 10
			d.Details["full_text_adequate"] = true
		} else {
			d.Score += 5
			d.Issues = append(d.Issues, fmt.Sprintf("full_text.txt is short (%d chars)", len(text)))
			d.Details["full_text_adequate"] = false
		}
	} else {
		d.Issues = append(d.Issues, "full_text.txt not found")
		d.Details["full_text_adequate"] = false
	}

	if data, err := os.ReadFile(filepath.Join(dir, paper.MetadataFile)); err == nil {
		var v any
		if json.Unmarshal(data, &v) == nil {
			d.Score += 5
			d.Details["metadata_valid_json"] = true
		} else {
			d.Issues = append(d.Issues, "metadata.json invalid JSON")
			d.Details["metadata_valid_json"] = false
		}
	} else {
		d.Details["metadata_valid_json"] = false
	}

	return d
}

// checkInteroperable scores ontology links (10/5), standard notation
// (5 DOI format + 5 field parameters) and context template conformance (5/3).
func (s *Scorer) checkInteroperable(dir string, rec *paper.Record, recErr error) Dimension {
	d := newDimension()

	if recErr != nil {
		d.Issues = append(d.Issues, "Cannot read metadata")
		return d
	}

	terms := rec.Interoperability.OntologyTerms
	d.Details["ontology_term_count"] = len(terms)
	switch {
	case len(terms) >= 3:
		d.Score += 10
		d.Details["ontology_linked"] = true
	case len(terms) >= 1:
		d.Score += 5
		d.Details["ontology_linked"] = true
		d.Issues = append(d.Issues, fmt.Sprintf("Only %d ontology terms linked (3+ recommended)", len(terms)))
	default:
		d.Issues = append(d.Issues, "No ontology terms linked")
		d.Details["ontology_linked"] = false
	}

	if doiFormat.MatchString(rec.DOI) {
		d.Score += 5
		d.Details["uses_doi_format"] = true
	} else {
		d.Details["uses_doi_format"] = false
	}

	params := rec.ResearchContext.MagneticFieldParameters
	if params.FieldStrength != "" || params.Frequency != "" {
		d.Score += 5
		d.Details["uses_standard_units"] = true
	} else {
		d.Details["uses_standard_units"] = false
	}

	if content, err := os.ReadFile(filepath.Join(dir, paper.ContextFile)); err == nil {
		text := string(content)
		hasHeader := containsAny(text, "# Paper Context:", "# Context:")
		hasDOI := containsAny(text, "DOI:", "doi:")

		switch {
		case hasHeader && len(text) > 200:
			d.Score += 5
			d.Details["context_follows_template"] = true
		case hasHeader || hasDOI:
			d.Score += 3
			d.Details["context_follows_template"] = "partial"
			d.Issues = append(d.Issues, "context.md partially follows template")
		default:
			d.Issues = append(d.Issues, "context.md does not follow template")
			d.Details["context_follows_template"] = false
		}
	} else {
		d.Issues = append(d.Issues, "context.md not found")
		d.Details["context_follows_template"] = false
	}

	return d
}

// checkReusable scores annotations (5/2), research-context fill rate
// (10, pro-rated over six field groups) and license/access info (5+5).
func (s *Scorer) checkReusable(dir string, rec *paper.Record, recErr error) Dimension {
	d := newDimension()

	if recErr != nil {
		d.Issues = append(d.Issues, "Cannot read metadata")
		return d
	}

	if content, err := os.ReadFile(filepath.Join(dir, paper.AnnotationsFile)); err == nil {
		if len(content) > 100 {
			d.Score += 5
			d.Details["has_annotations"] = true
		} else {
			d.Score += 2
			d.Details["has_annotations"] = "minimal"
		}
	} else {
		d.Issues = append(d.Issues, "annotations.md not found")
		d.Details["has_annotations"] = false
	}

	rc := rec.ResearchContext
	populated := 0
	for _, filled := range []bool{
		len(rc.SpeciesStudied) > 0,
		len(rc.Proteins) > 0,
		rc.MagneticFieldParameters.FieldStrength != "",
		len(rc.ExperimentalTechniques) > 0,
		len(rc.ComputationalMethods) > 0,
		len(rc.KeyFindings) > 0,
	} {
		if filled {
			populated++
		}
	}
	d.Score += populated * 10 / 6
	d.Details["research_context_fields_populated"] = populated
	if populated < 3 {
		d.Issues = append(d.Issues, fmt.Sprintf("Research context under-populated (%d/6 fields)", populated))
	}

	if rec.Access.License != "" && rec.Access.License != "Unknown" {
		d.Score += 5
		d.Details["has_license"] = true
	} else {
		d.Issues = append(d.Issues, "License information missing")
		d.Details["has_license"] = false
	}

	if rec.Access.AccessLevel != "" && rec.Access.OriginalFile != "" {
		d.Score += 5
		d.Details["has_access_info"] = true
	} else {
		d.Details["has_access_info"] = "partial"
	}

	return d
}

func newDimension() Dimension {
	return Dimension{Max: DimensionMax, Issues: []string{}, Details: map[string]any{}}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
