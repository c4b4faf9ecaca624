// Package paper defines the Paper Record model and the repository writer
// that persists per-paper directories under knowledge-base/papers/.
package paper

import (
	"time"
)

// PlaceholderTitlePrefix marks titles that extraction could not resolve
// beyond a page-header artifact (e.g. "--- Page 1 ---"). Such titles are
// preserved verbatim and surfaced to manual curation, never auto-corrected.
const PlaceholderTitlePrefix = "--- Page"

// PlaceholderTitle is seeded when no confident title was found. The FAIR
// scorer flags it; curation replaces it.
const PlaceholderTitle = "--- Page 1 ---"

// Record is the full per-paper metadata stored in metadata.json.
// Fields are seeded at ingestion and mutable by manual curation afterwards;
// only the extracted full text is write-once.
type Record struct {
	PaperID  string   `json:"paper_id"`
	DOI      string   `json:"doi"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Abstract string   `json:"abstract"`
	Keywords []string `json:"keywords"`

	Publication Publication `json:"publication"`

	DateAdded    time.Time `json:"date_added"`
	LastModified time.Time `json:"last_modified"`

	Access           Access           `json:"access"`
	Interoperability Interoperability `json:"interoperability"`
	ResearchContext  ResearchContext  `json:"research_context"`

	Extraction ExtractionInfo `json:"extraction"`
}

// Publication holds venue details, filled by manual curation.
type Publication struct {
	Journal   string `json:"journal"`
	Year      int    `json:"year,omitempty"`
	Volume    string `json:"volume"`
	Issue     string `json:"issue"`
	Pages     string `json:"pages"`
	Publisher string `json:"publisher"`
}

// Access records licensing and provenance of the source file.
type Access struct {
	License            string   `json:"license"`
	AccessLevel        string   `json:"access_level"`
	OriginalFile       string   `json:"original_file"`
	AlternativeFormats []string `json:"alternative_formats"`
}

// Interoperability links the paper to the rest of the knowledge base.
type Interoperability struct {
	RelatedPapers []string `json:"related_papers"`
	Cites         []string `json:"cites"`
	CitedBy       []string `json:"cited_by"`
	OntologyTerms []string `json:"ontology_terms"`
	DataFormats   []string `json:"data_formats"`
	MethodsUsed   []string `json:"methods_used"`
}

// MagneticFieldParameters describes the field conditions studied.
type MagneticFieldParameters struct {
	FieldStrength string `json:"field_strength"`
	Frequency     string `json:"frequency"`
	FieldType     string `json:"field_type"`
}

// ResearchContext captures the quantum-biology specifics of a study.
// Populated by manual curation; its fill rate feeds the Reusable score.
type ResearchContext struct {
	SpeciesStudied          []string                `json:"species_studied"`
	Proteins                []string                `json:"proteins"`
	MagneticFieldParameters MagneticFieldParameters `json:"magnetic_field_parameters"`
	ExperimentalTechniques  []string                `json:"experimental_techniques"`
	ComputationalMethods    []string                `json:"computational_methods"`
	KeyFindings             []string                `json:"key_findings"`
	Applications            []string                `json:"applications"`
}

// ExtractionInfo records how the full text was obtained.
type ExtractionInfo struct {
	Method     string  `json:"method"`     // grobid, pdftext, pdfrows
	PageCount  int     `json:"page_count"`
	Confidence float64 `json:"confidence"`
	SizeBytes  int64   `json:"size_bytes"`
}

// HasPlaceholderTitle reports whether the title is a page-header artifact
// or empty, i.e. still waiting for manual curation.
func (r *Record) HasPlaceholderTitle() bool {
	return IsPlaceholderTitle(r.Title)
}

// IsPlaceholderTitle reports whether a title string is empty or a
// page-header artifact left by text extraction.
func IsPlaceholderTitle(title string) bool {
	if title == "" {
		return true
	}
	if len(title) >= len(PlaceholderTitlePrefix) &&
		title[:len(PlaceholderTitlePrefix)] == PlaceholderTitlePrefix {
		return true
	}
	return false
}
