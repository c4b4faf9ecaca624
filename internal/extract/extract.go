// Package extract turns PDF files into plain text plus best-effort
// citation metadata. Three interchangeable adapters share one contract;
// the Coordinator walks them in priority order with fallback.
package extract

import (
	"context"
	"fmt"
	"strings"
)

// Result is the common output of every extraction adapter.
type Result struct {
	Text       string   `json:"text"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Abstract   string   `json:"abstract"`
	DOI        string   `json:"doi,omitempty"`
	PageCount  int      `json:"page_count"`
	Method     string   `json:"method"`
	Confidence float64  `json:"confidence"`
}

// Adapter is an interchangeable extraction backend.
type Adapter interface {
	// Name identifies the adapter in logs and metadata.
	Name() string

	// Available reports whether the adapter can be attempted at all
	// (e.g. the networked service answers its liveness probe).
	Available(ctx context.Context) bool

	// Extract returns plain text and best-effort metadata for a file.
	Extract(ctx context.Context, path string) (*Result, error)
}

// FailureError reports that every adapter was exhausted for a file.
// No partial artifacts are written when extraction fails.
type FailureError struct {
	Path     string
	Attempts []Attempt
}

// Attempt records one adapter try inside a fallback walk.
type Attempt struct {
	Adapter string `json:"adapter"`
	Reason  string `json:"reason"`
}

func (e *FailureError) Error() string {
	reasons := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		reasons[i] = fmt.Sprintf("%s: %s", a.Adapter, a.Reason)
	}
	return fmt.Sprintf("extraction failed for %s (%s)", e.Path, strings.Join(reasons, "; "))
}

// LastReason returns the reason of the final attempt, or "".
func (e *FailureError) LastReason() string {
	if len(e.Attempts) == 0 {
		return ""
	}
	return e.Attempts[len(e.Attempts)-1].Reason
}

// scoreConfidence derives a confidence value from the adapter base and
// which metadata fields were actually recovered.
func scoreConfidence(base float64, r *Result) float64 {
	c := base
	if r.Title != "" {
		c += 0.05
	}
	if r.DOI != "" {
		c += 0.05
	}
	if c > 1.0 {
		c = 1.0
	}
	return c
}
