package main

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/marais-lab/qkb/internal/extract"
	"github.com/marais-lab/qkb/internal/paper"
	"github.com/marais-lab/qkb/internal/registry"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this one is definitely too long", 10, "this on..."},
	}

	for _, tt := range tests {
		if got := truncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestFormatAuthorsShort(t *testing.T) {
	authors := []string{"Ritz, T.", "Adem, S.", "Schulten, K.", "Hore, P."}

	if got := formatAuthorsShort(authors, 2); got != "Ritz, T., Adem, S., et al." {
		t.Errorf("formatAuthorsShort() = %q", got)
	}
	if got := formatAuthorsShort(authors[:2], 3); got != "Ritz, T., Adem, S." {
		t.Errorf("formatAuthorsShort() = %q", got)
	}
	if got := formatAuthorsShort(nil, 3); got != "" {
		t.Errorf("formatAuthorsShort(nil) = %q", got)
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"extraction failure", &extract.FailureError{Path: "x.pdf"}, ExitExtractionError},
		{"wrapped extraction failure", fmt.Errorf("processing: %w", &extract.FailureError{}), ExitExtractionError},
		{"duplicate", &paper.DuplicateIdentifierError{PaperID: "a"}, ExitDuplicateError},
		{"corruption", &registry.CorruptionError{Path: "idx"}, ExitIndexCorruption},
		{"validation", &registry.ValidationError{Path: "idx"}, ExitValidationError},
		{"generic", errors.New("boom"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30.0s"},
		{90 * time.Second, "1m 30s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
