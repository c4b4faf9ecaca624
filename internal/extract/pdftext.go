package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfTextConfidence is the base confidence for plain-text extraction.
const pdfTextConfidence = 0.6

// PDFText is the primary in-process adapter. It walks every page with
// ledongthuc/pdf's plain-text extraction and recovers metadata with
// front-matter heuristics.
type PDFText struct{}

// NewPDFText creates the primary library adapter.
func NewPDFText() *PDFText {
	return &PDFText{}
}

// Name implements Adapter.
func (p *PDFText) Name() string { return "pdftext" }

// Available implements Adapter. In-process extraction is always available.
func (p *PDFText) Available(ctx context.Context) bool { return true }

// Extract implements Adapter.
func (p *PDFText) Extract(ctx context.Context, path string) (*Result, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	numPages := r.NumPage()

	var builder strings.Builder
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Individual malformed pages are skipped, not fatal.
			continue
		}

		fmt.Fprintf(&builder, "\n\n--- Page %d ---\n\n", i)
		builder.WriteString(text)
	}

	result := &Result{
		Text:      builder.String(),
		PageCount: numPages,
		Method:    p.Name(),
	}
	fillMetadata(result)
	result.Confidence = scoreConfidence(pdfTextConfidence, result)

	return result, nil
}
