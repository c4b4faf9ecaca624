package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/dslipak/pdf"
)

// pdfRowsConfidence is the base confidence for row-ordered extraction.
// Slightly below plain-text: row grouping can interleave columns.
const pdfRowsConfidence = 0.5

// PDFRows is the secondary in-process adapter. It reconstructs text in
// reading order by grouping glyphs into rows, which copes better with
// layout-heavy PDFs where the plain-text walk produces word salad.
type PDFRows struct{}

// NewPDFRows creates the secondary library adapter.
func NewPDFRows() *PDFRows {
	return &PDFRows{}
}

// Name implements Adapter.
func (p *PDFRows) Name() string { return "pdfrows" }

// Available implements Adapter.
func (p *PDFRows) Available(ctx context.Context) bool { return true }

// Extract implements Adapter.
func (p *PDFRows) Extract(ctx context.Context, path string) (*Result, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}

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

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}

		fmt.Fprintf(&builder, "\n\n--- Page %d ---\n\n", i)
		for _, row := range rows {
			for j, word := range row.Content {
				if j > 0 {
					builder.WriteString(" ")
				}
				builder.WriteString(word.S)
			}
			builder.WriteString("\n")
		}
	}

	result := &Result{
		Text:      builder.String(),
		PageCount: numPages,
		Method:    p.Name(),
	}
	fillMetadata(result)
	result.Confidence = scoreConfidence(pdfRowsConfidence, result)

	return result, nil
}
