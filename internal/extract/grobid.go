package extract

import (
	"context"
	"fmt"

	"github.com/marais-lab/qkb/internal/grobid"
)

// grobidConfidence is the base confidence for structured extraction.
const grobidConfidence = 0.9

// Grobid adapts the networked GROBID service to the Adapter contract.
type Grobid struct {
	client *grobid.Client
}

// NewGrobid wraps a GROBID client as an extraction adapter.
func NewGrobid(client *grobid.Client) *Grobid {
	return &Grobid{client: client}
}

// Name implements Adapter.
func (g *Grobid) Name() string { return "grobid" }

// Available implements Adapter by probing the service's liveness endpoint.
func (g *Grobid) Available(ctx context.Context) bool {
	return g.client != nil && g.client.Alive(ctx)
}

// Extract implements Adapter.
func (g *Grobid) Extract(ctx context.Context, path string) (*Result, error) {
	if g.client == nil {
		return nil, fmt.Errorf("grobid not configured")
	}

	doc, err := g.client.ProcessFulltext(ctx, path)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Text:     doc.Body,
		Title:    doc.Title,
		Authors:  doc.Authors,
		Abstract: doc.Abstract,
		DOI:      doc.DOI,
		Method:   g.Name(),
	}
	fillMetadata(result)
	result.Confidence = scoreConfidence(grobidConfidence, result)

	return result, nil
}
