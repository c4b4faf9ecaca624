package extract

import (
	"context"
	"fmt"
	"os"
)

// Coordinator walks extraction adapters in a fixed priority order and
// falls back on failure or low-yield output. It performs no repository
// I/O; its only side effect is the returned result.
type Coordinator struct {
	networked  Adapter   // optional structured-extraction service
	libraries  []Adapter // in-process adapters, priority order
	minTextLen int
	largeFile  int64
}

// Options tune coordinator policy. Zero values select the defaults
// carried in config.
type Options struct {
	MinTextLen     int   // minimum characters for a successful extraction
	LargeFileBytes int64 // size above which the networked adapter is always tried first
}

// NewCoordinator builds a coordinator. networked may be nil when no
// structured-extraction service is configured; libraries are tried in the
// order given.
func NewCoordinator(networked Adapter, libraries []Adapter, opts Options) *Coordinator {
	if opts.MinTextLen <= 0 {
		opts.MinTextLen = 200
	}
	if opts.LargeFileBytes <= 0 {
		opts.LargeFileBytes = 5 * 1024 * 1024
	}
	return &Coordinator{
		networked:  networked,
		libraries:  libraries,
		minTextLen: opts.MinTextLen,
		largeFile:  opts.LargeFileBytes,
	}
}

// Extract tries the networked adapter first (when configured, reachable,
// and either preferred or the file exceeds the large-file threshold),
// then each library adapter in order, until one produces text of at least
// the minimum length. Returns *FailureError when every adapter is
// exhausted; the error enumerates each attempt.
func (c *Coordinator) Extract(ctx context.Context, path string, preferNetworked bool) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("checking file: %w", err)
	}

	var attempts []Attempt

	if c.networked != nil && (preferNetworked || info.Size() > c.largeFile) {
		if !c.networked.Available(ctx) {
			attempts = append(attempts, Attempt{Adapter: c.networked.Name(), Reason: "service unreachable"})
		} else if result, attempt := c.try(ctx, c.networked, path); result != nil {
			return result, nil
		} else {
			attempts = append(attempts, attempt)
		}
	}

	for _, adapter := range c.libraries {
		if result, attempt := c.try(ctx, adapter, path); result != nil {
			return result, nil
		} else {
			attempts = append(attempts, attempt)
		}
	}

	return nil, &FailureError{Path: path, Attempts: attempts}
}

// try runs one adapter and applies the minimum-yield check. Returns a
// non-nil result on success, otherwise the attempt record for the walk.
func (c *Coordinator) try(ctx context.Context, adapter Adapter, path string) (*Result, Attempt) {
	result, err := adapter.Extract(ctx, path)
	if err != nil {
		return nil, Attempt{Adapter: adapter.Name(), Reason: err.Error()}
	}

	if len(result.Text) < c.minTextLen {
		return nil, Attempt{
			Adapter: adapter.Name(),
			Reason:  fmt.Sprintf("text too short (%d chars, need %d)", len(result.Text), c.minTextLen),
		}
	}

	return result, Attempt{}
}
