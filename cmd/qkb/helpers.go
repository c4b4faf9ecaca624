package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/marais-lab/qkb/internal/config"
	"github.com/marais-lab/qkb/internal/extract"
	"github.com/marais-lab/qkb/internal/grobid"
	"github.com/marais-lab/qkb/internal/pipeline"
)

// openRepo finds the enclosing repository and loads its config.
// Exits with ExitConfigError if not inside a qkb repository.
func openRepo() (string, *config.Config) {
	root, exitCode := getRepoRoot()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	repoRoot, err := config.FindRepository(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	return repoRoot, cfg
}

// buildCoordinator assembles the extraction adapter chain: GROBID first
// when reachable, then the in-process extractors in fallback order.
func buildCoordinator(cfg *config.Config) *extract.Coordinator {
	// Load .env if present (for GROBID_API_KEY)
	_ = godotenv.Load()

	baseURL := cfg.GrobidURL
	var opts []grobid.ClientOption
	if global, err := config.LoadGlobalConfig(); err == nil {
		if baseURL == "" {
			baseURL = global.GrobidURL
		}
		if global.GrobidAPIKey != "" {
			opts = append(opts, grobid.WithAPIKey(global.GrobidAPIKey))
		}
	}
	if cfg.GrobidTimeout > 0 {
		opts = append(opts, grobid.WithTimeout(time.Duration(cfg.GrobidTimeout)*time.Second))
	}

	networked := extract.NewGrobid(grobid.NewClient(baseURL, opts...))
	libraries := []extract.Adapter{
		extract.NewPDFText(),
		extract.NewPDFRows(),
	}

	return extract.NewCoordinator(networked, libraries, extract.Options{
		MinTextLen:     cfg.MinTextLen,
		LargeFileBytes: cfg.LargeFileBytes,
	})
}

// buildProcessor wires a pipeline.Processor for the given repository.
func buildProcessor(root string, cfg *config.Config) *pipeline.Processor {
	return &pipeline.Processor{
		Root:            root,
		LiteratureDir:   cfg.LiteraturePath(root),
		PapersDir:       cfg.PapersPath(root),
		IndexDir:        cfg.IndexPath(root),
		Coordinator:     buildCoordinator(cfg),
		PreferNetworked: cfg.PreferNetworked,
	}
}

// progressPrinter returns a progress callback for batch commands, or nil
// when output is JSON (progress would corrupt the stream).
func progressPrinter() func(format string, args ...any) {
	if !humanOutput {
		return nil
	}
	return func(format string, args ...any) {
		fmt.Printf(format, args...)
	}
}
