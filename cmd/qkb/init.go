package main

import (
	"os"

	"github.com/marais-lab/qkb/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new qkb repository",
	Long: `Initialize a new qkb repository in the current directory.

Creates:
  .qkb/
  ├── config.json     # Default config
  └── cache/          # Rebuildable search cache (gitignored)
  literature/         # Drop folder for source PDFs
  knowledge-base/
  ├── papers/         # One directory per paper
  ├── index/          # Master index and processing status
  └── ontology/       # Shared vocabulary files`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, exitCode := getRepoRoot()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	// Check if already initialized
	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a qkb repository")
	}

	cfg := config.Default()

	dirs := []string{
		config.QkbPath(root),
		config.CachePath(root),
		cfg.LiteraturePath(root),
		cfg.PapersPath(root),
		cfg.IndexPath(root),
		cfg.OntologyPath(root),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			exitWithError(ExitError, "creating %s: %v", dir, err)
		}
	}

	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "creating config.json: %v", err)
	}

	if humanOutput {
		outputHuman("Initialized qkb repository in %s\n", root)
	} else {
		outputJSON(StatusResponse{
			Status: "initialized",
			Path:   root,
		})
	}

	return nil
}
