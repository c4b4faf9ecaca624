// Package main provides the qkb CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "qkb",
	Short: "FAIR literature knowledge base for quantum-biology research",
	Long: `qkb organizes a research group's literature into a FAIR-compliant
knowledge base: it extracts text and metadata from PDFs (GROBID when
available, in-process extraction otherwise), lays papers out one
directory each with editable context and annotation scaffolds, keeps a
master index, and scores each paper's FAIR completeness.

All commands output JSON by default for easy scripting; pass --human
for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// getRepoRoot returns the starting directory for repository discovery.
func getRepoRoot() (string, int) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}

	// Check QKB_ROOT environment variable first
	if root := os.Getenv("QKB_ROOT"); root != "" {
		cwd = root
	}

	return cwd, 0
}
