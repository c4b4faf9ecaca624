package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/marais-lab/qkb/internal/pipeline"
)

var (
	processDOI       string
	processID        string
	processOverwrite bool
	processNoFAIR    bool
)

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringVar(&processDOI, "doi", "", "DOI of the paper (overrides extracted DOI)")
	processCmd.Flags().StringVar(&processID, "id", "", "Explicit paper identifier (overrides derivation)")
	processCmd.Flags().BoolVar(&processOverwrite, "overwrite", false, "Reprocess an existing paper (prior artifacts are backed up)")
	processCmd.Flags().BoolVar(&processNoFAIR, "no-fair", false, "Skip FAIR scoring after processing")
}

var processCmd = &cobra.Command{
	Use:   "process <pdf-path>",
	Short: "Process a single PDF into the knowledge base",
	Long: `Process a single PDF into the knowledge base.

Extracts full text and metadata (GROBID when reachable, in-process
extraction otherwise), creates the paper directory with its metadata,
context and annotation scaffolds, registers the paper in the master
index, and scores FAIR compliance.

An existing paper directory is never touched unless --overwrite is
given; with --overwrite the previous full text and metadata are backed
up first. Titles that could not be extracted are stored as a page
marker placeholder for manual curation.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	root, cfg := openRepo()

	proc := buildProcessor(root, cfg)
	proc.Progress = progressPrinter()

	outcome, err := proc.ProcessFile(context.Background(), args[0], pipeline.Options{
		DOI:       processDOI,
		PaperID:   processID,
		Overwrite: processOverwrite,
	}, !processNoFAIR)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		outputHuman("Processed %s\n", outcome.PaperID)
		outputHuman("  title:  %s\n", truncateString(outcome.Title, ProcessTitleMaxLen))
		if outcome.DOI != "" {
			outputHuman("  doi:    %s\n", outcome.DOI)
		}
		outputHuman("  method: %s\n", outcome.Method)
		outputHuman("  dir:    %s\n", outcome.Dir)
		if outcome.FAIRScore != nil {
			outputHuman("  FAIR:   %d/100\n", *outcome.FAIRScore)
		}
	} else {
		outputJSON(outcome)
	}

	return nil
}
