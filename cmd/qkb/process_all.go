package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/marais-lab/qkb/internal/pipeline"
)

var (
	processAllSkip   bool
	processAllForce  bool
	processAllNoFAIR bool
)

func init() {
	rootCmd.AddCommand(processAllCmd)
	processAllCmd.Flags().BoolVar(&processAllSkip, "skip-processed", false, "Process only pending papers, skip previous failures")
	processAllCmd.Flags().BoolVar(&processAllForce, "force", false, "Reprocess every paper, including completed ones")
	processAllCmd.Flags().BoolVar(&processAllNoFAIR, "no-fair", false, "Skip FAIR scoring during the batch")
}

var processAllCmd = &cobra.Command{
	Use:   "process-all",
	Short: "Process every PDF in the literature drop folder",
	Long: `Process every PDF in the literature drop folder.

By default picks up pending papers and retries previous failures;
completed papers are left alone. A failing file never stops the batch:
the summary lists every success and every failure with its reason.

Flags:
  --skip-processed   pending papers only (do not retry failures)
  --force            reprocess everything, backing up prior artifacts`,
	Args: cobra.NoArgs,
	RunE: runProcessAll,
}

func runProcessAll(cmd *cobra.Command, args []string) error {
	if processAllSkip && processAllForce {
		exitWithError(ExitError, "--skip-processed and --force are mutually exclusive")
	}

	root, cfg := openRepo()

	mode := pipeline.ModeDefault
	switch {
	case processAllForce:
		mode = pipeline.ModeForceAll
	case processAllSkip:
		mode = pipeline.ModeSkipProcessed
	}

	proc := buildProcessor(root, cfg)
	proc.Progress = progressPrinter()

	summary, err := proc.ProcessAll(context.Background(), mode, !processAllNoFAIR)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		outputHuman("\nProcessed %d of %d papers in %s\n",
			summary.Succeeded, summary.Total, formatDuration(summary.FinishedAt.Sub(summary.StartedAt)))
		if summary.Succeeded > 0 && summary.AvgFAIR > 0 {
			outputHuman("FAIR scores: avg %.1f, min %d, max %d\n",
				summary.AvgFAIR, summary.MinFAIR, summary.MaxFAIR)
		}
		for _, f := range summary.Failures {
			outputHuman("failed: %s: %s\n", f.PDFFilename, f.Error)
		}
	} else {
		outputJSON(summary)
	}

	// A partially failed batch still exits non-zero so scripts notice.
	if summary.Failed > 0 {
		os.Exit(ExitError)
	}

	return nil
}
