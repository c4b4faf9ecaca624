package main

import (
	"github.com/spf13/cobra"

	"github.com/marais-lab/qkb/internal/status"
)

var statusFailed bool

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusFailed, "failed", false, "Show only failed papers")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show processing status of the literature drop folder",
	Long: `Show processing status of the literature drop folder.

Scans the drop folder on first use and reports each PDF as pending,
processing, completed or failed. Failed entries keep the error from
their last attempt.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	root, cfg := openRepo()

	tracker := status.NewTracker(cfg.IndexPath(root))
	st, err := tracker.Load()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if st == nil {
		if st, err = tracker.Init(cfg.LiteraturePath(root), cfg.PapersPath(root)); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}

	if statusFailed {
		var failed []status.Entry
		for _, e := range st.Papers {
			if e.Status == status.StateFailed {
				failed = append(failed, e)
			}
		}
		st.Papers = failed
	}

	if humanOutput {
		outputHuman("total %d, processed %d, pending %d\n\n", st.TotalPDFs, st.Processed, st.Pending)
		for _, e := range st.Papers {
			outputHuman("%-10s %s", e.Status, e.PDFFilename)
			if e.FAIRScore != nil {
				outputHuman("  (FAIR %d)", *e.FAIRScore)
			}
			if e.Error != "" {
				outputHuman("  %s", e.Error)
			}
			outputHuman("\n")
		}
	} else {
		outputJSON(st)
	}

	return nil
}
