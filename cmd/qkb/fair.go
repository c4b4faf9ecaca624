package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/marais-lab/qkb/internal/fair"
	"github.com/marais-lab/qkb/internal/registry"
)

var fairWriteReport bool

func init() {
	rootCmd.AddCommand(fairCmd)
	fairCmd.Flags().BoolVar(&fairWriteReport, "report", false, "Write fair_compliance_report.json to the index directory")
}

var fairCmd = &cobra.Command{
	Use:   "fair [paper-id]",
	Short: "Score FAIR compliance",
	Long: `Score FAIR compliance of one paper, or of every paper when no id is
given.

Each of the four dimensions (findable, accessible, interoperable,
reusable) contributes up to 25 points. Scoring only reads paper
directories and the master index; running it twice without edits gives
identical scores.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFair,
}

func runFair(cmd *cobra.Command, args []string) error {
	root, cfg := openRepo()

	reg := registry.New(cfg.IndexPath(root))
	scorer := fair.NewScorer(cfg.PapersPath(root), reg)

	// Single paper
	if len(args) == 1 {
		report, err := scorer.Score(args[0])
		if err != nil {
			exitWithError(exitCodeFor(err), "%v", err)
		}
		if humanOutput {
			printReportHuman(report)
		} else {
			outputJSON(report)
		}
		if !report.Valid {
			exitWithError(ExitValidationError, "%s: %s", report.PaperID, report.Error)
		}
		return nil
	}

	// All papers
	reports, err := scorer.ScoreAll()
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if fairWriteReport {
		path, err := fair.WriteReport(cfg.IndexPath(root), reports)
		if err != nil {
			exitWithError(ExitError, "writing report: %v", err)
		}
		if humanOutput {
			outputHuman("wrote %s\n", path)
		}
	}

	summary := fair.Summarize(reports)
	if humanOutput {
		for _, r := range reports {
			if !r.Valid {
				outputHuman("%-40s invalid: %s\n", r.PaperID, r.Error)
				continue
			}
			outputHuman("%-40s %3d  (F%d A%d I%d R%d)\n", r.PaperID, r.Overall,
				r.Findable.Score, r.Accessible.Score, r.Interoperable.Score, r.Reusable.Score)
		}
		outputHuman("\n%d papers, avg %.1f, excellent %d, good %d, needs work %d\n",
			summary.TotalPapers, summary.AverageScore,
			summary.Distribution.Excellent, summary.Distribution.Good, summary.Distribution.NeedsWork)
	} else {
		outputJSON(fair.ComplianceReport{Timestamp: time.Now(), Summary: summary, Results: reports})
	}

	return nil
}

func printReportHuman(r *fair.Report) {
	if !r.Valid {
		outputHuman("%s: invalid: %s\n", r.PaperID, r.Error)
		return
	}
	outputHuman("%s: %d/100\n", r.PaperID, r.Overall)
	dims := []struct {
		name string
		d    fair.Dimension
	}{
		{"findable", r.Findable},
		{"accessible", r.Accessible},
		{"interoperable", r.Interoperable},
		{"reusable", r.Reusable},
	}
	for _, dim := range dims {
		outputHuman("  %-13s %2d/%d\n", dim.name, dim.d.Score, dim.d.Max)
		for _, issue := range dim.d.Issues {
			outputHuman("    - %s\n", issue)
		}
	}
}
