package main

import (
	"github.com/spf13/cobra"

	"github.com/marais-lab/qkb/internal/paper"
	"github.com/marais-lab/qkb/internal/registry"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <paper-id>",
	Short: "Show full metadata for one paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	root, cfg := openRepo()
	paperID := args[0]

	reg := registry.New(cfg.IndexPath(root))
	entry, err := reg.Find(paperID)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	if entry == nil {
		exitWithError(ExitError, "paper not found: %s", paperID)
	}

	writer := paper.NewWriter(cfg.PapersPath(root))
	rec, err := writer.ReadRecord(paperID)
	if err != nil {
		exitWithError(ExitError, "reading metadata for %s: %v", paperID, err)
	}

	if humanOutput {
		outputHuman("%s\n", rec.PaperID)
		outputHuman("  title:    %s\n", truncateString(rec.Title, DetailTitleMaxLen))
		if rec.DOI != "" {
			outputHuman("  doi:      %s\n", rec.DOI)
		}
		if len(rec.Authors) > 0 {
			outputHuman("  authors:  %s\n", formatAuthorsShort(rec.Authors, 5))
		}
		if rec.Publication.Journal != "" {
			outputHuman("  journal:  %s\n", rec.Publication.Journal)
		}
		if rec.Publication.Year != 0 {
			outputHuman("  year:     %d\n", rec.Publication.Year)
		}
		outputHuman("  method:   %s (%d pages, confidence %.2f)\n",
			rec.Extraction.Method, rec.Extraction.PageCount, rec.Extraction.Confidence)
		if rec.Extraction.SizeBytes > 0 {
			outputHuman("  size:     %s\n", formatBytes(rec.Extraction.SizeBytes))
		}
		if rec.HasPlaceholderTitle() {
			outputHuman("  note:     title is a placeholder; edit metadata.json\n")
		}
	} else {
		outputJSON(rec)
	}

	return nil
}
