package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/marais-lab/qkb/internal/config"
	"github.com/marais-lab/qkb/internal/registry"
	"github.com/marais-lab/qkb/internal/search"
)

var searchLimit int

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", search.DefaultLimit, "Maximum results to show")
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Full-text search across papers",
	Long: `Full-text search across titles, keywords and extracted texts.

The search cache under .qkb/cache/ is rebuilt automatically when the
master index has changed since the last rebuild.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	root, cfg := openRepo()

	reg := registry.New(cfg.IndexPath(root))
	ix := search.NewIndex(config.SearchDBPath(root), cfg.PapersPath(root), reg)

	results, err := ix.Query(strings.Join(args, " "), searchLimit)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		for i, r := range results {
			outputHuman("%d. %s", i+1, r.PaperID)
			if r.Year != 0 {
				outputHuman(" (%d)", r.Year)
			}
			outputHuman("\n   %s\n", truncateString(r.Title, DetailTitleMaxLen))
			if r.Snippet != "" {
				outputHuman("   %s\n", r.Snippet)
			}
			outputHuman("\n")
		}
		outputHuman("%d results\n", len(results))
	} else {
		outputJSON(map[string]interface{}{
			"count":   len(results),
			"results": results,
		})
	}

	return nil
}
