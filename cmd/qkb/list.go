package main

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marais-lab/qkb/internal/registry"
)

var (
	listYear  int
	listLimit int
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listYear, "year", 0, "Show only papers from this year")
	listCmd.Flags().IntVar(&listLimit, "limit", DefaultListLimit, "Maximum papers to show")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List papers in the master index",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	root, cfg := openRepo()

	reg := registry.New(cfg.IndexPath(root))
	idx, err := reg.Load()
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	papers := idx.Papers
	if listYear != 0 {
		var filtered []registry.Entry
		for _, e := range papers {
			if e.Year == listYear {
				filtered = append(filtered, e)
			}
		}
		papers = filtered
	}

	sort.Slice(papers, func(i, j int) bool {
		return strings.ToLower(papers[i].PaperID) < strings.ToLower(papers[j].PaperID)
	})
	if listLimit > 0 && len(papers) > listLimit {
		papers = papers[:listLimit]
	}

	if humanOutput {
		for _, e := range papers {
			outputHuman("%-30s %s", e.PaperID, truncateString(e.Title, ListTitleMaxLen))
			if e.Year != 0 {
				outputHuman(" (%d)", e.Year)
			}
			outputHuman("\n")
		}
		outputHuman("\n%d papers\n", len(papers))
	} else {
		outputJSON(map[string]interface{}{
			"count":  len(papers),
			"papers": papers,
		})
	}

	return nil
}
