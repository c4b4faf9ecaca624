package main

import (
	"github.com/spf13/cobra"

	"github.com/marais-lab/qkb/internal/config"
	"github.com/marais-lab/qkb/internal/registry"
	"github.com/marais-lab/qkb/internal/search"
)

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexRebuildCmd)
	indexCmd.AddCommand(indexCheckCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect and rebuild the search cache",
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the search cache from the master index",
	Long: `Rebuild the search cache from the master index and extracted texts.

The cache is disposable; deleting .qkb/cache/search.db and rerunning
this command always yields an equivalent database.`,
	Args: cobra.NoArgs,
	RunE: runIndexRebuild,
}

func runIndexRebuild(cmd *cobra.Command, args []string) error {
	root, cfg := openRepo()

	reg := registry.New(cfg.IndexPath(root))
	ix := search.NewIndex(config.SearchDBPath(root), cfg.PapersPath(root), reg)

	count, err := ix.Rebuild()
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		outputHuman("Indexed %d papers\n", count)
	} else {
		outputJSON(map[string]interface{}{
			"status":  "rebuilt",
			"indexed": count,
		})
	}

	return nil
}

var indexCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the master index",
	Long: `Validate the master index.

Loads and structurally validates master-index.json, reporting the
paper count on success. Corruption and validation problems map to
their own exit codes for scripting.`,
	Args: cobra.NoArgs,
	RunE: runIndexCheck,
}

func runIndexCheck(cmd *cobra.Command, args []string) error {
	root, cfg := openRepo()

	reg := registry.New(cfg.IndexPath(root))
	idx, err := reg.Load()
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		outputHuman("master index ok: %d papers (version %s)\n", len(idx.Papers), idx.Version)
	} else {
		outputJSON(map[string]interface{}{
			"status":  "ok",
			"papers":  len(idx.Papers),
			"version": idx.Version,
		})
	}

	return nil
}
