package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  qkb config                               # Show all config
  qkb config grobid-url                    # Get specific value
  qkb config grobid-url http://gro:8070    # Set value
  qkb config prefer-networked false        # Extract in-process first

Keys:
  literature-dir    Drop folder of source PDFs (relative to repo root)
  grobid-url        Networked extraction service endpoint
  prefer-networked  Try GROBID first when reachable (true/false)
  min-text-len      Minimum extracted text length to count as success`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the response for config get commands.
type ConfigResponse struct {
	LiteratureDir   string `json:"literature_dir"`
	KnowledgeBase   string `json:"knowledge_base"`
	GrobidURL       string `json:"grobid_url,omitempty"`
	PreferNetworked bool   `json:"prefer_networked"`
	MinTextLen      int    `json:"min_text_len"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	repoRoot, cfg := openRepo()

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			outputHuman("literature-dir:   %s\n", cfg.LiteratureDir)
			outputHuman("knowledge-base:   %s\n", cfg.KnowledgeBase)
			outputHuman("grobid-url:       %s\n", cfg.GrobidURL)
			outputHuman("prefer-networked: %t\n", cfg.PreferNetworked)
			outputHuman("min-text-len:     %d\n", cfg.MinTextLen)
		} else {
			outputJSON(ConfigResponse{
				LiteratureDir:   cfg.LiteratureDir,
				KnowledgeBase:   cfg.KnowledgeBase,
				GrobidURL:       cfg.GrobidURL,
				PreferNetworked: cfg.PreferNetworked,
				MinTextLen:      cfg.MinTextLen,
			})
		}
		return nil
	}

	key := args[0]

	// One arg: get specific value
	if len(args) == 1 {
		var value string
		switch key {
		case "literature-dir":
			value = cfg.LiteratureDir
		case "knowledge-base":
			value = cfg.KnowledgeBase
		case "grobid-url":
			value = cfg.GrobidURL
		case "prefer-networked":
			value = strconv.FormatBool(cfg.PreferNetworked)
		case "min-text-len":
			value = strconv.Itoa(cfg.MinTextLen)
		default:
			exitWithError(ExitError, "unknown configuration key: %s", key)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	// Two args: set value
	value := args[1]

	switch key {
	case "literature-dir":
		cfg.LiteratureDir = value
	case "knowledge-base":
		cfg.KnowledgeBase = value
	case "grobid-url":
		cfg.GrobidURL = value
	case "prefer-networked":
		b, err := strconv.ParseBool(value)
		if err != nil {
			exitWithError(ExitError, "prefer-networked must be true or false, got %q", value)
		}
		cfg.PreferNetworked = b
	case "min-text-len":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			exitWithError(ExitError, "min-text-len must be a non-negative integer, got %q", value)
		}
		cfg.MinTextLen = n
	default:
		exitWithError(ExitError, "unknown configuration key: %s", key)
	}

	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		outputHuman("Updated %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{
			Status: "updated",
			Key:    key,
			Value:  value,
		})
	}

	return nil
}
