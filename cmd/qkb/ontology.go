package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marais-lab/qkb/internal/ontology"
)

var (
	termDefinition string
	termSources    []string
	termSynonyms   []string
	termRelated    []string
)

func init() {
	rootCmd.AddCommand(ontologyCmd)
	ontologyCmd.AddCommand(ontologyAddCmd)
	ontologyCmd.AddCommand(ontologyListCmd)
	ontologyCmd.AddCommand(ontologyGetCmd)
	ontologyCmd.AddCommand(ontologyValidateCmd)

	ontologyAddCmd.Flags().StringVar(&termDefinition, "definition", "", "Definition of the term (required)")
	ontologyAddCmd.Flags().StringSliceVar(&termSources, "source", nil, "DOI or paper id supporting the term (repeatable, at least one required)")
	ontologyAddCmd.Flags().StringSliceVar(&termSynonyms, "synonym", nil, "Synonym for the term (repeatable)")
	ontologyAddCmd.Flags().StringSliceVar(&termRelated, "related", nil, "Name of a related term (repeatable)")
	ontologyAddCmd.MarkFlagRequired("definition")
}

var ontologyCmd = &cobra.Command{
	Use:   "ontology",
	Short: "Manage the shared vocabulary",
	Long: `Manage the shared vocabulary of the knowledge base.

Terms live in knowledge-base/ontology/terms.json. Every term must cite
at least one source (a DOI or paper id); the file version is bumped on
every change.`,
}

func termsPath() string {
	root, cfg := openRepo()
	return filepath.Join(cfg.OntologyPath(root), ontology.TermsFile)
}

var ontologyAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a term to the vocabulary",
	Args:  cobra.ExactArgs(1),
	RunE:  runOntologyAdd,
}

func runOntologyAdd(cmd *cobra.Command, args []string) error {
	path := termsPath()

	f, err := ontology.Load(path)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	term := ontology.Term{
		Name:       args[0],
		Definition: termDefinition,
		Synonyms:   termSynonyms,
		Related:    termRelated,
		Sources:    termSources,
	}
	if err := f.AddTerm(term); err != nil {
		exitWithError(ExitValidationError, "%v", err)
	}

	if err := ontology.Save(path, f); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Added term %q (version %d)\n", term.Name, f.Version)
	} else {
		outputJSON(map[string]interface{}{
			"status":  "added",
			"term":    term.Name,
			"version": f.Version,
		})
	}

	return nil
}

var ontologyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List vocabulary terms",
	Args:  cobra.NoArgs,
	RunE:  runOntologyList,
}

func runOntologyList(cmd *cobra.Command, args []string) error {
	f, err := ontology.Load(termsPath())
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		for _, t := range f.Terms {
			outputHuman("%-30s %s\n", t.Name, truncateString(t.Definition, ProcessTitleMaxLen))
		}
		outputHuman("\n%d terms (version %d)\n", len(f.Terms), f.Version)
	} else {
		outputJSON(f)
	}

	return nil
}

var ontologyGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show one vocabulary term",
	Args:  cobra.ExactArgs(1),
	RunE:  runOntologyGet,
}

func runOntologyGet(cmd *cobra.Command, args []string) error {
	f, err := ontology.Load(termsPath())
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	term := f.FindTerm(args[0])
	if term == nil {
		exitWithError(ExitError, "term not found: %s", args[0])
	}

	if humanOutput {
		outputHuman("%s\n", term.Name)
		outputHuman("  definition: %s\n", term.Definition)
		for _, s := range term.Synonyms {
			outputHuman("  synonym:    %s\n", s)
		}
		for _, r := range term.Related {
			outputHuman("  related:    %s\n", r)
		}
		for _, s := range term.Sources {
			outputHuman("  source:     %s\n", s)
		}
	} else {
		outputJSON(term)
	}

	return nil
}

var ontologyValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every term in the vocabulary",
	Args:  cobra.NoArgs,
	RunE:  runOntologyValidate,
}

func runOntologyValidate(cmd *cobra.Command, args []string) error {
	f, err := ontology.Load(termsPath())
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	problems := f.ValidateAll()
	if len(problems) == 0 {
		if humanOutput {
			outputHuman("%d terms, no problems\n", len(f.Terms))
		} else {
			outputJSON(map[string]interface{}{
				"status": "valid",
				"terms":  len(f.Terms),
			})
		}
		return nil
	}

	msgs := make([]string, len(problems))
	for i, p := range problems {
		msgs[i] = p.Error()
	}

	if humanOutput {
		for _, m := range msgs {
			outputHuman("problem: %s\n", m)
		}
	} else {
		outputJSON(map[string]interface{}{
			"status":   "invalid",
			"problems": msgs,
		})
	}
	// The problems above are the output; exitWithError would double-print.
	os.Exit(ExitValidationError)
	return nil
}
