package main

// Exit codes as defined in contracts/cli.md
const (
	ExitSuccess         = 0 // Success
	ExitError           = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError     = 2 // Configuration error (missing config, not a repository)
	ExitExtractionError = 3 // All extraction adapters failed for a PDF
	ExitDuplicateError  = 4 // Paper directory already exists and overwrite not requested
	ExitIndexCorruption = 5 // Master index is unreadable or structurally invalid
	ExitValidationError = 6 // Record or ontology term failed validation
)
