package paper

import "fmt"

// DuplicateIdentifierError is returned when committing a paper whose
// directory already exists and no overwrite confirmation was given.
type DuplicateIdentifierError struct {
	PaperID string
	Dir     string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("paper %q already exists at %s (pass overwrite to reprocess; prior artifacts will be backed up)", e.PaperID, e.Dir)
}
