package registry

import "fmt"

// CorruptionError reports an unparseable registry file. The update that
// detected it must halt rather than guess-repair; the file is left as-is
// for manual inspection.
type CorruptionError struct {
	Path string
	Err  error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("registry corrupt at %s: %v", e.Path, e.Err)
}

func (e *CorruptionError) Unwrap() error { return e.Err }

// ValidationError reports a structurally malformed record on read.
type ValidationError struct {
	Path  string
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record in %s: field %s: %s", e.Path, e.Field, e.Msg)
}

// LockedError reports that another process holds the registry lock.
// Concurrent writers are unsupported; acquisition fails fast instead of
// waiting.
type LockedError struct {
	LockPath string
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("registry is locked by another process (%s exists; remove it if the process died)", e.LockPath)
}
