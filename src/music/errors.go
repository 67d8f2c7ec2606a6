package music

import "errors"

// Error taxonomy of the library store. Implementations wrap these so
// callers can branch with errors.Is without knowing the storage engine.
var (
	// ErrNotFound: a mutation targeted an identifier with no row.
	// Read paths do not raise it; they return empty results.
	ErrNotFound = errors.New("not found")

	// ErrConstraint: an internal invariant was breached (duplicate key,
	// bridge to a nonexistent entity). The enclosing transaction has
	// been rolled back in full.
	ErrConstraint = errors.New("constraint violation")

	// ErrTransient: the storage engine was busy or locked. Safe to
	// retry; the store itself never retries.
	ErrTransient = errors.New("transient storage failure")
)
