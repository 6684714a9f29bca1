package scan

import "errors"

// Root-level structural errors surfaced by Build and Search. Failures on
// descendants never surface through these; they degrade the affected node
// or skip the affected subtree instead.
var (
	// ErrRootNotFound reports that the root path does not exist.
	ErrRootNotFound = errors.New("root path does not exist")
	// ErrRootPermission reports that the root path itself is not readable.
	ErrRootPermission = errors.New("root path is not readable")
	// ErrInvalidDepth reports a maximum depth outside the allowed range.
	ErrInvalidDepth = errors.New("maximum depth must be between 1 and 60")
	// ErrEmptyQuery reports an empty fuzzy search query.
	ErrEmptyQuery = errors.New("search query must not be empty")
)
