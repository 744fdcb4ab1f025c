package arbor

import (
	"errors"
	"fmt"
)

// Errors crossing the engine boundary are values, never panics. Queries that
// find nothing (no paths, no dead code) return empty results, not errors.
var (
	// ErrNotIndexed is returned by any query against an empty index.
	ErrNotIndexed = errors.New("no project indexed, call Index first")

	// ErrNotBuilt is returned by the snapshot accessors when a graph has not
	// been built since the last invalidation. Queries themselves never return
	// it: they trigger the build.
	ErrNotBuilt = errors.New("call graph not built, call Build first")
)

// SymbolNotFoundError reports that a query could not resolve a symbol name
// to any graph node. Role distinguishes the failing endpoint for path
// queries ("source" or "target").
type SymbolNotFoundError struct {
	Name string
	Role string
}

func (e *SymbolNotFoundError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("symbol not found: %s (%s)", e.Name, e.Role)
	}
	return fmt.Sprintf("symbol not found: %s", e.Name)
}

// IsSymbolNotFound reports whether err is a SymbolNotFoundError.
func IsSymbolNotFound(err error) bool {
	var snf *SymbolNotFoundError
	return errors.As(err, &snf)
}
