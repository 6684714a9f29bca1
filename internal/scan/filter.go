// Package scan implements the traversal core of kree: the visibility
// filter, the depth-bounded tree builder, and the fuzzy match engine.
// The package only reads the filesystem and owns no state across calls.
package scan

import (
	"strings"

	"github.com/temirov/kree/internal/types"
)

// hiddenNamePrefix marks dot-prefixed entries as hidden.
const hiddenNamePrefix = "."

// Filter decides whether a directory entry is visible under the resolved
// policy. The same Filter value is shared by Build and Search so the two
// modes can never diverge in what they consider visible.
type Filter struct {
	showHidden   bool
	ignoredNames map[string]struct{}
}

// NewFilter constructs the visibility predicate for one traversal. When the
// policy shows hidden entries the ignore patterns are bypassed entirely.
func NewFilter(policy types.TraversalPolicy) Filter {
	constructedFilter := Filter{showHidden: policy.ShowHidden}
	if policy.ShowHidden {
		return constructedFilter
	}
	constructedFilter.ignoredNames = make(map[string]struct{}, len(policy.IgnorePatterns))
	for _, ignorePattern := range policy.IgnorePatterns {
		constructedFilter.ignoredNames[ignorePattern] = struct{}{}
	}
	return constructedFilter
}

// Includes reports whether an entry with the given base name survives the
// filter. Pattern matching is exact-name and case-sensitive; there is no
// globbing and no path-prefix matching.
func (filter Filter) Includes(entryName string) bool {
	if filter.showHidden {
		return true
	}
	if strings.HasPrefix(entryName, hiddenNamePrefix) {
		return false
	}
	_, isIgnoredName := filter.ignoredNames[entryName]
	return !isIgnoredName
}
