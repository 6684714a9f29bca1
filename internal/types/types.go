// Package types defines every cross-package data structure used by the kree CLI.
package types

const (
	KindDirectory  = "directory"
	KindFile       = "file"
	KindExecutable = "executable"
	KindOther      = "other"

	SortModeName = "name"
	SortModeKind = "kind"
)

// MinTraversalDepth and MaxTraversalDepth bound TraversalPolicy.MaxDepth.
// Depth zero is reserved for the root itself and is not a valid limit.
const (
	MinTraversalDepth = 1
	MaxTraversalDepth = 60
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// TraversalPolicy is the resolved set of options governing one scan.
// It is constructed once per invocation, upstream of the traversal core,
// and passed explicitly into both Build and Search.
type TraversalPolicy struct {
	MaxDepth       int
	ShowHidden     bool
	IgnorePatterns []string
	SortMode       string
}

// TreeNode is one entry of the directory tree produced by scan.Build.
// Children are ordered per the policy's sort mode and empty for
// non-directories, for directories at the depth boundary, and for
// directories that could not be read.
type TreeNode struct {
	Name     string
	Path     string
	Kind     string
	Depth    int
	Children []*TreeNode
}

// ScoredMatch is one fuzzy search result. Path is relative to the search
// root; Distance is the case-folded Levenshtein distance between the query
// and Name.
type ScoredMatch struct {
	Path     string
	Name     string
	Kind     string
	Distance int
}
