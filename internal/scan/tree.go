package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/kree/internal/types"
)

const (
	// errorDepthFormat reports an out-of-range maximum depth.
	errorDepthFormat = "%w: got %d"
	// errorRootFormat wraps a root-level structural error with its path.
	errorRootFormat = "%w: %s"
	// errorStatRootFormat reports a non-taxonomy failure to stat the root.
	errorStatRootFormat = "stat root %s: %w"
	// errorReadRootFormat reports a non-taxonomy failure to list the root.
	errorReadRootFormat = "reading root directory %s: %w"
)

// executableModeBits is the set of permission bits that classify a regular
// file as executable.
const executableModeBits fs.FileMode = 0o111

// Build walks rootPath up to policy.MaxDepth levels below the root and
// returns the ordered tree of visible entries. The root is depth zero and
// always present; a directory sitting exactly at the depth boundary is
// included but not expanded. Subdirectories that cannot be read degrade to
// nodes with zero children so the remainder of the tree stays usable; only
// root-level failures abort the call.
func Build(rootPath string, policy types.TraversalPolicy) (*types.TreeNode, error) {
	if policy.MaxDepth < types.MinTraversalDepth || policy.MaxDepth > types.MaxTraversalDepth {
		return nil, fmt.Errorf(errorDepthFormat, ErrInvalidDepth, policy.MaxDepth)
	}

	rootInfo, rootStatError := os.Stat(rootPath)
	if rootStatError != nil {
		return nil, classifyRootError(rootPath, rootStatError)
	}

	rootNode := &types.TreeNode{
		Name:  filepath.Base(rootPath),
		Path:  rootPath,
		Kind:  classifyMode(rootInfo.Mode()),
		Depth: 0,
	}
	if rootNode.Kind != types.KindDirectory {
		return rootNode, nil
	}

	rootEntries, readRootError := os.ReadDir(rootPath)
	if readRootError != nil {
		if errors.Is(readRootError, fs.ErrPermission) {
			return nil, fmt.Errorf(errorRootFormat, ErrRootPermission, rootPath)
		}
		return nil, fmt.Errorf(errorReadRootFormat, rootPath, readRootError)
	}

	visibilityFilter := NewFilter(policy)
	rootNode.Children = buildChildNodes(rootPath, rootEntries, 1, policy, visibilityFilter)
	return rootNode, nil
}

// buildChildNodes converts the listed entries of one directory into sorted
// child nodes, descending while the current depth is below the limit.
func buildChildNodes(parentPath string, parentEntries []os.DirEntry, currentDepth int, policy types.TraversalPolicy, visibilityFilter Filter) []*types.TreeNode {
	var childNodes []*types.TreeNode

	for _, directoryEntry := range parentEntries {
		entryName := directoryEntry.Name()
		if !visibilityFilter.Includes(entryName) {
			continue
		}

		entryPath := filepath.Join(parentPath, entryName)
		entryKind, descendable := classifyDirEntry(entryPath, directoryEntry)

		childNode := &types.TreeNode{
			Name:  entryName,
			Path:  entryPath,
			Kind:  entryKind,
			Depth: currentDepth,
		}

		if descendable && currentDepth < policy.MaxDepth {
			childEntries, readChildError := os.ReadDir(entryPath)
			if readChildError == nil {
				childNode.Children = buildChildNodes(entryPath, childEntries, currentDepth+1, policy, visibilityFilter)
			}
			// An unreadable subdirectory stays in the tree as a degraded
			// node with zero children.
		}

		childNodes = append(childNodes, childNode)
	}

	sortChildNodes(childNodes, policy.SortMode)
	return childNodes
}

// sortChildNodes orders siblings per the policy's sort mode. Names compare
// case-folded, with the raw byte order breaking folded ties; the kind mode
// additionally places directories before everything else.
func sortChildNodes(childNodes []*types.TreeNode, sortMode string) {
	nameLess := func(leftNode *types.TreeNode, rightNode *types.TreeNode) bool {
		foldedLeft := strings.ToLower(leftNode.Name)
		foldedRight := strings.ToLower(rightNode.Name)
		if foldedLeft == foldedRight {
			return leftNode.Name < rightNode.Name
		}
		return foldedLeft < foldedRight
	}

	sort.Slice(childNodes, func(leftIndex int, rightIndex int) bool {
		leftNode := childNodes[leftIndex]
		rightNode := childNodes[rightIndex]
		if sortMode == types.SortModeKind {
			leftIsDirectory := leftNode.Kind == types.KindDirectory
			rightIsDirectory := rightNode.Kind == types.KindDirectory
			if leftIsDirectory != rightIsDirectory {
				return leftIsDirectory
			}
		}
		return nameLess(leftNode, rightNode)
	})
}

// classifyDirEntry determines the node kind for a listed entry and whether
// the traversal may descend into it. Symlinks classify by their target's
// kind when resolvable but are never descended into, which guarantees
// termination without a visited set; broken symlinks classify as Other.
func classifyDirEntry(entryPath string, directoryEntry os.DirEntry) (string, bool) {
	if directoryEntry.Type()&fs.ModeSymlink != 0 {
		targetInfo, targetStatError := os.Stat(entryPath)
		if targetStatError != nil {
			return types.KindOther, false
		}
		if targetInfo.IsDir() {
			return types.KindDirectory, false
		}
		return classifyMode(targetInfo.Mode()), false
	}

	if directoryEntry.IsDir() {
		return types.KindDirectory, true
	}

	entryInfo, entryInfoError := directoryEntry.Info()
	if entryInfoError != nil {
		return types.KindFile, false
	}
	return classifyMode(entryInfo.Mode()), false
}

// classifyMode maps a file mode to a node kind.
func classifyMode(fileMode fs.FileMode) string {
	switch {
	case fileMode.IsDir():
		return types.KindDirectory
	case fileMode.IsRegular() && fileMode&executableModeBits != 0:
		return types.KindExecutable
	case fileMode.IsRegular():
		return types.KindFile
	default:
		return types.KindOther
	}
}

// classifyRootError maps a root stat failure onto the error taxonomy.
func classifyRootError(rootPath string, statError error) error {
	if errors.Is(statError, fs.ErrNotExist) {
		return fmt.Errorf(errorRootFormat, ErrRootNotFound, rootPath)
	}
	if errors.Is(statError, fs.ErrPermission) {
		return fmt.Errorf(errorRootFormat, ErrRootPermission, rootPath)
	}
	return fmt.Errorf(errorStatRootFormat, rootPath, statError)
}
