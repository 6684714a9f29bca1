package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/temirov/kree/internal/types"
)

// thresholdDivisor derives the acceptance threshold from the query length.
const thresholdDivisor = 3

// Search walks the whole subtree under rootPath, ignoring the policy's
// depth limit, and returns every visible entry whose name is within the
// acceptance threshold of the query. Comparison is case-insensitive: both
// the query and each candidate name are folded before the distance is
// computed. Results come back ordered by ascending distance, ties broken
// by relative path; an empty result is valid. Subtrees that cannot be read
// contribute no candidates instead of aborting the search.
func Search(rootPath string, query string, policy types.TraversalPolicy) ([]types.ScoredMatch, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	rootInfo, rootStatError := os.Stat(rootPath)
	if rootStatError != nil {
		return nil, classifyRootError(rootPath, rootStatError)
	}
	if !rootInfo.IsDir() {
		return nil, nil
	}

	rootEntries, readRootError := os.ReadDir(rootPath)
	if readRootError != nil {
		if errors.Is(readRootError, fs.ErrPermission) {
			return nil, fmt.Errorf(errorRootFormat, ErrRootPermission, rootPath)
		}
		return nil, fmt.Errorf(errorReadRootFormat, rootPath, readRootError)
	}

	matchContext := matchCollector{
		foldedQuery:       strings.ToLower(query),
		acceptedThreshold: DistanceThreshold(query),
		visibilityFilter:  NewFilter(policy),
	}
	matches := matchContext.collect(rootPath, "", rootEntries, nil)

	sort.Slice(matches, func(leftIndex int, rightIndex int) bool {
		if matches[leftIndex].Distance != matches[rightIndex].Distance {
			return matches[leftIndex].Distance < matches[rightIndex].Distance
		}
		return matches[leftIndex].Path < matches[rightIndex].Path
	})
	return matches, nil
}

// matchCollector carries the per-invocation state of one fuzzy search.
type matchCollector struct {
	foldedQuery       string
	acceptedThreshold int
	visibilityFilter  Filter
}

// collect scores the listed entries of one directory and recurses into
// readable, non-symlinked subdirectories. Unreadable subtrees are skipped.
func (collector matchCollector) collect(directoryPath string, relativePrefix string, directoryEntries []os.DirEntry, matches []types.ScoredMatch) []types.ScoredMatch {
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		if !collector.visibilityFilter.Includes(entryName) {
			continue
		}

		entryPath := filepath.Join(directoryPath, entryName)
		relativePath := entryName
		if relativePrefix != "" {
			relativePath = relativePrefix + "/" + entryName
		}
		entryKind, descendable := classifyDirEntry(entryPath, directoryEntry)

		entryDistance := candidateDistance(collector.foldedQuery, entryName)
		if entryDistance <= collector.acceptedThreshold {
			matches = append(matches, types.ScoredMatch{
				Path:     relativePath,
				Name:     entryName,
				Kind:     entryKind,
				Distance: entryDistance,
			})
		}

		if descendable {
			childEntries, readChildError := os.ReadDir(entryPath)
			if readChildError != nil {
				continue
			}
			matches = collector.collect(entryPath, relativePath, childEntries, matches)
		}
	}
	return matches
}

// candidateDistance scores a candidate name against the already-folded
// query. The name is scored both in full and with its final extension
// stripped and the smaller distance wins, so a query of "main" finds
// "Main.rs" exactly and so does a query of "main.rs".
func candidateDistance(foldedQuery string, entryName string) int {
	foldedName := strings.ToLower(entryName)
	bestDistance := Distance(foldedQuery, foldedName)
	foldedStem := strings.TrimSuffix(foldedName, filepath.Ext(foldedName))
	if foldedStem != "" && foldedStem != foldedName {
		if stemDistance := Distance(foldedQuery, foldedStem); stemDistance < bestDistance {
			bestDistance = stemDistance
		}
	}
	return bestDistance
}

// DistanceThreshold is the fixed acceptance rule for fuzzy matching:
// max(1, floor(len(query)/3)), with the length counted in runes.
func DistanceThreshold(query string) int {
	computedThreshold := utf8.RuneCountInString(query) / thresholdDivisor
	if computedThreshold < 1 {
		return 1
	}
	return computedThreshold
}

// Distance returns the Levenshtein edit distance between two strings using
// unit cost for insertion, deletion, and substitution. The comparison is
// rune-based and case-sensitive; callers wanting case-insensitive matching
// fold both arguments first. The dynamic program keeps only a rolling pair
// of rows, so space stays linear in the shorter string.
func Distance(firstString string, secondString string) int {
	firstRunes := []rune(firstString)
	secondRunes := []rune(secondString)
	if len(secondRunes) > len(firstRunes) {
		firstRunes, secondRunes = secondRunes, firstRunes
	}

	previousRow := make([]int, len(secondRunes)+1)
	currentRow := make([]int, len(secondRunes)+1)
	for columnIndex := range previousRow {
		previousRow[columnIndex] = columnIndex
	}

	for rowIndex := 1; rowIndex <= len(firstRunes); rowIndex++ {
		currentRow[0] = rowIndex
		for columnIndex := 1; columnIndex <= len(secondRunes); columnIndex++ {
			if firstRunes[rowIndex-1] == secondRunes[columnIndex-1] {
				currentRow[columnIndex] = previousRow[columnIndex-1]
				continue
			}
			currentRow[columnIndex] = 1 + minimumOfThree(
				previousRow[columnIndex],
				currentRow[columnIndex-1],
				previousRow[columnIndex-1],
			)
		}
		previousRow, currentRow = currentRow, previousRow
	}

	return previousRow[len(secondRunes)]
}

// minimumOfThree returns the smallest of three candidate costs.
func minimumOfThree(firstCandidate int, secondCandidate int, thirdCandidate int) int {
	smallestCandidate := firstCandidate
	if secondCandidate < smallestCandidate {
		smallestCandidate = secondCandidate
	}
	if thirdCandidate < smallestCandidate {
		smallestCandidate = thirdCandidate
	}
	return smallestCandidate
}
