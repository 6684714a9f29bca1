package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/kree/internal/utils"
)

// commentPrefix marks ignore file lines that carry no pattern.
const commentPrefix = "#"

// LoadIgnoreFilePatterns reads the ignore file at the given path and
// returns one exact entry name per non-empty, non-comment line, trimmed.
// A missing file yields no patterns and no error.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	lineScanner := bufio.NewScanner(fileHandle)
	for lineScanner.Scan() {
		trimmedLine := strings.TrimSpace(lineScanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := lineScanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadIgnorePatternsForDirectory reads the directory's ignore file and
// merges it, as a set union with order-preserving deduplication, with the
// globally configured patterns. The result feeds TraversalPolicy; the
// traversal core itself never touches ignore files.
func LoadIgnorePatternsForDirectory(absoluteDirectoryPath string, configuredPatterns []string) ([]string, error) {
	ignoreFilePath := filepath.Join(absoluteDirectoryPath, utils.IgnoreFileName)
	filePatterns, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
	if loadError != nil {
		return nil, fmt.Errorf("loading %s from %s: %w", utils.IgnoreFileName, absoluteDirectoryPath, loadError)
	}

	combinedPatterns := append([]string{}, filePatterns...)
	for _, configuredPattern := range configuredPatterns {
		trimmedPattern := strings.TrimSpace(configuredPattern)
		if trimmedPattern == "" {
			continue
		}
		combinedPatterns = append(combinedPatterns, trimmedPattern)
	}

	return utils.DeduplicatePatterns(combinedPatterns), nil
}
