package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/kree/internal/config"
	"github.com/temirov/kree/internal/utils"
)

// TestLoadIgnoreFilePatterns verifies line trimming, comment skipping, and
// empty-line handling.
func TestLoadIgnoreFilePatterns(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	ignoreFilePath := filepath.Join(rootDirectory, utils.IgnoreFileName)
	ignoreFileContent := "node_modules\n\n  target  \n# a comment\nvendor\n"
	if writeError := os.WriteFile(ignoreFilePath, []byte(ignoreFileContent), 0o644); writeError != nil {
		testingInstance.Fatalf("writing ignore file: %v", writeError)
	}

	patterns, loadError := config.LoadIgnoreFilePatterns(ignoreFilePath)
	if loadError != nil {
		testingInstance.Fatalf("unexpected error: %v", loadError)
	}

	expectedPatterns := []string{"node_modules", "target", "vendor"}
	if len(patterns) != len(expectedPatterns) {
		testingInstance.Fatalf("expected %v, got %v", expectedPatterns, patterns)
	}
	for position, expectedPattern := range expectedPatterns {
		if patterns[position] != expectedPattern {
			testingInstance.Errorf("position %d: expected %s, got %s", position, expectedPattern, patterns[position])
		}
	}
}

// TestLoadIgnoreFilePatternsMissingFile verifies that a missing ignore file
// yields no patterns and no error.
func TestLoadIgnoreFilePatternsMissingFile(testingInstance *testing.T) {
	missingPath := filepath.Join(testingInstance.TempDir(), utils.IgnoreFileName)
	patterns, loadError := config.LoadIgnoreFilePatterns(missingPath)
	if loadError != nil {
		testingInstance.Fatalf("unexpected error: %v", loadError)
	}
	if patterns != nil {
		testingInstance.Errorf("expected nil patterns, got %v", patterns)
	}
}

// TestLoadIgnorePatternsForDirectory verifies the set union of file
// patterns and configured global patterns.
func TestLoadIgnorePatternsForDirectory(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	ignoreFilePath := filepath.Join(rootDirectory, utils.IgnoreFileName)
	if writeError := os.WriteFile(ignoreFilePath, []byte("node_modules\nvendor\n"), 0o644); writeError != nil {
		testingInstance.Fatalf("writing ignore file: %v", writeError)
	}

	mergedPatterns, loadError := config.LoadIgnorePatternsForDirectory(rootDirectory, []string{"vendor", "dist", "  ", "node_modules"})
	if loadError != nil {
		testingInstance.Fatalf("unexpected error: %v", loadError)
	}

	expectedPatterns := []string{"node_modules", "vendor", "dist"}
	if len(mergedPatterns) != len(expectedPatterns) {
		testingInstance.Fatalf("expected %v, got %v", expectedPatterns, mergedPatterns)
	}
	for position, expectedPattern := range expectedPatterns {
		if mergedPatterns[position] != expectedPattern {
			testingInstance.Errorf("position %d: expected %s, got %s", position, expectedPattern, mergedPatterns[position])
		}
	}
}

// TestLoadIgnorePatternsForDirectoryWithoutFile verifies that only the
// configured patterns survive when the directory has no ignore file.
func TestLoadIgnorePatternsForDirectoryWithoutFile(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	mergedPatterns, loadError := config.LoadIgnorePatternsForDirectory(rootDirectory, []string{"dist"})
	if loadError != nil {
		testingInstance.Fatalf("unexpected error: %v", loadError)
	}
	if len(mergedPatterns) != 1 || mergedPatterns[0] != "dist" {
		testingInstance.Errorf("expected [dist], got %v", mergedPatterns)
	}
}
