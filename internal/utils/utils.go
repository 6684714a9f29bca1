// Package utils contains general helpers shared across the kree CLI.
package utils

// File and directory names the CLI looks for.
const (
	// IgnoreFileName is the per-directory ignore file read from the scan root.
	IgnoreFileName = ".kreeignore"
	// ConfigFileName is the local application configuration file.
	ConfigFileName = ".kree.yaml"
	// GlobalConfigDirectoryName is the per-user configuration directory under the home directory.
	GlobalConfigDirectoryName = ".config/kree"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
)

// LoggerInitializationFailedMessageFormat reports a logger construction failure.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal CLI failures.
const ApplicationExecutionFailedMessage = "kree execution failed"

// DeduplicatePatterns removes duplicate patterns from a slice while
// preserving order. The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}
