package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/kree/internal/config"
	"github.com/temirov/kree/internal/utils"
)

// isolatedHome points HOME at an empty directory so the global
// configuration cannot leak into a test.
func isolatedHome(testingInstance *testing.T) string {
	testingInstance.Helper()
	homeDirectory := testingInstance.TempDir()
	testingInstance.Setenv("HOME", homeDirectory)
	testingInstance.Setenv("USERPROFILE", homeDirectory)
	return homeDirectory
}

// TestLoadApplicationConfigurationLocal verifies decoding of a local
// configuration file.
func TestLoadApplicationConfigurationLocal(testingInstance *testing.T) {
	isolatedHome(testingInstance)
	workingDirectory := testingInstance.TempDir()
	localConfigContent := `defaults:
  depth: 3
  sort: name
  icons: true
ignore:
  patterns:
    - node_modules
    - target
colors:
  rs: red
icons:
  rs: "R"
`
	localConfigPath := filepath.Join(workingDirectory, utils.ConfigFileName)
	if writeError := os.WriteFile(localConfigPath, []byte(localConfigContent), 0o644); writeError != nil {
		testingInstance.Fatalf("writing configuration: %v", writeError)
	}

	loadedConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		testingInstance.Fatalf("unexpected error: %v", loadError)
	}

	if loadedConfiguration.Defaults.Depth == nil || *loadedConfiguration.Defaults.Depth != 3 {
		testingInstance.Errorf("expected depth 3, got %v", loadedConfiguration.Defaults.Depth)
	}
	if loadedConfiguration.Defaults.Sort != "name" {
		testingInstance.Errorf("expected sort name, got %q", loadedConfiguration.Defaults.Sort)
	}
	if loadedConfiguration.Defaults.Icons == nil || !*loadedConfiguration.Defaults.Icons {
		testingInstance.Error("expected icons enabled")
	}
	if len(loadedConfiguration.Ignore.Patterns) != 2 {
		testingInstance.Errorf("expected two ignore patterns, got %v", loadedConfiguration.Ignore.Patterns)
	}
	if loadedConfiguration.Colors["rs"] != "red" {
		testingInstance.Errorf("expected rs color red, got %q", loadedConfiguration.Colors["rs"])
	}
	if loadedConfiguration.Icons["rs"] != "R" {
		testingInstance.Errorf("expected rs icon R, got %q", loadedConfiguration.Icons["rs"])
	}
}

// TestLoadApplicationConfigurationGlobalAndLocal verifies that local values
// override global values while unset fields fall through.
func TestLoadApplicationConfigurationGlobalAndLocal(testingInstance *testing.T) {
	homeDirectory := isolatedHome(testingInstance)
	globalDirectory := filepath.Join(homeDirectory, filepath.FromSlash(utils.GlobalConfigDirectoryName))
	if mkdirError := os.MkdirAll(globalDirectory, 0o755); mkdirError != nil {
		testingInstance.Fatalf("creating global configuration directory: %v", mkdirError)
	}
	globalContent := "defaults:\n  depth: 2\n  no_color: true\nignore:\n  patterns:\n    - vendor\n"
	if writeError := os.WriteFile(filepath.Join(globalDirectory, utils.GlobalConfigFileName), []byte(globalContent), 0o644); writeError != nil {
		testingInstance.Fatalf("writing global configuration: %v", writeError)
	}

	workingDirectory := testingInstance.TempDir()
	localContent := "defaults:\n  depth: 5\nignore:\n  patterns:\n    - vendor\n    - dist\n"
	if writeError := os.WriteFile(filepath.Join(workingDirectory, utils.ConfigFileName), []byte(localContent), 0o644); writeError != nil {
		testingInstance.Fatalf("writing local configuration: %v", writeError)
	}

	loadedConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		testingInstance.Fatalf("unexpected error: %v", loadError)
	}

	if loadedConfiguration.Defaults.Depth == nil || *loadedConfiguration.Defaults.Depth != 5 {
		testingInstance.Errorf("expected local depth 5, got %v", loadedConfiguration.Defaults.Depth)
	}
	if loadedConfiguration.Defaults.NoColor == nil || !*loadedConfiguration.Defaults.NoColor {
		testingInstance.Error("expected global no_color preserved")
	}

	expectedPatterns := []string{"vendor", "dist"}
	if len(loadedConfiguration.Ignore.Patterns) != len(expectedPatterns) {
		testingInstance.Fatalf("expected %v, got %v", expectedPatterns, loadedConfiguration.Ignore.Patterns)
	}
	for position, expectedPattern := range expectedPatterns {
		if loadedConfiguration.Ignore.Patterns[position] != expectedPattern {
			testingInstance.Errorf("position %d: expected %s, got %s", position, expectedPattern, loadedConfiguration.Ignore.Patterns[position])
		}
	}
}

// TestLoadApplicationConfigurationMissingFiles verifies that absent
// configuration files produce an empty configuration.
func TestLoadApplicationConfigurationMissingFiles(testingInstance *testing.T) {
	isolatedHome(testingInstance)
	workingDirectory := testingInstance.TempDir()

	loadedConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		testingInstance.Fatalf("unexpected error: %v", loadError)
	}
	if loadedConfiguration.Defaults.Depth != nil || loadedConfiguration.Defaults.Sort != "" {
		testingInstance.Errorf("expected empty defaults, got %+v", loadedConfiguration.Defaults)
	}
}

// TestApplicationConfigurationMerge verifies the overlay semantics of Merge.
func TestApplicationConfigurationMerge(testingInstance *testing.T) {
	baseDepth := 2
	overrideDepth := 4
	baseFlag := true

	baseConfiguration := config.ApplicationConfiguration{
		Defaults: config.DefaultsConfiguration{Depth: &baseDepth, Sort: "kind", NoColor: &baseFlag},
		Colors:   map[string]string{"go": "cyan", "rs": "red"},
	}
	overrideConfiguration := config.ApplicationConfiguration{
		Defaults: config.DefaultsConfiguration{Depth: &overrideDepth},
		Colors:   map[string]string{"rs": "yellow"},
	}

	merged := baseConfiguration.Merge(overrideConfiguration)

	if merged.Defaults.Depth == nil || *merged.Defaults.Depth != overrideDepth {
		testingInstance.Errorf("expected depth %d, got %v", overrideDepth, merged.Defaults.Depth)
	}
	if merged.Defaults.Sort != "kind" {
		testingInstance.Errorf("expected base sort preserved, got %q", merged.Defaults.Sort)
	}
	if merged.Defaults.NoColor == nil || !*merged.Defaults.NoColor {
		testingInstance.Error("expected base no_color preserved")
	}
	if merged.Colors["rs"] != "yellow" || merged.Colors["go"] != "cyan" {
		testingInstance.Errorf("expected overlay colors, got %v", merged.Colors)
	}
}

// TestLoadApplicationConfigurationExplicitPath verifies that an explicit
// configuration path wins over the working directory default.
func TestLoadApplicationConfigurationExplicitPath(testingInstance *testing.T) {
	isolatedHome(testingInstance)
	workingDirectory := testingInstance.TempDir()
	explicitPath := filepath.Join(testingInstance.TempDir(), "custom.yaml")
	if writeError := os.WriteFile(explicitPath, []byte("defaults:\n  depth: 7\n"), 0o644); writeError != nil {
		testingInstance.Fatalf("writing configuration: %v", writeError)
	}

	loadedConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: explicitPath,
	})
	if loadError != nil {
		testingInstance.Fatalf("unexpected error: %v", loadError)
	}
	if loadedConfiguration.Defaults.Depth == nil || *loadedConfiguration.Defaults.Depth != 7 {
		testingInstance.Errorf("expected depth 7, got %v", loadedConfiguration.Defaults.Depth)
	}
}
