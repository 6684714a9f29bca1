// Package config loads the kree application configuration and ignore files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/kree/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds persisted defaults and lookup tables for
// the CLI. The traversal core never reads it; the CLI merges it with flags
// into a resolved TraversalPolicy before any scan starts.
type ApplicationConfiguration struct {
	Defaults DefaultsConfiguration `mapstructure:"defaults"`
	Ignore   IgnoreConfiguration   `mapstructure:"ignore"`
	Colors   map[string]string     `mapstructure:"colors"`
	Icons    map[string]string     `mapstructure:"icons"`
}

// DefaultsConfiguration mirrors the CLI flags that may be preset in the
// configuration file. Pointer fields distinguish "unset" from "false".
type DefaultsConfiguration struct {
	Depth     *int   `mapstructure:"depth"`
	Sort      string `mapstructure:"sort"`
	All       *bool  `mapstructure:"all"`
	NoColor   *bool  `mapstructure:"no_color"`
	Icons     *bool  `mapstructure:"icons"`
	Clipboard *bool  `mapstructure:"clipboard"`
}

// IgnoreConfiguration lists globally ignored entry names.
type IgnoreConfiguration struct {
	Patterns []string `mapstructure:"patterns"`
}

// LoadApplicationConfiguration loads configuration from the global file
// under the user's home directory and a local file in the working
// directory, with local values overriding global ones. Missing files are
// not an error.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeDirectoryError := os.UserHomeDir(); homeDirectoryError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, filepath.FromSlash(utils.GlobalConfigDirectoryName), utils.GlobalConfigFileName)
		globalConfiguration, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfiguration)
	}

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return ApplicationConfiguration{}, resolveError
	}
	if localPath != "" {
		localConfiguration, loadError := loadConfigurationFromPath(localPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(localConfiguration)
	}

	merged.Ignore.Patterns = utils.DeduplicatePatterns(merged.Ignore.Patterns)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory string, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolutePath, absolutePathError := filepath.Abs(explicitPath)
			if absolutePathError != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, absolutePathError)
			}
			return absolutePath, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	pathInfo, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if pathInfo.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Defaults = result.Defaults.merge(override.Defaults)
	if len(override.Ignore.Patterns) > 0 {
		result.Ignore.Patterns = append(result.Ignore.Patterns, override.Ignore.Patterns...)
	}
	result.Colors = mergeStringMap(result.Colors, override.Colors)
	result.Icons = mergeStringMap(result.Icons, override.Icons)
	return result
}

func (configuration DefaultsConfiguration) merge(override DefaultsConfiguration) DefaultsConfiguration {
	result := configuration
	if override.Depth != nil {
		result.Depth = cloneInt(override.Depth)
	}
	if override.Sort != "" {
		result.Sort = override.Sort
	}
	if override.All != nil {
		result.All = cloneBool(override.All)
	}
	if override.NoColor != nil {
		result.NoColor = cloneBool(override.NoColor)
	}
	if override.Icons != nil {
		result.Icons = cloneBool(override.Icons)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func mergeStringMap(base map[string]string, override map[string]string) map[string]string {
	if len(override) == 0 {
		return base
	}
	result := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range override {
		result[key] = value
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
