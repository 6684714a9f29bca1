// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/kree/internal/config"
	"github.com/temirov/kree/internal/render"
	"github.com/temirov/kree/internal/scan"
	"github.com/temirov/kree/internal/services/clipboard"
	"github.com/temirov/kree/internal/types"
	"github.com/temirov/kree/internal/utils"
)

const (
	depthFlagName     = "depth"
	findFlagName      = "find"
	allFlagName       = "all"
	sortFlagName      = "sort"
	noColorFlagName   = "no-color"
	iconsFlagName     = "icons"
	clipboardFlagName = "clipboard"
	configFlagName    = "config"
	versionFlagName   = "version"
	versionTemplate   = "kree version: %s\n"
	defaultPath       = "."
	defaultMaxDepth   = 1

	rootUse              = "kree [paths...]"
	rootShortDescription = "a directory tree visualizer and fuzzy finder"
	rootLongDescription  = `kree renders a directory subtree as an annotated tree diagram.
With --find it instead searches the subtree for entries whose names
approximately match the query, ranked by edit distance.`
	rootUsageExample = `  # Render two levels of the current directory
  kree --depth 2

  # Find a file whose name you only half remember
  kree --find amin src

  # Show hidden entries with icons
  kree -a -i`

	depthFlagDescription     = "maximum traversal depth"
	findFlagDescription      = "fuzzy search query"
	allFlagDescription       = "show hidden entries and bypass ignore patterns"
	sortFlagDescription      = "sort order: name or kind (directories first)"
	noColorFlagDescription   = "disable colored output"
	iconsFlagDescription     = "show icon glyphs next to entries"
	clipboardFlagDescription = "copy the rendered output to the system clipboard"
	configFlagDescription    = "path to the configuration file"
	versionFlagDescription   = "display application version"

	depthOverflowMessage = "Depth overflow!!\nAre you serious?"

	invalidSortMessageFormat    = "invalid sort mode '%s': must be '%s' or '%s'"
	warningSkipPathFormat       = "Warning: skipping %s: %v\n"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	clipboardCopyErrorFormat    = "copying output to clipboard: %w"
	multiRootHeaderFormat       = "--- %s ---\n"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNoValidPaths indicates that all paths are invalid.
	errorNoValidPaths = "no valid paths"
)

// Execute runs the kree application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// rootOptions stores the resolved values of every root command flag.
type rootOptions struct {
	maxDepth     int
	findQuery    string
	showAll      bool
	sortMode     string
	noColor      bool
	showIcons    bool
	useClipboard bool
	configPath   string
	showVersion  bool
}

// createRootCommand builds the root Cobra command. Shell completions come
// from Cobra's generated completion subcommand.
func createRootCommand() *cobra.Command {
	var options rootOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if options.showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return runRootCommand(command, arguments, options)
		},
	}

	rootCommand.Flags().IntVarP(&options.maxDepth, depthFlagName, "d", defaultMaxDepth, depthFlagDescription)
	rootCommand.Flags().StringVarP(&options.findQuery, findFlagName, "f", "", findFlagDescription)
	rootCommand.Flags().BoolVarP(&options.showAll, allFlagName, "a", false, allFlagDescription)
	rootCommand.Flags().StringVarP(&options.sortMode, sortFlagName, "s", types.SortModeKind, sortFlagDescription)
	rootCommand.Flags().BoolVar(&options.noColor, noColorFlagName, false, noColorFlagDescription)
	rootCommand.Flags().BoolVarP(&options.showIcons, iconsFlagName, "i", false, iconsFlagDescription)
	rootCommand.Flags().BoolVar(&options.useClipboard, clipboardFlagName, false, clipboardFlagDescription)
	rootCommand.Flags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// runRootCommand resolves configuration, builds the traversal policy, and
// dispatches to render or search mode.
func runRootCommand(command *cobra.Command, arguments []string, options rootOptions) error {
	if len(arguments) == 0 {
		arguments = []string{defaultPath}
	}

	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configPath,
	})
	if configurationError != nil {
		return configurationError
	}

	options = applyConfiguredDefaults(command, options, applicationConfiguration.Defaults)

	if options.sortMode != types.SortModeName && options.sortMode != types.SortModeKind {
		return fmt.Errorf(invalidSortMessageFormat, options.sortMode, types.SortModeName, types.SortModeKind)
	}
	if options.maxDepth > types.MaxTraversalDepth {
		fmt.Fprintln(command.OutOrStdout(), depthOverflowMessage)
		return nil
	}

	validatedPaths, pathValidationError := resolveAndValidatePaths(arguments)
	if pathValidationError != nil {
		return pathValidationError
	}

	outcomes, waitError := scanRoots(validatedPaths, options, applicationConfiguration.Ignore.Patterns)

	renderOptions := render.Options{
		ColorEnabled: !options.noColor && isTerminalWriter(os.Stdout),
		IconsEnabled: options.showIcons,
		Colors:       applicationConfiguration.Colors,
		Icons:        applicationConfiguration.Icons,
	}

	var outputBuffer bytes.Buffer
	anyRootSucceeded := false
	for outcomeIndex, outcome := range outcomes {
		if outcome.scanError != nil {
			fmt.Fprintf(command.ErrOrStderr(), warningSkipPathFormat, outcome.rootPath.AbsolutePath, outcome.scanError)
			continue
		}
		anyRootSucceeded = true
		if len(outcomes) > 1 {
			if outcomeIndex > 0 {
				outputBuffer.WriteString("\n")
			}
			fmt.Fprintf(&outputBuffer, multiRootHeaderFormat, outcome.rootPath.AbsolutePath)
		}
		if options.findQuery != "" {
			render.RenderMatches(&outputBuffer, outcome.matches, renderOptions)
		} else {
			render.RenderTree(&outputBuffer, outcome.tree, renderOptions)
		}
	}

	if !anyRootSucceeded && waitError != nil {
		return waitError
	}

	if _, writeError := command.OutOrStdout().Write(outputBuffer.Bytes()); writeError != nil {
		return writeError
	}

	if options.useClipboard {
		clipboardService := clipboard.NewService()
		if copyError := clipboardService.Copy(outputBuffer.String()); copyError != nil {
			return fmt.Errorf(clipboardCopyErrorFormat, copyError)
		}
	}

	return nil
}

// applyConfiguredDefaults fills flag values from the configuration file
// wherever the flag was not set on the command line.
func applyConfiguredDefaults(command *cobra.Command, options rootOptions, defaults config.DefaultsConfiguration) rootOptions {
	if !command.Flags().Changed(depthFlagName) && defaults.Depth != nil {
		options.maxDepth = *defaults.Depth
	}
	if !command.Flags().Changed(sortFlagName) && defaults.Sort != "" {
		options.sortMode = defaults.Sort
	}
	if !command.Flags().Changed(allFlagName) && defaults.All != nil {
		options.showAll = *defaults.All
	}
	if !command.Flags().Changed(noColorFlagName) && defaults.NoColor != nil {
		options.noColor = *defaults.NoColor
	}
	if !command.Flags().Changed(iconsFlagName) && defaults.Icons != nil {
		options.showIcons = *defaults.Icons
	}
	if !command.Flags().Changed(clipboardFlagName) && defaults.Clipboard != nil {
		options.useClipboard = *defaults.Clipboard
	}
	return options
}

// rootOutcome holds the result of scanning one validated root path.
type rootOutcome struct {
	rootPath  types.ValidatedPath
	tree      *types.TreeNode
	matches   []types.ScoredMatch
	scanError error
}

// scanRoots runs one scan per root path. Each scan owns private state and
// only reads the filesystem, so the roots proceed concurrently; results
// keep the input order. The returned error is the first per-root failure,
// for callers that find no usable outcome at all.
func scanRoots(validatedPaths []types.ValidatedPath, options rootOptions, configuredIgnorePatterns []string) ([]rootOutcome, error) {
	outcomes := make([]rootOutcome, len(validatedPaths))
	var scanGroup errgroup.Group

	for pathIndex, pathInformation := range validatedPaths {
		pathIndex, pathInformation := pathIndex, pathInformation
		outcomes[pathIndex].rootPath = pathInformation
		scanGroup.Go(func() error {
			policy, policyError := buildTraversalPolicy(pathInformation, options, configuredIgnorePatterns)
			if policyError != nil {
				outcomes[pathIndex].scanError = policyError
				return policyError
			}
			if options.findQuery != "" {
				matches, searchError := scan.Search(pathInformation.AbsolutePath, options.findQuery, policy)
				outcomes[pathIndex].matches = matches
				outcomes[pathIndex].scanError = searchError
				return searchError
			}
			tree, buildError := scan.Build(pathInformation.AbsolutePath, policy)
			outcomes[pathIndex].tree = tree
			outcomes[pathIndex].scanError = buildError
			return buildError
		})
	}

	waitError := scanGroup.Wait()
	return outcomes, waitError
}

// buildTraversalPolicy resolves the per-root traversal policy. Ignore
// patterns merge the root's ignore file with the configured global list,
// and stay empty when hidden entries are shown.
func buildTraversalPolicy(pathInformation types.ValidatedPath, options rootOptions, configuredIgnorePatterns []string) (types.TraversalPolicy, error) {
	policy := types.TraversalPolicy{
		MaxDepth:   options.maxDepth,
		ShowHidden: options.showAll,
		SortMode:   options.sortMode,
	}
	if options.showAll || !pathInformation.IsDir {
		return policy, nil
	}

	ignorePatterns, loadError := config.LoadIgnorePatternsForDirectory(pathInformation.AbsolutePath, configuredIgnorePatterns)
	if loadError != nil {
		return types.TraversalPolicy{}, loadError
	}
	policy.IgnorePatterns = ignorePatterns
	return policy, nil
}

// isTerminalWriter reports whether the file is attached to a terminal.
func isTerminalWriter(file *os.File) bool {
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// resolveAndValidatePaths converts input paths to absolute form and validates their existence.
func resolveAndValidatePaths(inputs []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, alreadySeen := seen[cleanPath]; alreadySeen {
			continue
		}
		pathInfo, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil {
			if os.IsNotExist(fileStatusError) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, types.ValidatedPath{AbsolutePath: cleanPath, IsDir: pathInfo.IsDir()})
	}
	if len(result) == 0 {
		return nil, fmt.Errorf(errorNoValidPaths)
	}
	return result, nil
}
