// Package render turns scan results into terminal text. It owns every
// presentation concern the traversal core is forbidden to touch:
// box-drawing connectors, color codes, and icon glyphs.
package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/temirov/kree/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	searchResultsHeader    = "Search Results:"
	searchSuggestionHeader = "Couldn't find results. Did you mean?:"
	searchEmptyMessage     = "No results found"
	searchRowFormat        = "%d.\t%s\t\t%s\n"

	iconSeparator = " "
)

// Options control presentation. Colors and Icons map a file extension
// (without the leading dot) to a color name or icon glyph and come from
// the application configuration.
type Options struct {
	ColorEnabled bool
	IconsEnabled bool
	Colors       map[string]string
	Icons        map[string]string
}

// namedColors maps configuration color names onto terminal colors.
var namedColors = map[string]*color.Color{
	"black":   color.New(color.FgBlack),
	"red":     color.New(color.FgRed),
	"green":   color.New(color.FgGreen),
	"yellow":  color.New(color.FgYellow),
	"blue":    color.New(color.FgBlue),
	"magenta": color.New(color.FgMagenta),
	"cyan":    color.New(color.FgCyan),
	"white":   color.New(color.FgWhite),
}

// kindColors are the fallback colors per node kind.
var kindColors = map[string]*color.Color{
	types.KindDirectory:  color.New(color.FgBlue, color.Bold),
	types.KindExecutable: color.New(color.FgGreen),
	types.KindOther:      color.New(color.FgMagenta),
}

// kindIcons are the fallback icon glyphs per node kind (Nerd Font).
var kindIcons = map[string]string{
	types.KindDirectory:  "\uf07b",
	types.KindFile:       "\uf15b",
	types.KindExecutable: "\uf489",
	types.KindOther:      "\uf0c1",
}

// RenderTree writes the tree rooted at rootNode using box-drawing
// connectors, one line per node.
func RenderTree(writer io.Writer, rootNode *types.TreeNode, options Options) {
	fmt.Fprintln(writer, options.label(rootNode.Name, rootNode.Kind))
	renderChildren(writer, rootNode, "", options)
}

// renderChildren writes the subtree below parentNode, extending the
// accumulated line prefix per branch.
func renderChildren(writer io.Writer, parentNode *types.TreeNode, linePrefix string, options Options) {
	childCount := len(parentNode.Children)
	for childIndex, childNode := range parentNode.Children {
		connector := treeBranchConnector
		childPrefix := linePrefix + treeBranchPadding
		if childIndex == childCount-1 {
			connector = treeLastConnector
			childPrefix = linePrefix + treeLastPadding
		}
		fmt.Fprintf(writer, "%s%s%s\n", linePrefix, connector, options.label(childNode.Name, childNode.Kind))
		renderChildren(writer, childNode, childPrefix, options)
	}
}

// RenderMatches writes an ordered fuzzy search result list. When the best
// match is exact only the distance-zero rows are shown; otherwise every
// accepted match is offered as a suggestion.
func RenderMatches(writer io.Writer, matches []types.ScoredMatch, options Options) {
	if len(matches) == 0 {
		fmt.Fprintln(writer, searchEmptyMessage)
		return
	}

	if matches[0].Distance == 0 {
		fmt.Fprintln(writer, searchResultsHeader)
		for matchIndex, match := range matches {
			if match.Distance > 0 {
				break
			}
			fmt.Fprintf(writer, searchRowFormat, matchIndex+1, options.label(match.Name, match.Kind), match.Path)
		}
		return
	}

	fmt.Fprintln(writer, searchSuggestionHeader)
	for matchIndex, match := range matches {
		fmt.Fprintf(writer, searchRowFormat, matchIndex+1, options.label(match.Name, match.Kind), match.Path)
	}
}

// label decorates an entry name with its icon and color per the options.
func (options Options) label(entryName string, entryKind string) string {
	decoratedName := entryName
	if options.IconsEnabled {
		decoratedName = options.iconFor(entryName, entryKind) + iconSeparator + decoratedName
	}
	if !options.ColorEnabled {
		return decoratedName
	}
	entryColor := options.colorFor(entryName, entryKind)
	if entryColor == nil {
		return decoratedName
	}
	return entryColor.Sprint(decoratedName)
}

// colorFor picks the configured extension color when present, falling back
// to the kind color. Unknown color names fall back the same way.
func (options Options) colorFor(entryName string, entryKind string) *color.Color {
	if configuredName, hasOverride := options.Colors[extensionOf(entryName)]; hasOverride {
		if namedColor, isKnownName := namedColors[strings.ToLower(configuredName)]; isKnownName {
			return namedColor
		}
	}
	return kindColors[entryKind]
}

// iconFor picks the configured extension icon when present, falling back
// to the kind icon.
func (options Options) iconFor(entryName string, entryKind string) string {
	if configuredIcon, hasOverride := options.Icons[extensionOf(entryName)]; hasOverride {
		return configuredIcon
	}
	return kindIcons[entryKind]
}

// extensionOf returns the entry's extension without the leading dot.
func extensionOf(entryName string) string {
	return strings.TrimPrefix(filepath.Ext(entryName), ".")
}
