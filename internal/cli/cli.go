// Package cli implements the diagramscene command-line interface.
//
// The commands wrap [pipeline.Runner]:
//   - render: Turn a diagram file into SVG, JSON, DOT, PNG or PDF
//   - detect: Report the kind and entity counts of a diagram file
//   - extract: List the diagram blocks of a Markdown document
//   - batch: Render every diagram block of one or more documents in parallel
//   - inspect: Browse the intermediate results of each pipeline stage
//   - serve: Run the HTTP API
//   - theme: Print the default layout theme as TOML
//   - cache: Manage the scene cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/deckdown/diagramscene/pkg/buildinfo"
	"github.com/deckdown/diagramscene/pkg/cache"
	errs "github.com/deckdown/diagramscene/pkg/errors"
	"github.com/deckdown/diagramscene/pkg/pipeline"
	"github.com/deckdown/diagramscene/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "diagramscene"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Out receives user-facing output; logs go to the logger.
	Out io.Writer
}

// New creates a new CLI instance with a default logger writing to w.
// User-facing output goes to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "diagramscene lays out text diagrams as positioned scenes",
		Long:         `diagramscene turns Mermaid-style diagram text (flowcharts, sequence, pie, gantt, class, state, ER, mindmap and timeline diagrams) into positioned shapes and connectors, and renders them as SVG, JSON, DOT, PNG or PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.detectCommand())
	root.AddCommand(c.extractCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.themeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/diagramscene/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// buildFlags are the pipeline flags shared by render, batch and inspect.
type buildFlags struct {
	kind     string
	theme    string
	fallback bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.kind, "kind", "k", "", "diagram kind, overrides detection (flowchart, sequence, pie, ...)")
	cmd.Flags().StringVar(&f.theme, "theme", "", "layout theme file (TOML, see 'theme dump')")
	cmd.Flags().BoolVar(&f.fallback, "fallback", false, "draw a placeholder for diagrams without entities")
}

// options returns pipeline options for the flags.
func (f *buildFlags) options() pipeline.Options {
	return pipeline.Options{
		FallbackOnEmpty: f.fallback,
		ThemePath:       f.theme,
	}
}

// readInput reads one diagram from path, or from stdin when path is "-".
// A Markdown file yields its first diagram block.
func readInput(path, hint string, stdin io.Reader) (pipeline.Input, error) {
	if path == "-" {
		data, err := io.ReadAll(io.LimitReader(stdin, pipeline.MaxInputBytes+1))
		if err != nil {
			return pipeline.Input{}, err
		}
		return pipeline.Input{Hint: hint, Text: string(data)}, nil
	}

	blocks, err := source.Load(path)
	if err != nil {
		return pipeline.Input{}, err
	}
	if len(blocks) == 0 {
		return pipeline.Input{}, errs.New(errs.ErrCodeInvalidInput, "%s contains no diagram blocks", path)
	}
	in := blockInput(blocks[0])
	if hint != "" {
		in.Hint = hint
	}
	return in, nil
}

func blockInput(b source.Block) pipeline.Input {
	return pipeline.Input{Hint: b.Hint, Text: b.Text, Name: b.Name}
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
