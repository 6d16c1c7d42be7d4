// Package pipeline turns diagram text into a positioned scene and renders it.
//
// The core is [Build], a pure function running the five stages in order:
//
//  1. Detect: classify the text by its first meaningful line
//  2. Parse: build the per-kind model
//  3. Layout: assign coordinates to every entity
//  4. Route: connect related entities
//  5. Assemble: order, number and anchor everything into a [scene.Scene]
//
// Build never fails. Unknown text yields a fallback placeholder, and so
// does a recognized diagram with no entities when [Options.FallbackOnEmpty]
// is set.
//
// [Runner] wraps Build with caching, logging and rendering for the CLI and
// the HTTP server:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Input{Text: text}, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/deckdown/diagramscene/pkg/cache"
	"github.com/deckdown/diagramscene/pkg/diagram"
	errs "github.com/deckdown/diagramscene/pkg/errors"
	"github.com/deckdown/diagramscene/pkg/layout"
	"github.com/deckdown/diagramscene/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultConcurrency bounds parallel builds in [Runner.BuildAll].
	DefaultConcurrency = 4

	// MaxInputBytes caps diagram text accepted by the outer surfaces.
	MaxInputBytes = 1 << 20
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"

	// FormatDOTSVG is the Graphviz-laid-out node-link view as SVG.
	FormatDOTSVG = "dot.svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,

	FormatDOTSVG: true,
}

// =============================================================================
// Input, Options and Result
// =============================================================================

// Input is one diagram to build.
type Input struct {
	// Hint names the diagram kind ("flowchart", "sequenceDiagram", "er",
	// ...). When set it overrides detection.
	Hint string `json:"kind,omitempty"`
	// Text is the raw diagram source.
	Text string `json:"text"`
	// Name identifies the input in logs, e.g. "README.md#2".
	Name string `json:"name,omitempty"`
}

// Options configures building and rendering. It supports JSON for API
// requests.
type Options struct {
	// Build options
	FallbackOnEmpty bool `json:"fallback,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Refresh skips cache reads but still writes results.
	Refresh bool `json:"refresh,omitempty"`

	// Concurrency bounds BuildAll; zero means DefaultConcurrency.
	Concurrency int `json:"-"`

	// Runtime options (not serialized)
	Theme     *layout.Theme `json:"-"`
	ThemePath string        `json:"-"`
	Logger    *log.Logger   `json:"-"`

	themeHash string
	validated bool
}

// Result holds the outputs of one pipeline run.
type Result struct {
	Input     Input
	Scene     *scene.Scene
	SceneHash string
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timing and size information.
type Stats struct {
	Shapes     int
	Connectors int
	Fallback   bool
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	SceneHit  bool
	RenderHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, dot, dot.svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateHint checks that a non-empty kind hint names a known kind.
func ValidateHint(hint string) error {
	if strings.TrimSpace(hint) == "" {
		return nil
	}
	if diagram.ParseKind(hint) == diagram.Unknown {
		names := make([]string, 0, len(diagram.Kinds()))
		for _, k := range diagram.Kinds() {
			names = append(names, k.String())
		}
		return errs.New(errs.ErrCodeInvalidKind, "invalid kind: %q (must be one of: %s)", hint, strings.Join(names, ", "))
	}
	return nil
}

// ValidateInput checks an input received from outside the process.
func ValidateInput(in Input) error {
	if err := errs.ValidateText(in.Text, MaxInputBytes); err != nil {
		return err
	}
	if err := errs.ValidateName(in.Name); err != nil {
		return err
	}
	return ValidateHint(in.Hint)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks options and applies defaults. It loads
// ThemePath when Theme is unset. Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Theme == nil && o.ThemePath != "" {
		t, err := layout.LoadTheme(o.ThemePath)
		if errors.Is(err, fs.ErrNotExist) {
			return errs.Wrap(errs.ErrCodeFileNotFound, err, "theme %s", o.ThemePath)
		}
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidTheme, err, "theme %s", o.ThemePath)
		}
		o.Theme = t
	}
	if o.Theme == nil {
		o.Theme = layout.DefaultTheme()
	} else if err := o.Theme.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidTheme, err, "invalid theme")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.themeHash = hashTheme(o.Theme)
	o.validated = true
	return nil
}

// SceneKeyOpts returns cache key options for the scene built from in.
func (o *Options) SceneKeyOpts(in Input) cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Hint:            diagram.ParseKind(in.Hint).String(),
		ThemeHash:       o.themeHash,
		FallbackOnEmpty: o.FallbackOnEmpty,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG:
		opts.Scale = o.Scale
	case FormatDOT:
		opts.Detailed = o.Detailed
	}
	return opts
}

// hashTheme hashes the theme's TOML encoding; the default theme hashes to
// the empty string so default keys stay short and stable.
func hashTheme(t *layout.Theme) string {
	var buf, def bytes.Buffer
	if err := t.Encode(&buf); err != nil {
		return ""
	}
	_ = layout.DefaultTheme().Encode(&def)
	if bytes.Equal(buf.Bytes(), def.Bytes()) {
		return ""
	}
	return cache.Hash(buf.Bytes())
}
