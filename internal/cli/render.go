package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/deckdown/diagramscene/pkg/errors"
	"github.com/deckdown/diagramscene/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	buildFlags
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats: "svg", "json", "dot", "png", "pdf"
	scale    float64  // PNG resolution multiplier
	detailed bool     // include members and attributes in DOT output
	noCache  bool     // bypass the scene cache
	refresh  bool     // recompute and overwrite cached entries
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a diagram to SVG, JSON, DOT, PNG or PDF",
		Long: `Render a diagram file. Markdown files render their first diagram block;
use 'batch' for all of them. Pass - to read the diagram from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], cmd.InOrStdin(), &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, dot.svg, png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show members and attributes (dot)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the scene cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached results")

	return cmd
}

// runRender builds the diagram in input and writes one file per format.
// Reading stdin with a single format and no -o writes the artifact to
// stdout.
func (c *CLI) runRender(ctx context.Context, input string, stdin io.Reader, opts *renderOpts) error {
	in, err := readInput(input, opts.kind, stdin)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	po := opts.options()
	po.Formats = opts.formats
	po.Scale = opts.scale
	po.Detailed = opts.detailed
	po.Refresh = opts.refresh

	res, err := runner.Execute(ctx, in, po)
	if err != nil {
		return err
	}

	if input == "-" && opts.output == "" && len(opts.formats) == 1 {
		_, err := c.Out.Write(res.Artifacts[opts.formats[0]])
		return err
	}

	c.printStats(res.Scene.Kind, res.Stats.Shapes, res.Stats.Connectors, res.Stats.Fallback, res.CacheInfo.SceneHit)
	paths := outputPaths(opts.output, input, opts.formats)
	for _, format := range opts.formats {
		if err := writeArtifact(paths[format], res.Artifacts[format]); err != nil {
			return err
		}
		c.printFile(paths[format])
	}
	return nil
}

// outputPaths maps each format to its output file. A single format uses
// output as given; multiple formats share output as a base path.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "diagram"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if strings.HasSuffix(output, "."+pipeline.FormatDOTSVG) {
		return strings.TrimSuffix(output, "."+pipeline.FormatDOTSVG)
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifact writes data to path, creating parent directories.
func writeArtifact(path string, data []byte) error {
	if err := errs.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
