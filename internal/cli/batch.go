package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/deckdown/diagramscene/pkg/pipeline"
	"github.com/deckdown/diagramscene/pkg/source"
)

type batchOpts struct {
	buildFlags
	dir         string
	formats     []string
	concurrency int
	noCache     bool
}

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var formatsStr string
	opts := batchOpts{dir: ".", concurrency: pipeline.DefaultConcurrency}

	cmd := &cobra.Command{
		Use:   "batch [file]...",
		Short: "Render every diagram of one or more files in parallel",
		Long: `Render every diagram block of Markdown documents (and any standalone
diagram files) in parallel. Output files are named after the block, e.g.
README-2.svg for the second diagram of README.md.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runBatch(cmd.Context(), args, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.dir, "output", "o", opts.dir, "output directory")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, dot.svg, png, pdf (comma-separated)")
	cmd.Flags().IntVarP(&opts.concurrency, "jobs", "j", opts.concurrency, "diagrams rendered in parallel")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the scene cache")

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, paths []string, opts *batchOpts) error {
	var blocks []source.Block
	for _, path := range paths {
		bs, err := source.Load(path)
		if err != nil {
			return err
		}
		c.Logger.Debug("loaded", "file", path, "blocks", len(bs))
		blocks = append(blocks, bs...)
	}
	if len(blocks) == 0 {
		c.printInfo("No diagram blocks found")
		return nil
	}

	inputs := make([]pipeline.Input, len(blocks))
	for i, b := range blocks {
		inputs[i] = blockInput(b)
		if opts.kind != "" {
			inputs[i].Hint = opts.kind
		}
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	po := opts.options()
	po.Formats = opts.formats
	po.Concurrency = opts.concurrency

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d diagrams...", len(inputs)))
	spinner.Start()
	results, err := runner.BuildAll(ctx, inputs, po)
	if err != nil {
		spinner.StopWithError(c, "Batch failed")
		return err
	}
	spinner.Stop()

	if err := os.MkdirAll(opts.dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", opts.dir, err)
	}
	var cached, fallbacks int
	for _, res := range results {
		if res.CacheInfo.SceneHit {
			cached++
		}
		if res.Stats.Fallback {
			fallbacks++
			c.printWarning("%s: unrecognized diagram, rendered a placeholder", res.Input.Name)
		}
		for _, format := range opts.formats {
			path := filepath.Join(opts.dir, blockFileName(res.Input.Name, format))
			if err := writeArtifact(path, res.Artifacts[format]); err != nil {
				return err
			}
			c.printFile(path)
		}
	}
	prog.done("rendered diagrams", "count", len(results), "cached", cached, "fallbacks", fallbacks)
	c.printSuccess("Rendered %s", plural(len(results), "diagram"))
	return nil
}
