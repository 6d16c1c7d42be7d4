package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/pipeline"
)

// detectCommand creates the detect command.
func (c *CLI) detectCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "detect [file|-]",
		Short: "Report the kind and contents of a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(args[0], kind, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := pipeline.ValidateInput(in); err != nil {
				return err
			}
			c.printTrace(pipeline.Run(in, pipeline.Options{}))
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "diagram kind, overrides detection")
	return cmd
}

func (c *CLI) printTrace(tr *pipeline.Trace) {
	kind := tr.Model.Kind()
	c.printKeyValue("Kind", fmt.Sprintf("%s (%s)", kind, diagram.StyleFor(kind).Title))
	if tr.Source.Header != "" {
		c.printKeyValue("Header", tr.Source.Header)
	}
	if title := tr.Model.Caption(); title != "" {
		c.printKeyValue("Title", title)
	}
	c.printKeyValue("Lines", fmt.Sprint(len(tr.Source.Lines)))
	c.printKeyValue("Shapes", fmt.Sprint(len(tr.Scene.Shapes)))
	c.printKeyValue("Connectors", fmt.Sprint(len(tr.Scene.Connectors)))
	switch {
	case tr.Fallback:
		c.printWarning("No entities recognized; the scene is a placeholder")
	case tr.Model.Empty():
		c.printWarning("No entities recognized; the scene is empty")
	}
}
