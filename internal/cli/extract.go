package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/deckdown/diagramscene/pkg/diagram"
	"github.com/deckdown/diagramscene/pkg/source"
)

// extractCommand creates the extract command.
func (c *CLI) extractCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "extract [doc.md]...",
		Short: "List the diagram blocks of Markdown documents",
		Long: "List the fenced diagram blocks (```mermaid, ```flowchart, ...) of Markdown documents.\n" +
			"With --dir each block is also written to its own .mmd file.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var blocks []source.Block
			for _, path := range args {
				bs, err := source.Load(path)
				if err != nil {
					return err
				}
				blocks = append(blocks, bs...)
			}
			if len(blocks) == 0 {
				c.printInfo("No diagram blocks found")
				return nil
			}
			fmt.Fprintln(c.Out, blockTable(blocks))

			if dir == "" {
				c.printNextStep("Render them all", appName+" batch "+strings.Join(args, " "))
				return nil
			}
			for _, b := range blocks {
				path := filepath.Join(dir, blockFileName(b.Name, "mmd"))
				if err := writeArtifact(path, []byte(b.Text)); err != nil {
					return err
				}
				c.printFile(path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "write each block to a .mmd file in this directory")
	return cmd
}

// blockTable renders one row per block.
func blockTable(blocks []source.Block) string {
	rows := make([][]string, 0, len(blocks))
	for _, b := range blocks {
		src := diagram.Split(b.Text, b.Hint)
		first := src.First
		if len(first) > 40 {
			first = first[:37] + "..."
		}
		rows = append(rows, []string{b.Name, fmt.Sprint(b.Line), src.Kind.String(), first})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Block", "Line", "Kind", "First line").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 2 && rows[row][2] == diagram.Unknown.String():
				return lipgloss.NewStyle().Foreground(colorYellow)
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// blockFileName turns a block name such as "docs/README.md#2" into a flat
// file name such as "README-2.svg".
func blockFileName(name, ext string) string {
	base := filepath.Base(name)
	stem, idx, found := strings.Cut(base, "#")
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	if found {
		stem += "-" + idx
	}
	return stem + "." + ext
}
