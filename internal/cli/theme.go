package cli

import (
	"github.com/spf13/cobra"

	"github.com/deckdown/diagramscene/pkg/layout"
)

// themeCommand creates the theme command.
func (c *CLI) themeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Work with layout themes",
	}
	cmd.AddCommand(c.themeDumpCommand())
	cmd.AddCommand(c.themeCheckCommand())
	return cmd
}

// themeDumpCommand prints the default theme, a starting point for --theme.
func (c *CLI) themeDumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the default theme as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return layout.DefaultTheme().Encode(c.Out)
		},
	}
}

// themeCheckCommand loads and validates a theme file.
func (c *CLI) themeCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a theme file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := buildFlags{theme: args[0]}
			opts := flags.options()
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			c.printSuccess("Theme %s is valid", args[0])
			return nil
		},
	}
}
