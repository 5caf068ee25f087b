package menu

import (
	"github.com/spf13/cobra"

	"github.com/birdayz/morse/pkg/app"
	pkgmenu "github.com/birdayz/morse/pkg/menu"
)

// NewCommand returns the "morse menu" command.
func NewCommand(a *app.App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu",
		Long:  "Start the interactive menu to encode, decode and view the chart. Falls back to a plain numbered menu when stdin is not a terminal.",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = RunE(a, &plain)
	cmd.Flags().BoolVar(&plain, "plain", false, "Use a plain numbered menu instead of the interactive selector")

	return cmd
}

// RunE returns a run function for the menu. plain may be nil.
func RunE(a *app.App, plain *bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		m := &pkgmenu.Menu{
			Prompter: a.Prompter("MORSE CODE CONVERTER", plain != nil && *plain),
			Out:      a.OutWriter,
			Log:      a.Logger.Named("menu"),
		}
		return m.Run(cmd.Context())
	}
}
