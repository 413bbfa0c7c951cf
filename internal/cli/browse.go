package cli

import (
	"github.com/spf13/cobra"

	"github.com/brettbedarf/fstree/internal/tui"
)

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive tree browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := app.open()
			if err != nil {
				return writeErr(cmd, err)
			}
			defer tree.Close()

			return tui.Run(cmd.Context(), tree.Tree)
		},
	}
}
