package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/fstree/requests"
)

func newApplyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "apply FILE",
		Short: "Apply a batch of mutations from a YAML or JSON file",
		Long: `Apply a batch of mutations from a YAML or JSON file.

Each entry has a kind (create_file, create_folder, rename, delete, move) and
the fields that kind needs:

  - kind: create_folder
    name: assets
  - kind: move
    sources: [logo.png]
    target: assets
  - kind: rename
    source: notes.txt
    name: NOTES.md

Paths are relative to the root unless absolute. Every entry is attempted;
failures are reported by entry id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			intents, err := requests.UnmarshalIntents(args[0], data)
			if err != nil {
				return writeErr(cmd, err)
			}

			tree, err := app.open()
			if err != nil {
				return writeErr(cmd, err)
			}
			defer tree.Close()

			failed := requests.ApplyAll(cmd.Context(), tree.Tree, intents)
			if len(failed) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d\n", len(intents))
				return nil
			}

			ids := make([]string, 0, len(failed))
			for id := range failed {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", id, failed[id])
			}
			return writeErr(cmd, fmt.Errorf("%d of %d failed", len(failed), len(intents)))
		},
	}
}
