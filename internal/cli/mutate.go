package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/brettbedarf/fstree"
	"github.com/brettbedarf/fstree/filesystem"
	"github.com/brettbedarf/fstree/requests"
)

// apply runs a single intent against a freshly opened tree
func (app *App) apply(cmd *cobra.Command, intent *fstree.Intent) error {
	tree, err := app.open()
	if err != nil {
		return writeErr(cmd, err)
	}
	defer tree.Close()

	intent.ID = uuid.NewString()
	err = requests.Apply(cmd.Context(), tree.Tree, intent)
	var moveErr *filesystem.MoveError
	if errors.As(err, &moveErr) {
		for _, f := range moveErr.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", f.Source, f.Err)
		}
		return err
	}
	if err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

// newCreateCmd builds touch or mkdir
func newCreateCmd(app *App, kind fstree.IntentKind) *cobra.Command {
	var at string

	use, short := "touch NAME", "Create an empty file"
	if kind == fstree.CreateFolderIntent {
		use, short = "mkdir NAME", "Create a folder"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

The entry is created in the directory given by --at, in the directory
containing --at when it names a file, or in the root when --at is omitted.
An existing entry is never overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.apply(cmd, &fstree.Intent{Kind: kind, TargetParentPath: at, Name: args[0]})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Directory (or a file inside it) to create in")
	return cmd
}

func newMvCmd(app *App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "mv SOURCE... [--to PATH]",
		Short: "Move entries into a directory",
		Long: `Move entries into the directory given by --to, or the root when omitted.

Every source is moved independently: one failure does not stop the others.
Sources already in the destination are left alone.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.apply(cmd, &fstree.Intent{Kind: fstree.MoveIntent, SourcePaths: args, TargetParentPath: to})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Destination directory (or a file inside it)")
	return cmd
}

func newRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename PATH NEWNAME",
		Short: "Rename an entry within its directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.apply(cmd, &fstree.Intent{Kind: fstree.RenameIntent, SourcePath: args[0], Name: args[1]})
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm PATH --yes",
		Short: "Delete an entry, recursively for directories",
		Long: `Delete an entry, recursively for directories.

There is no trash and no undo, so --yes is required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, fmt.Errorf("refusing to delete %s without --yes", args[0]))
			}
			return app.apply(cmd, &fstree.Intent{Kind: fstree.DeleteIntent, SourcePath: args[0]})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")
	return cmd
}
