package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/fstree/filesystem"
	"github.com/brettbedarf/fstree/server"
)

var errNoRoot = errors.New("no root configured; set one with `fstree root PATH`")

func newRootPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "root [path]",
		Short: "Show or set the root directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := app.open()
			if err != nil {
				return writeErr(cmd, err)
			}
			defer tree.Close()

			if len(args) == 0 {
				root, ok := tree.RootPath()
				if !ok {
					return writeErr(cmd, errNoRoot)
				}
				fmt.Fprintln(cmd.OutOrStdout(), root)
				return nil
			}

			// a new root comes from the host shell so it is taken from the working dir
			root, err := filepath.Abs(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := tree.SetRootPath(cmd.Context(), root); err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), root)
			return nil
		},
	}
}

func newLsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List a directory, directories first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, node, err := openAt(app, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer tree.Close()

			if node != nil && !node.IsDir() {
				fmt.Fprintln(cmd.OutOrStdout(), entryName(node))
				return nil
			}
			for _, child := range tree.Children(cmd.Context(), node) {
				fmt.Fprintln(cmd.OutOrStdout(), entryName(child))
			}
			return nil
		},
	}
}

func newTreeCmd(app *App) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "tree [path]",
		Short: "Print a directory and its descendants",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, node, err := openAt(app, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer tree.Close()

			if node == nil {
				root, _ := tree.RootPath()
				fmt.Fprintln(cmd.OutOrStdout(), root)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), entryName(node))
				if !node.IsDir() {
					return nil
				}
			}
			printTree(cmd.Context(), cmd.OutOrStdout(), tree, node, 1, depth)
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "Maximum depth to descend, 0 for unlimited")
	return cmd
}

// openAt opens the tree and resolves the optional path argument. No argument
// means the root, which must then be configured.
func openAt(app *App, args []string) (*server.FsTree, *filesystem.Node, error) {
	tree, err := app.open()
	if err != nil {
		return nil, nil, err
	}
	p := ""
	if len(args) > 0 {
		p = args[0]
	}
	if _, ok := tree.RootPath(); !ok && !filepath.IsAbs(p) {
		tree.Close() // nolint:errcheck
		return nil, nil, errNoRoot
	}
	node, err := tree.Lookup(p)
	if err != nil {
		tree.Close() // nolint:errcheck
		return nil, nil, err
	}
	return tree, node, nil
}

func printTree(ctx context.Context, out io.Writer, tree *server.FsTree, node *filesystem.Node, level, depth int) {
	if depth > 0 && level > depth {
		return
	}
	for _, child := range tree.Children(ctx, node) {
		fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", level), entryName(child))
		if child.Expandable() {
			printTree(ctx, out, tree, child, level+1, depth)
		}
	}
}

// entryName marks directories with a trailing slash
func entryName(n *filesystem.Node) string {
	if n.IsDir() {
		return n.Name() + "/"
	}
	return n.Name()
}
