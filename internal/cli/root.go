// Package cli implements the fstree command line host.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/fstree"
	"github.com/brettbedarf/fstree/config"
	"github.com/brettbedarf/fstree/filesystem"
	"github.com/brettbedarf/fstree/internal/util"
	"github.com/brettbedarf/fstree/server"
)

// App holds the global flags and the loaded configuration
type App struct {
	ConfigPath string
	Verbose    int

	cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "fstree",
		Short:         "Browse and reorganize a directory tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Pick the directory to work in
  fstree root ~/src/project

  # Look around
  fstree ls
  fstree tree src --depth 2

  # Reorganize
  fstree mkdir assets
  fstree mv logo.png icon.svg --to assets
  fstree rm build --yes

  # Interactive browser
  fstree browse
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to a YAML or JSON config file")
	cmd.PersistentFlags().IntVarP(&app.Verbose, "verbose", "v", config.InfoVerbose, "Log verbosity level between 1 (error) and 5 (trace)")

	cmd.AddCommand(newRootPathCmd(app))
	cmd.AddCommand(newLsCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newCreateCmd(app, fstree.CreateFileIntent))
	cmd.AddCommand(newCreateCmd(app, fstree.CreateFolderIntent))
	cmd.AddCommand(newMvCmd(app))
	cmd.AddCommand(newRenameCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newApplyCmd(app))
	cmd.AddCommand(newBrowseCmd(app))

	return cmd
}

// load builds the configuration and the logger. The verbose flag only
// overrides the config file when given explicitly.
func (app *App) load(cmd *cobra.Command) error {
	var err error
	if app.ConfigPath != "" {
		if app.cfg, err = config.NewConfigFromFile(app.ConfigPath); err != nil {
			return writeErr(cmd, err)
		}
	} else {
		app.cfg = config.NewDefaultConfig()
	}
	if cmd.Flags().Changed("verbose") {
		app.cfg.Merge(&config.ConfigOverride{LogLvl: &app.Verbose})
	}

	util.InitializeLoggerTo(cmd.ErrOrStderr(), app.cfg.LogLvl)
	util.GetLogger("cli").Debug().
		Str("config", app.ConfigPath).
		Str("storage", app.cfg.Storage).
		Str("state", app.cfg.StateBackend).
		Msg("Configuration loaded")
	return nil
}

// open builds the tree for one command. Invalidations are only logged since
// a command exits right after its mutation.
func (app *App) open() (*server.FsTree, error) {
	tree, err := fstree.New(app.cfg)
	if err != nil {
		return nil, err
	}
	logger := util.GetLogger("cli")
	tree.Subscribe(func(ev filesystem.Event) {
		e := logger.Debug().Str("op", ev.Op).Stringer("scope", ev.Scope)
		if ev.Node != nil {
			e = e.Str("node", ev.Node.Path())
		}
		e.Msg("Tree invalidated")
	})
	return tree, nil
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
