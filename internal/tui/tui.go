// Package tui is an interactive browser over a filesystem.Tree.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brettbedarf/fstree/filesystem"
)

// Run opens the browser on tree and blocks until the user quits
func Run(ctx context.Context, tree *filesystem.Tree) error {
	m := newModel(ctx, tree)
	defer m.close()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
