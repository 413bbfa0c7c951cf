package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brettbedarf/fstree/config"
	"github.com/brettbedarf/fstree/filesystem"
)

func newTestModel(t *testing.T, root string) (model, *filesystem.Tree) {
	t.Helper()
	storage := memfs.New()
	require.NoError(t, storage.MkdirAll("/proj/src/pkg", 0o755))
	require.NoError(t, util.WriteFile(storage, "/proj/README.md", nil, 0o644))
	require.NoError(t, util.WriteFile(storage, "/proj/src/main.go", nil, 0o644))

	cfg := config.NewDefaultConfig()
	cfg.RootPath = root
	tree := filesystem.NewTree(cfg, storage, nil)
	m := newModel(context.Background(), tree)
	t.Cleanup(m.close)
	return m, tree
}

func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

// drain feeds every pending invalidation back into the model
func drain(t *testing.T, m model) model {
	t.Helper()
	for len(m.events) > 0 {
		next, _ := m.Update(m.waitForEvent())
		m = next.(model)
	}
	return m
}

func rowNames(m model) []string {
	out := make([]string, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r.node.String())
	}
	return out
}

func TestModel_InitialRows(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, "/proj")

	assert.Equal(t, []string{"src(directory)", "README.md(file)"}, rowNames(m))
	assert.Equal(t, 0, m.cursor)
	view := m.View()
	assert.Contains(t, view, "/proj")
	assert.Contains(t, view, "README.md")
}

func TestModel_NoRoot(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, "")

	assert.Empty(t, m.rows)
	assert.Contains(t, m.View(), "No root configured")
	assert.Nil(t, m.selected())
}

func TestModel_ExpandCollapse(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, "/proj")

	m = press(t, m, "enter")
	assert.Equal(t, []string{"src(directory)", "pkg(directory)", "main.go(file)", "README.md(file)"}, rowNames(m))
	assert.Equal(t, 1, m.rows[1].depth)

	// collapse from a child moves to its parent first
	m = press(t, m, "down", "down", "left")
	assert.Equal(t, "src", m.selected().Name())
	m = press(t, m, "left")
	assert.Equal(t, []string{"src(directory)", "README.md(file)"}, rowNames(m))
}

func TestModel_OpenFile(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, "/proj")

	m = press(t, m, "down", "enter")

	assert.Equal(t, "open /proj/README.md", m.status)
	assert.Len(t, m.rows, 2)
}

func TestModel_DeleteConfirm(t *testing.T) {
	t.Parallel()

	m, tree := newTestModel(t, "/proj")

	m = press(t, m, "down", "d")
	require.NotNil(t, m.confirm)
	assert.Contains(t, m.View(), "Delete /proj/README.md?")

	m = press(t, m, "n")
	assert.Nil(t, m.confirm)
	assert.Equal(t, "delete cancelled", m.status)
	_, err := tree.Storage().Stat("/proj/README.md")
	require.NoError(t, err)

	m = press(t, m, "d", "y")
	m = drain(t, m)
	assert.Equal(t, "deleted /proj/README.md", m.status)
	assert.Equal(t, []string{"src(directory)"}, rowNames(m))
	assert.Equal(t, 0, m.cursor, "cursor clamped to remaining rows")
}

func TestModel_ExternalMutationRelists(t *testing.T) {
	t.Parallel()

	m, tree := newTestModel(t, "/proj")
	m = press(t, m, "enter")
	src := m.rows[0].node

	require.NoError(t, tree.CreateFile(context.Background(), "util.go", src))
	assert.NotContains(t, rowNames(m), "util.go(file)", "stale until the event is handled")

	m = drain(t, m)
	assert.Contains(t, rowNames(m), "util.go(file)")
}

func TestModel_CreateExpandsTarget(t *testing.T) {
	t.Parallel()

	m, tree := newTestModel(t, "/proj")
	src := m.rows[0].node

	require.NoError(t, tree.CreateFolder(context.Background(), "cmd", src))
	m = drain(t, m)

	assert.True(t, m.expanded["/proj/src"])
	assert.Contains(t, rowNames(m), "cmd(directory)")
}

func TestModel_DeletedDirectoryForgetsChildren(t *testing.T) {
	t.Parallel()

	m, tree := newTestModel(t, "/proj")
	storage := tree.Storage()
	require.NoError(t, util.WriteFile(storage, "/proj/src/pkg/old.go", nil, 0o644))

	m = press(t, m, "enter", "down", "enter")
	require.Contains(t, rowNames(m), "old.go(file)")
	pkg := m.rows[1].node
	require.Equal(t, "/proj/src/pkg", pkg.Path())

	require.NoError(t, tree.Delete(context.Background(), pkg))
	m = drain(t, m)
	assert.NotContains(t, m.listings, "/proj/src/pkg")
	assert.False(t, m.expanded["/proj/src/pkg"])
	assert.True(t, m.expanded["/proj/src"], "surviving directories stay expanded")

	// a same-named directory shows up collapsed with its own entries
	require.NoError(t, util.WriteFile(storage, "/proj/src/pkg/new.go", nil, 0o644))
	tree.Refresh(m.rows[0].node)
	m = drain(t, m)
	assert.Equal(t, []string{"src(directory)", "pkg(directory)", "main.go(file)", "README.md(file)"}, rowNames(m))

	m.selectPath("/proj/src/pkg")
	m = press(t, m, "enter")
	assert.Contains(t, rowNames(m), "new.go(file)")
	assert.NotContains(t, rowNames(m), "old.go(file)")
}

func TestModel_DeletedRootDirectoryForgetsChildren(t *testing.T) {
	t.Parallel()

	m, tree := newTestModel(t, "/proj")
	m = press(t, m, "enter")
	require.Contains(t, m.listings, "/proj/src")

	require.NoError(t, tree.Delete(context.Background(), m.rows[0].node))
	m = drain(t, m)

	assert.NotContains(t, m.listings, "/proj/src")
	assert.False(t, m.expanded["/proj/src"])
	assert.Equal(t, []string{"README.md(file)"}, rowNames(m))
}

func TestModel_RefreshKey(t *testing.T) {
	t.Parallel()

	m, tree := newTestModel(t, "/proj")
	require.NoError(t, util.WriteFile(tree.Storage(), "/proj/LICENSE", nil, 0o644))

	// refreshing a root-level file re-lists the root
	m = press(t, m, "down", "r")
	m = drain(t, m)

	assert.Contains(t, rowNames(m), "LICENSE(file)")
}

func TestModel_Window(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, "/proj")
	m = press(t, m, "enter")
	next, _ := m.Update(tea.WindowSizeMsg{Height: 6, Width: 80})
	m = next.(model)

	start, end := m.window()
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)

	m = press(t, m, "down", "down", "down")
	start, end = m.window()
	assert.Equal(t, 2, start)
	assert.Equal(t, 4, end)
}
