package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/brettbedarf/fstree/filesystem"
	"github.com/brettbedarf/fstree/internal/util"
)

// rootKey is the listing cache key of the root
const rootKey = ""

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5f9fb0"))
	dirStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c757d"))
	warnStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d16d7a"))
)

// row is one visible line of the tree
type row struct {
	node  *filesystem.Node
	depth int
}

// eventMsg carries a tree invalidation into the update loop
type eventMsg filesystem.Event

type model struct {
	ctx  context.Context
	tree *filesystem.Tree

	events chan filesystem.Event
	subID  uuid.UUID

	// listings caches Children results by directory path until invalidated
	listings map[string][]*filesystem.Node
	expanded map[string]bool
	rows     []row
	cursor   int

	confirm *filesystem.Node // pending delete awaiting y/n
	status  string
	height  int
}

func newModel(ctx context.Context, tree *filesystem.Tree) model {
	m := model{
		ctx:      ctx,
		tree:     tree,
		events:   make(chan filesystem.Event, 64),
		listings: map[string][]*filesystem.Node{},
		expanded: map[string]bool{},
	}
	events := m.events
	m.subID = tree.Subscribe(func(ev filesystem.Event) {
		select {
		case events <- ev:
		default:
			// a full buffer already holds pending redraws
			util.GetLogger("tui").Warn().Str("op", ev.Op).Msg("Dropped invalidation")
		}
	})
	m.rebuild()
	return m
}

func (m model) close() {
	m.tree.Unsubscribe(m.subID)
}

func (m model) waitForEvent() tea.Msg {
	return eventMsg(<-m.events)
}

func (m model) Init() tea.Cmd {
	return m.waitForEvent
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case eventMsg:
		m.invalidate(filesystem.Event(msg))
		return m, m.waitForEvent

	case tea.KeyMsg:
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "enter", " ", "right", "l":
		node := m.selected()
		if node == nil {
			break
		}
		if node.Activation() == filesystem.ActivateOpen {
			m.status = "open " + node.Path()
			break
		}
		m.expanded[node.Path()] = !m.expanded[node.Path()]
		m.rebuild()
	case "left", "h":
		node := m.selected()
		if node == nil {
			break
		}
		if node.IsDir() && m.expanded[node.Path()] {
			m.expanded[node.Path()] = false
			m.rebuild()
		} else if parent := node.Parent(); parent != nil {
			m.selectPath(parent.Path())
		}
	case "r":
		m.status = ""
		m.tree.Refresh(m.selected())
	case "R":
		m.status = ""
		m.listings = map[string][]*filesystem.Node{}
		m.rebuild()
	case "d":
		if node := m.selected(); node != nil {
			m.confirm = node
		}
	}
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	node := m.confirm
	m.confirm = nil
	switch msg.String() {
	case "y", "Y":
		if err := m.tree.Delete(m.ctx, node); err != nil {
			m.status = err.Error()
		} else {
			m.status = "deleted " + node.Path()
		}
	default:
		m.status = "delete cancelled"
	}
	return m, nil
}

// invalidate drops the cached listings named by ev and redraws
func (m *model) invalidate(ev filesystem.Event) {
	switch ev.Scope {
	case filesystem.ScopeNode:
		m.relist(ev.Node.Path(), ev.Node.Path(), ev.Node)
		if ev.Expand {
			m.expanded[ev.Node.Path()] = true
		}
	case filesystem.ScopeRoot:
		root, _ := m.tree.RootPath()
		m.relist(rootKey, root, nil)
	default:
		m.listings = map[string][]*filesystem.Node{}
	}
	m.rebuild()
}

// relist re-reads dir and forgets the listings and expansion state cached
// under entries of dir that are gone, so a same-named entry created later
// starts fresh
func (m *model) relist(key, dir string, node *filesystem.Node) {
	children := m.tree.Children(m.ctx, node)
	m.listings[key] = children

	live := make(map[string]bool, len(children))
	for _, child := range children {
		live[child.Path()] = true
	}
	gone := func(p string) bool {
		rel, err := filepath.Rel(dir, p)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return false
		}
		top, _, _ := strings.Cut(rel, string(filepath.Separator))
		return !live[filepath.Join(dir, top)]
	}
	for p := range m.listings {
		if p != rootKey && gone(p) {
			delete(m.listings, p)
		}
	}
	for p := range m.expanded {
		if gone(p) {
			delete(m.expanded, p)
		}
	}
}

// rebuild flattens the expanded tree into rows, listing only directories
// that have no cached listing
func (m *model) rebuild() {
	var selected string
	if node := m.selected(); node != nil {
		selected = node.Path()
	}

	m.rows = m.rows[:0]
	m.appendRows(nil, 0)

	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	if selected != "" {
		m.selectPath(selected)
	}
}

func (m *model) appendRows(dir *filesystem.Node, depth int) {
	key := rootKey
	if dir != nil {
		key = dir.Path()
	}
	children, ok := m.listings[key]
	if !ok {
		children = m.tree.Children(m.ctx, dir)
		m.listings[key] = children
	}
	for _, child := range children {
		m.rows = append(m.rows, row{node: child, depth: depth})
		if child.Expandable() && m.expanded[child.Path()] {
			m.appendRows(child, depth+1)
		}
	}
}

func (m *model) selectPath(p string) {
	for i, r := range m.rows {
		if r.node.Path() == p {
			m.cursor = i
			return
		}
	}
}

func (m model) selected() *filesystem.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

func (m model) View() string {
	var b strings.Builder

	root, ok := m.tree.RootPath()
	if !ok {
		b.WriteString(warnStyle.Render("No root configured. Set one with `fstree root PATH`."))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("q quit"))
		return b.String()
	}
	b.WriteString(headerStyle.Render(root))
	b.WriteString("\n")

	start, end := m.window()
	if len(m.rows) == 0 {
		b.WriteString(mutedStyle.Render("  (empty)"))
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.confirm != nil:
		b.WriteString(warnStyle.Render(fmt.Sprintf("Delete %s? There is no undo. (y/n)", m.confirm.Path())))
	case m.status != "":
		b.WriteString(m.status)
	default:
		b.WriteString(mutedStyle.Render("↑/↓ move  enter open/toggle  ← collapse  r refresh  d delete  q quit"))
	}
	return b.String()
}

func (m model) renderRow(i int) string {
	r := m.rows[i]
	indent := strings.Repeat("  ", r.depth)

	var line string
	if r.node.IsDir() {
		marker := "▸ "
		if m.expanded[r.node.Path()] {
			marker = "▾ "
		}
		line = indent + marker + dirStyle.Render(r.node.Name())
	} else {
		line = indent + "  " + r.node.Name()
	}
	if i == m.cursor {
		return selectedStyle.Render(line)
	}
	return line
}

// window returns the row range that fits the terminal around the cursor
func (m model) window() (int, int) {
	// header and footer lines
	visible := m.height - 4
	if m.height == 0 || visible >= len(m.rows) {
		return 0, len(m.rows)
	}
	visible = max(visible, 1)
	start := max(m.cursor-visible/2, 0)
	end := min(start+visible, len(m.rows))
	return end - visible, end
}
