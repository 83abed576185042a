// Package panel implements one directory pane of the dual-pane layout:
// a scrollable listing with a cursor, hidden-file filtering, and
// directories-first ordering.
package panel

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kmatyas/twopane/internal/ui/styles"
)

// Item is one row of a panel listing.
type Item struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

// Hidden reports whether the item is hidden by dotfile convention.
func (i Item) Hidden() bool {
	return strings.HasPrefix(i.Name, ".")
}

// Model holds one pane's state.
type Model struct {
	path       string
	items      []Item
	cursor     int
	offset     int
	width      int
	height     int
	focused    bool
	showHidden bool
	loadErr    error
}

// New creates a pane rooted at path. The listing is loaded lazily via Load.
func New(path string, showHidden bool) Model {
	return Model{path: path, showHidden: showHidden}
}

// Load reads the directory listing. A previously selected name is kept
// under the cursor when it survives the reload.
func (m Model) Load() Model {
	keep := ""
	if item, ok := m.Selected(); ok {
		keep = item.Name
	}

	entries, err := os.ReadDir(m.path)
	if err != nil {
		m.items = nil
		m.cursor = 0
		m.offset = 0
		m.loadErr = err
		return m
	}
	m.loadErr = nil

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		item := Item{
			Name:  entry.Name(),
			Path:  filepath.Join(m.path, entry.Name()),
			IsDir: entry.IsDir(),
			Size:  -1,
		}
		if !m.showHidden && item.Hidden() {
			continue
		}
		if !item.IsDir {
			if info, err := entry.Info(); err == nil {
				item.Size = info.Size()
			}
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsDir != items[j].IsDir {
			return items[i].IsDir
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})

	m.items = items
	m.cursor = 0
	m.offset = 0
	if keep != "" {
		for i, item := range items {
			if item.Name == keep {
				m.cursor = i
				break
			}
		}
	}
	return m.clampScroll()
}

// Path returns the directory this pane lists.
func (m Model) Path() string { return m.path }

// Err returns the last listing failure, if any.
func (m Model) Err() error { return m.loadErr }

// Items returns the visible listing.
func (m Model) Items() []Item { return m.items }

// Selected returns the item under the cursor.
func (m Model) Selected() (Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return Item{}, false
	}
	return m.items[m.cursor], true
}

// SetSize sets the pane's outer dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m.clampScroll()
}

// SetFocused toggles the focus highlight.
func (m Model) SetFocused(focused bool) Model {
	m.focused = focused
	return m
}

// Focused reports whether this pane has focus.
func (m Model) Focused() bool { return m.focused }

// SetShowHidden changes dotfile visibility. Callers reload afterwards.
func (m Model) SetShowHidden(show bool) Model {
	m.showHidden = show
	return m
}

// ShowHidden reports the current dotfile visibility.
func (m Model) ShowHidden() bool { return m.showHidden }

// MoveUp moves the cursor up one row.
func (m Model) MoveUp() Model {
	if m.cursor > 0 {
		m.cursor--
	}
	return m.clampScroll()
}

// MoveDown moves the cursor down one row.
func (m Model) MoveDown() Model {
	if m.cursor < len(m.items)-1 {
		m.cursor++
	}
	return m.clampScroll()
}

// PageUp moves the cursor up one page.
func (m Model) PageUp() Model {
	m.cursor -= m.pageSize()
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m.clampScroll()
}

// PageDown moves the cursor down one page.
func (m Model) PageDown() Model {
	m.cursor += m.pageSize()
	if m.cursor > len(m.items)-1 {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m.clampScroll()
}

// MoveTop jumps to the first row.
func (m Model) MoveTop() Model {
	m.cursor = 0
	return m.clampScroll()
}

// MoveBottom jumps to the last row.
func (m Model) MoveBottom() Model {
	if len(m.items) > 0 {
		m.cursor = len(m.items) - 1
	}
	return m.clampScroll()
}

// Descend enters the selected directory. Returns the unchanged model when
// the selection is not a directory.
func (m Model) Descend() Model {
	item, ok := m.Selected()
	if !ok || !item.IsDir {
		return m
	}
	m.path = item.Path
	return m.Load()
}

// Ascend moves to the parent directory.
func (m Model) Ascend() Model {
	parent := filepath.Dir(m.path)
	if parent == m.path {
		return m
	}
	m.path = parent
	return m.Load()
}

func (m Model) pageSize() int {
	rows := m.listHeight()
	if rows < 1 {
		return 1
	}
	return rows
}

// listHeight is the number of listing rows inside the border and title.
func (m Model) listHeight() int {
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) clampScroll() Model {
	rows := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
	return m
}

// View renders the pane.
func (m Model) View() string {
	innerWidth := m.width - 2
	if innerWidth < 4 {
		innerWidth = 4
	}

	title := styles.PanelTitleStyle.Render(styles.TruncateString(m.path, innerWidth-2))

	var rows []string
	if m.loadErr != nil {
		rows = append(rows, styles.ErrorStyle.Render("cannot read directory"))
	} else {
		last := m.offset + m.listHeight()
		if last > len(m.items) {
			last = len(m.items)
		}
		for i := m.offset; i < last; i++ {
			rows = append(rows, m.renderRow(i, innerWidth))
		}
	}

	body := title + "\n" + strings.Join(rows, "\n")

	frame := styles.PanelStyle
	if m.focused {
		frame = styles.PanelFocusedStyle
	}
	return frame.Width(innerWidth).Height(m.height - 2).Render(body)
}

func (m Model) renderRow(i, width int) string {
	item := m.items[i]

	size := styles.FormatSize(item.Size)
	nameWidth := width - lipgloss.Width(size) - 3
	if nameWidth < 1 {
		nameWidth = 1
	}
	name := styles.TruncateString(item.Name, nameWidth)
	line := fmt.Sprintf(" %-*s %s", nameWidth, name, size)

	if i == m.cursor && m.focused {
		return styles.SelectedRowStyle.Render(line)
	}
	switch {
	case item.IsDir:
		return styles.DirectoryStyle.Render(line)
	case item.Hidden():
		return styles.HiddenStyle.Render(line)
	case isExecutableName(item.Name):
		return styles.ExecutableStyle.Render(line)
	default:
		return line
	}
}

func isExecutableName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".exe", ".bat", ".cmd", ".sh", ".app":
		return true
	default:
		return false
	}
}
