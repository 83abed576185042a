// Package contextmenu renders the assembled menu actions as a modal list.
// Separators are shown as horizontal rules and skipped by the cursor.
package contextmenu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmatyas/twopane/internal/shell"
	"github.com/kmatyas/twopane/internal/ui/overlay"
	"github.com/kmatyas/twopane/internal/ui/styles"
)

const defaultBoxWidth = 34

// Model holds the context-menu overlay state.
type Model struct {
	title          string
	actions        []shell.MenuAction
	selected       int
	boxWidth       int
	viewportWidth  int
	viewportHeight int
}

// New creates a menu for the given target name and actions. The cursor
// starts on the first selectable row.
func New(title string, actions []shell.MenuAction) Model {
	m := Model{
		title:    title,
		actions:  actions,
		boxWidth: defaultBoxWidth,
	}
	m.selected = m.nextSelectable(-1, 1)
	return m
}

// SetSize sets the viewport dimensions for overlay rendering.
func (m Model) SetSize(width, height int) Model {
	m.viewportWidth = width
	m.viewportHeight = height
	return m
}

// Selected returns the action under the cursor.
func (m Model) Selected() (shell.MenuAction, bool) {
	if m.selected < 0 || m.selected >= len(m.actions) {
		return shell.MenuAction{}, false
	}
	action := m.actions[m.selected]
	if action.Separator {
		return shell.MenuAction{}, false
	}
	return action, true
}

// Empty reports whether the menu has no selectable actions.
func (m Model) Empty() bool {
	return m.nextSelectable(-1, 1) == -1
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down", "ctrl+n":
			if next := m.nextSelectable(m.selected, 1); next != -1 {
				m.selected = next
			}
		case "k", "up", "ctrl+p":
			if prev := m.nextSelectable(m.selected, -1); prev != -1 {
				m.selected = prev
			}
		}
	}
	return m, nil
}

// nextSelectable walks from index in the given direction to the nearest
// non-separator row, or -1 when none exists.
func (m Model) nextSelectable(from, direction int) int {
	for i := from + direction; i >= 0 && i < len(m.actions); i += direction {
		if !m.actions[i].Separator {
			return i
		}
	}
	return -1
}

// View renders the menu box (without positioning).
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)

	width := m.boxWidth

	var rows strings.Builder
	for i, action := range m.actions {
		if i > 0 {
			rows.WriteString("\n")
		}
		if action.Separator {
			rows.WriteString(styles.SeparatorStyle.Render(strings.Repeat("─", width)))
			continue
		}

		label := styles.TruncateString(action.Text, width-3)
		if i == m.selected {
			rows.WriteString(styles.SelectionIndicatorStyle.Render(">") +
				lipgloss.NewStyle().Bold(true).Render(" "+label))
		} else {
			rows.WriteString("  " + label)
		}
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width)

	dividerStyle := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", width))

	content := titleStyle.Render(m.title) + "\n" + divider + "\n" + rows.String()
	return boxStyle.Render(content)
}

// Overlay renders the menu on top of a background view.
func (m Model) Overlay(background string) string {
	box := m.View()

	if background == "" {
		return lipgloss.Place(
			m.viewportWidth, m.viewportHeight,
			lipgloss.Center, lipgloss.Center,
			box,
		)
	}

	return overlay.Place(overlay.Config{
		Width:    m.viewportWidth,
		Height:   m.viewportHeight,
		Position: overlay.Center,
	}, box, background)
}

// CancelMsg is sent when the menu is dismissed.
type CancelMsg struct{}
