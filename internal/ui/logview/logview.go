// Package logview renders the most recent log entries as a modal pane at
// the bottom of the screen, fed by the logger's pubsub fan-out.
package logview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kmatyas/twopane/internal/ui/overlay"
	"github.com/kmatyas/twopane/internal/ui/styles"
)

// maxEntries bounds the retained history; older entries are dropped.
const maxEntries = 200

// Model holds the log-view overlay state.
type Model struct {
	entries        []string
	viewportWidth  int
	viewportHeight int
}

func New() Model {
	return Model{}
}

// Append records one formatted log entry, keeping the newest maxEntries.
func (m Model) Append(entry string) Model {
	entry = strings.TrimRight(entry, "\n")
	if entry == "" {
		return m
	}
	m.entries = append(m.entries, entry)
	if len(m.entries) > maxEntries {
		m.entries = m.entries[len(m.entries)-maxEntries:]
	}
	return m
}

// SetSize sets the viewport dimensions for overlay rendering.
func (m Model) SetSize(width, height int) Model {
	m.viewportWidth = width
	m.viewportHeight = height
	return m
}

// Len returns the number of retained entries.
func (m Model) Len() int {
	return len(m.entries)
}

// View renders the log box (without positioning). Only the newest entries
// that fit in half the viewport are shown.
func (m Model) View() string {
	width := m.viewportWidth - 6
	if width < 40 {
		width = 40
	}
	rows := m.viewportHeight / 2
	if rows < 5 {
		rows = 5
	}

	entries := m.entries
	if len(entries) > rows {
		entries = entries[len(entries)-rows:]
	}

	var lines strings.Builder
	if len(entries) == 0 {
		lines.WriteString("no log entries yet")
	}
	for i, entry := range entries {
		if i > 0 {
			lines.WriteString("\n")
		}
		lines.WriteString(styles.TruncateString(entry, width-2))
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width)

	dividerStyle := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", width))

	content := titleStyle.Render("Log") + "\n" + divider + "\n" + lines.String()
	return boxStyle.Render(content)
}

// Overlay renders the log box at the bottom of a background view.
func (m Model) Overlay(background string) string {
	box := m.View()

	if background == "" {
		return lipgloss.Place(
			m.viewportWidth, m.viewportHeight,
			lipgloss.Center, lipgloss.Bottom,
			box,
		)
	}

	return overlay.Place(overlay.Config{
		Width:    m.viewportWidth,
		Height:   m.viewportHeight,
		Position: overlay.Bottom,
		PadY:     2,
	}, box, background)
}
