// Package openwith provides the "Open with" application picker, fed by the
// discovered-application index.
package openwith

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmatyas/twopane/internal/shell"
	"github.com/kmatyas/twopane/internal/ui/overlay"
	"github.com/kmatyas/twopane/internal/ui/styles"
)

const (
	defaultBoxWidth = 40
	maxVisibleRows  = 12
)

// Model holds the picker state.
type Model struct {
	target         string
	apps           []shell.ApplicationInfo
	selected       int
	offset         int
	boxWidth       int
	viewportWidth  int
	viewportHeight int
}

// New creates a picker for the given target path. Only applications with a
// known executable are offered, sorted by display name.
func New(target string, index map[string]shell.ApplicationInfo) Model {
	apps := make([]shell.ApplicationInfo, 0, len(index))
	for _, app := range index {
		if app.Executable == "" {
			continue
		}
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool {
		return strings.ToLower(apps[i].Name) < strings.ToLower(apps[j].Name)
	})

	return Model{
		target:   target,
		apps:     apps,
		boxWidth: defaultBoxWidth,
	}
}

// SetSize sets the viewport dimensions for overlay rendering.
func (m Model) SetSize(width, height int) Model {
	m.viewportWidth = width
	m.viewportHeight = height
	return m
}

// Empty reports whether no launchable applications were discovered.
func (m Model) Empty() bool { return len(m.apps) == 0 }

// Selected returns the application under the cursor.
func (m Model) Selected() (shell.ApplicationInfo, bool) {
	if m.selected < 0 || m.selected >= len(m.apps) {
		return shell.ApplicationInfo{}, false
	}
	return m.apps[m.selected], true
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down", "ctrl+n":
			if m.selected < len(m.apps)-1 {
				m.selected++
			}
		case "k", "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
		}
	}
	return m.clampScroll(), nil
}

func (m Model) clampScroll() Model {
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+maxVisibleRows {
		m.offset = m.selected - maxVisibleRows + 1
	}
	return m
}

// View renders the picker box (without positioning).
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)
	versionStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)

	width := m.boxWidth

	var rows strings.Builder
	last := m.offset + maxVisibleRows
	if last > len(m.apps) {
		last = len(m.apps)
	}
	for i := m.offset; i < last; i++ {
		app := m.apps[i]
		label := styles.TruncateString(app.Name, width-12)
		line := "  " + label
		if i == m.selected {
			line = styles.SelectionIndicatorStyle.Render(">") +
				lipgloss.NewStyle().Bold(true).Render(" "+label)
		}
		if app.Version != "" {
			line += versionStyle.Render(" " + styles.TruncateString(app.Version, 9))
		}
		rows.WriteString(line)
		if i < last-1 {
			rows.WriteString("\n")
		}
	}
	if len(m.apps) == 0 {
		rows.WriteString(versionStyle.Render("  no applications discovered"))
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width)

	dividerStyle := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", width))

	content := titleStyle.Render("Open with: "+styles.TruncateString(m.target, width-12)) + "\n" +
		divider + "\n" +
		rows.String()
	return boxStyle.Render(content)
}

// Overlay renders the picker on top of a background view.
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

// CancelMsg is sent when the picker is cancelled.
type CancelMsg struct{}
