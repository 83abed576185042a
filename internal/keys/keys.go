// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Parent   key.Binding

	// Panes
	SwitchPane key.Binding
	LeftPane   key.Binding
	RightPane  key.Binding

	// Actions
	Enter        key.Binding
	ContextMenu  key.Binding
	OpenWith     key.Binding
	Refresh      key.Binding
	ToggleHidden key.Binding

	// General
	LogView key.Binding
	Help    key.Binding
	Escape  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		Parent: key.NewBinding(
			key.WithKeys("backspace", "u"),
			key.WithHelp("bksp", "parent directory"),
		),

		// Panes
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		LeftPane: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "focus left pane"),
		),
		RightPane: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "focus right pane"),
		),

		// Actions
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		ContextMenu: key.NewBinding(
			key.WithKeys("m", "f2"),
			key.WithHelp("m", "context menu"),
		),
		OpenWith: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open with"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r", "refresh"),
		),
		ToggleHidden: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "toggle hidden files"),
		),

		// General
		LogView: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "toggle log view"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "go back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ContextMenu, k.OpenWith, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom, k.Parent}, // Navigation
		{k.SwitchPane, k.LeftPane, k.RightPane},                         // Panes
		{k.Enter, k.ContextMenu, k.OpenWith, k.Refresh, k.ToggleHidden}, // Actions
		{k.LogView, k.Help, k.Escape, k.Quit},                           // General
	}
}
