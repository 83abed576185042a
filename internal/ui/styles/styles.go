// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#BBBBBB"} // Sizes, timestamps
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Hints, help text, footers

	// Borders
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused panel
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"} // Focused panel

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Entry kinds in panel listings
	DirectoryColor  = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	ExecutableColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	HiddenColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"}

	// Selection indicator color (used for the cursor row)
	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	SelectionBgColor        = lipgloss.AdaptiveColor{Light: "#D6EAF8", Dark: "#2D3436"}

	// Overlay colors
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#8C8C8C"}

	// Menu separators inside the context-menu overlay
	SeparatorColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#555555"}

	DirectoryStyle  = lipgloss.NewStyle().Foreground(DirectoryColor).Bold(true)
	ExecutableStyle = lipgloss.NewStyle().Foreground(ExecutableColor)
	HiddenStyle     = lipgloss.NewStyle().Foreground(HiddenColor)

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)
	SelectedRowStyle        = lipgloss.NewStyle().Bold(true).Background(SelectionBgColor)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderDefaultColor)

	PanelFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(BorderFocusColor)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextPrimaryColor).
			Padding(0, 1)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor).
			Padding(0, 1)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true).
			Padding(1, 2)

	SeparatorStyle = lipgloss.NewStyle().Foreground(SeparatorColor)
)

// ApplyTheme applies custom theme colors from configuration.
// Empty strings are ignored, keeping the default values.
func ApplyTheme(accent, muted, errorColor string) {
	if accent != "" {
		BorderFocusColor = lipgloss.AdaptiveColor{Light: accent, Dark: accent}
		DirectoryColor = lipgloss.AdaptiveColor{Light: accent, Dark: accent}
		PanelFocusedStyle = PanelFocusedStyle.BorderForeground(BorderFocusColor)
		DirectoryStyle = DirectoryStyle.Foreground(DirectoryColor)
	}
	if muted != "" {
		TextMutedColor = lipgloss.AdaptiveColor{Light: muted, Dark: muted}
		BorderDefaultColor = lipgloss.AdaptiveColor{Light: muted, Dark: muted}
		HelpStyle = HelpStyle.Foreground(TextMutedColor)
		PanelStyle = PanelStyle.BorderForeground(BorderDefaultColor)
	}
	if errorColor != "" {
		StatusErrorColor = lipgloss.AdaptiveColor{Light: errorColor, Dark: errorColor}
		ErrorStyle = ErrorStyle.Foreground(StatusErrorColor)
	}
}
