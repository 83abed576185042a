package contextmenu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmatyas/twopane/internal/shell"
)

func sampleActions() []shell.MenuAction {
	return []shell.MenuAction{
		{Text: "Open", Action: "open", Priority: 1},
		{Text: "Open with...", Action: "open_with", Priority: 2},
		{Separator: true, Priority: 19},
		{Text: "Open with Code", Action: "vscode", Priority: 20},
		{Separator: true, Priority: 899},
		{Text: "Properties", Action: "properties", Priority: 900},
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg(tea.Key{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestNew_CursorStartsOnFirstSelectable(t *testing.T) {
	m := New("video.mp4", sampleActions())

	action, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Open", action.Text)
}

func TestUpdate_CursorSkipsSeparators(t *testing.T) {
	m := New("video.mp4", sampleActions())

	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg("j")) // hops over the separator

	action, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Open with Code", action.Text)

	m, _ = m.Update(keyMsg("k"))
	action, _ = m.Selected()
	assert.Equal(t, "Open with...", action.Text)
}

func TestUpdate_CursorStopsAtEdges(t *testing.T) {
	m := New("video.mp4", sampleActions())

	m, _ = m.Update(keyMsg("k"))
	action, _ := m.Selected()
	assert.Equal(t, "Open", action.Text)

	for i := 0; i < 10; i++ {
		m, _ = m.Update(keyMsg("j"))
	}
	action, _ = m.Selected()
	assert.Equal(t, "Properties", action.Text)
}

func TestEmpty(t *testing.T) {
	assert.True(t, New("x", nil).Empty())
	assert.True(t, New("x", []shell.MenuAction{{Separator: true}}).Empty())
	assert.False(t, New("x", sampleActions()).Empty())
}

func TestView_RendersActionsAndSeparators(t *testing.T) {
	m := New("video.mp4", sampleActions()).SetSize(80, 24)

	view := m.View()
	assert.Contains(t, view, "video.mp4")
	assert.Contains(t, view, "Open with Code")
	assert.Contains(t, view, "Properties")
	assert.Contains(t, view, "─")
}

func TestOverlay_WithoutBackground(t *testing.T) {
	m := New("video.mp4", sampleActions()).SetSize(80, 24)

	out := m.Overlay("")
	assert.Contains(t, out, "Open")
}
