package keys

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg(tea.Key{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestDefaultKeyMap_Navigation(t *testing.T) {
	k := DefaultKeyMap()

	assert.True(t, key.Matches(keyMsg("j"), k.Down))
	assert.True(t, key.Matches(keyMsg("k"), k.Up))
	assert.True(t, key.Matches(keyMsg("g"), k.Top))
	assert.True(t, key.Matches(keyMsg("G"), k.Bottom))
	assert.True(t, key.Matches(keyMsg("u"), k.Parent))
	assert.False(t, key.Matches(keyMsg("j"), k.Up))
}

func TestDefaultKeyMap_Actions(t *testing.T) {
	k := DefaultKeyMap()

	assert.True(t, key.Matches(keyMsg("m"), k.ContextMenu))
	assert.True(t, key.Matches(keyMsg("o"), k.OpenWith))
	assert.True(t, key.Matches(keyMsg("r"), k.Refresh))
	assert.True(t, key.Matches(keyMsg("."), k.ToggleHidden))
	assert.True(t, key.Matches(keyMsg("q"), k.Quit))
	assert.True(t, key.Matches(tea.KeyMsg(tea.Key{Type: tea.KeyCtrlL}), k.LogView))
}

func TestDefaultKeyMap_PaneSwitching(t *testing.T) {
	k := DefaultKeyMap()

	assert.True(t, key.Matches(tea.KeyMsg(tea.Key{Type: tea.KeyTab}), k.SwitchPane))
	assert.True(t, key.Matches(keyMsg("h"), k.LeftPane))
	assert.True(t, key.Matches(keyMsg("l"), k.RightPane))
}

func TestHelpCoversEveryBinding(t *testing.T) {
	k := DefaultKeyMap()

	total := 0
	for _, group := range k.FullHelp() {
		total += len(group)
	}
	// Every KeyMap field appears in exactly one help group.
	assert.Equal(t, 19, total)

	assert.NotEmpty(t, k.ShortHelp())
}
