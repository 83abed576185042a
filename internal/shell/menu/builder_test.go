package menu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kmatyas/twopane/internal/config"
	"github.com/kmatyas/twopane/internal/shell"
)

func newTestBuilder() *Builder {
	return NewBuilder(config.Defaults().Menu)
}

func texts(actions []shell.MenuAction) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		if a.Separator {
			out[i] = "<separator>"
			continue
		}
		out[i] = a.Text
	}
	return out
}

func TestBuild_EmptyPathRejected(t *testing.T) {
	_, err := newTestBuilder().Build("", false, nil)
	require.ErrorIs(t, err, shell.ErrValidation)
}

func TestBuild_DefaultsOnly_File(t *testing.T) {
	actions, err := newTestBuilder().Build(`C:\notes.txt`, false, nil)
	require.NoError(t, err)
	require.Equal(t,
		[]string{"Open", "Open with...", "<separator>", "Properties"},
		texts(actions))
}

func TestBuild_DefaultsOnly_Directory(t *testing.T) {
	actions, err := newTestBuilder().Build(`C:\projects`, true, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"Open", "<separator>", "Properties"}, texts(actions))
}

func TestBuild_FileMenuOrdering(t *testing.T) {
	entries := []shell.ExtensionEntry{
		{Text: "Open with Code", Command: `"C:\VSCode\Code.exe" "%1"`, Action: "vscode"},
		{Text: "@shell32.dll,-31374", Command: "copy.exe", Action: "copy"},
	}

	actions, err := newTestBuilder().Build(`C:\video.mp4`, false, entries)
	require.NoError(t, err)
	require.Equal(t, []string{
		"Open", "Open with...",
		"<separator>", "Open with Code",
		"<separator>", "Copy",
		"<separator>", "Properties",
	}, texts(actions))
}

func TestBuild_UnresolvableResourceReferenceDropped(t *testing.T) {
	entries := []shell.ExtensionEntry{
		{Text: "@wsl.exe,-2", Command: "important.exe %1", Action: "launch"},
	}

	actions, err := newTestBuilder().Build(`C:\a.txt`, false, entries)
	require.NoError(t, err)
	for _, a := range actions {
		require.NotContains(t, a.Text, "@")
		require.NotEqual(t, "important.exe %1", a.Command)
	}
}

func TestBuild_ResourceReferenceMappedToEmptyDropped(t *testing.T) {
	entries := []shell.ExtensionEntry{
		{Text: "@shell32.dll,-10210", Command: "helper.exe", Action: "pin"},
	}

	actions, err := newTestBuilder().Build(`C:\a.txt`, false, entries)
	require.NoError(t, err)
	require.Len(t, actions, 4) // defaults plus one separator
}

func TestBuild_FilterTables(t *testing.T) {
	tests := []struct {
		name  string
		entry shell.ExtensionEntry
	}{
		{name: "below min length", entry: shell.ExtensionEntry{Text: "x", Command: "a.exe", Action: "a"}},
		{name: "noise pattern", entry: shell.ExtensionEntry{Text: "Launch Debugger", Command: "dbg.exe", Action: "debug"}},
		{name: "subsystem pattern", entry: shell.ExtensionEntry{Text: "Windows Subsystem Settings", Command: "a.exe", Action: "a"}},
		{name: "reserved prefix", entry: shell.ExtensionEntry{Text: "ms-settings thing", Command: "a.exe", Action: "a"}},
		{name: "blocked command", entry: shell.ExtensionEntry{Text: "Launch Shell", Command: `C:\Windows\wsl.exe -d ubuntu`, Action: "shell"}},
	}

	b := newTestBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions, err := b.Build(`C:\a.txt`, false, []shell.ExtensionEntry{tt.entry})
			require.NoError(t, err)
			for _, a := range actions {
				require.NotEqual(t, tt.entry.Text, a.Text)
			}
		})
	}
}

func TestBuild_PriorityAppPromotedToEditorBand(t *testing.T) {
	entries := []shell.ExtensionEntry{
		{Text: "Administrator Command Prompt", Command: `"C:\Windows\System32\conhost.exe"`, Action: "admin_prompt"},
	}

	actions, err := newTestBuilder().Build(`C:\a.txt`, false, entries)
	require.NoError(t, err)

	for _, a := range actions {
		if a.Text == "Administrator Command Prompt" {
			require.Equal(t, PriorityEditors, a.Priority)
			return
		}
	}
	t.Fatal("promoted entry missing from menu")
}

func TestBuild_UnknownEntryGetsDefaultPriority(t *testing.T) {
	entries := []shell.ExtensionEntry{
		{Text: "Frobnicate", Command: "frob.exe %1", Action: "frobnicate"},
	}

	actions, err := newTestBuilder().Build(`C:\a.txt`, false, entries)
	require.NoError(t, err)

	for _, a := range actions {
		if a.Text == "Frobnicate" {
			require.Equal(t, PriorityDefault, a.Priority)
			return
		}
	}
	t.Fatal("entry missing from menu")
}

func TestBuild_ActionFallsBackToTextSlug(t *testing.T) {
	entries := []shell.ExtensionEntry{
		{Text: "Scan For Viruses", Command: "av.exe %1"},
	}

	actions, err := newTestBuilder().Build(`C:\a.txt`, false, entries)
	require.NoError(t, err)

	for _, a := range actions {
		if a.Text == "Scan For Viruses" {
			require.Equal(t, "scan_for_viruses", a.Action)
			return
		}
	}
	t.Fatal("entry missing from menu")
}

func TestBuild_TiesPreserveInputOrder(t *testing.T) {
	entries := []shell.ExtensionEntry{
		{Text: "Zeta Tool", Command: "z.exe %1", Action: "zeta"},
		{Text: "Alpha Tool", Command: "a.exe %1", Action: "alpha"},
	}

	actions, err := newTestBuilder().Build(`C:\a.txt`, false, entries)
	require.NoError(t, err)

	zeta, alpha := -1, -1
	for i, a := range actions {
		switch a.Text {
		case "Zeta Tool":
			zeta = i
		case "Alpha Tool":
			alpha = i
		}
	}
	require.NotEqual(t, -1, zeta)
	require.NotEqual(t, -1, alpha)
	require.Less(t, zeta, alpha, "stable sort keeps input order for equal priorities")
}

func drawEntries(t *rapid.T) []shell.ExtensionEntry {
	n := rapid.IntRange(0, 12).Draw(t, "n")
	entries := make([]shell.ExtensionEntry, n)
	for i := range entries {
		entries[i] = shell.ExtensionEntry{
			Text:    rapid.StringMatching(`[@a-zA-Z][a-zA-Z0-9 .,-]{0,30}`).Draw(t, "text"),
			Command: rapid.StringMatching(`[a-zA-Z][a-zA-Z0-9\\ .%"-]{0,40}`).Draw(t, "command"),
			Action:  rapid.StringMatching(`[a-z][a-z_]{0,15}`).Draw(t, "action"),
		}
	}
	return entries
}

func TestBuild_PropertyIdempotent(t *testing.T) {
	b := newTestBuilder()
	rapid.Check(t, func(t *rapid.T) {
		entries := drawEntries(t)
		isDir := rapid.Bool().Draw(t, "isDir")

		first, err := b.Build(`C:\probe`, isDir, entries)
		require.NoError(t, err)
		second, err := b.Build(`C:\probe`, isDir, entries)
		require.NoError(t, err)
		require.Equal(t, first, second)
	})
}

func TestBuild_PropertyPrioritiesNonDecreasing(t *testing.T) {
	b := newTestBuilder()
	rapid.Check(t, func(t *rapid.T) {
		actions, err := b.Build(`C:\probe`, false, drawEntries(t))
		require.NoError(t, err)

		for i := 1; i < len(actions); i++ {
			require.LessOrEqual(t, actions[i-1].Priority, actions[i].Priority)
		}
	})
}

func TestBuild_PropertySeparatorPlacement(t *testing.T) {
	b := newTestBuilder()
	rapid.Check(t, func(t *rapid.T) {
		actions, err := b.Build(`C:\probe`, rapid.Bool().Draw(t, "isDir"), drawEntries(t))
		require.NoError(t, err)
		require.NotEmpty(t, actions)

		require.False(t, actions[0].Separator, "no leading separator")
		require.False(t, actions[len(actions)-1].Separator, "no trailing separator")
		for i := 1; i < len(actions); i++ {
			if actions[i].Separator {
				require.False(t, actions[i-1].Separator, "no adjacent separators")
				require.Equal(t, actions[i+1].Priority-1, actions[i].Priority)
			}
		}
	})
}

func TestBuild_PropertyFilteredEntriesAbsent(t *testing.T) {
	b := newTestBuilder()
	cfg := config.Defaults().Menu
	rapid.Check(t, func(t *rapid.T) {
		entries := drawEntries(t)
		actions, err := b.Build(`C:\probe`, false, entries)
		require.NoError(t, err)

		produced := make(map[string]bool)
		for _, a := range actions {
			produced[a.Text] = true
		}
		for _, e := range entries {
			text := strings.TrimSpace(e.Text)
			if len(text) < cfg.MinTextLength {
				require.False(t, produced[text], "short label %q must be filtered", text)
			}
			if strings.HasPrefix(text, "@") {
				if mapped, ok := cfg.ResourceMappings[text]; !ok || mapped == "" {
					require.False(t, produced[text], "unresolved reference %q must be filtered", text)
				}
			}
		}
	})
}
