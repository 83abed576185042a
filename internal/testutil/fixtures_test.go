package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kmatyas/twopane/internal/shell"
)

func TestEntry_Defaults(t *testing.T) {
	entry := Entry("Open with Code", `"C:\VSCode\Code.exe" "%1"`)

	require.Equal(t, "open_with_code", entry.Action)
	_, ok := entry.DedupKey()
	require.True(t, ok, "default fixture must survive deduplication")
}

func TestEntry_Options(t *testing.T) {
	entry := Entry("Copy", "copy", WithAction("copy"), WithSystem(),
		WithCategory(shell.CategorySystem), WithRegistryPath(`*\shell\copy`))

	require.Equal(t, "copy", entry.Action)
	require.True(t, entry.IsSystem)
	require.Equal(t, shell.CategorySystem, entry.Category)
	require.Equal(t, `*\shell\copy`, entry.RegistryPath)
}

func TestApps_KeyedByNormalizedName(t *testing.T) {
	apps := Apps(App("VLC media player", WithAppExecutable(`C:\VLC\vlc.exe`)))

	record, ok := apps["vlc_media_player"]
	require.True(t, ok)
	require.True(t, record.Exists)
}

func TestTree(t *testing.T) {
	root := Tree(t, map[string]string{
		"docs/readme.txt": "hello",
		"empty/":          "",
	})

	content, err := os.ReadFile(filepath.Join(root, "docs", "readme.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(content))

	info, err := os.Stat(filepath.Join(root, "empty"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
