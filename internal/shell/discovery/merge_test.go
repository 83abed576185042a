package discovery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kmatyas/twopane/internal/shell"
)

func TestMergeApplications_FirstDiscoveredWins(t *testing.T) {
	dst := map[string]shell.ApplicationInfo{
		"vlc": {Name: "VLC", Executable: `C:\VLC\vlc.exe`, Exists: true},
	}
	MergeApplications(dst, map[string]shell.ApplicationInfo{
		"vlc": {Name: "VLC media player", Executable: `C:\other\vlc.exe`, Exists: true},
	})

	require.Equal(t, "VLC", dst["vlc"].Name)
	require.Equal(t, `C:\VLC\vlc.exe`, dst["vlc"].Executable)
}

func TestMergeApplications_FillsEmptyFields(t *testing.T) {
	dst := map[string]shell.ApplicationInfo{
		"git": {Name: "Git"},
	}
	MergeApplications(dst, map[string]shell.ApplicationInfo{
		"git": {
			Name:        "Git",
			Executable:  `C:\Git\git.exe`,
			InstallPath: `C:\Git`,
			Version:     "2.47.0",
			Exists:      true,
		},
	})

	merged := dst["git"]
	require.Equal(t, `C:\Git\git.exe`, merged.Executable)
	require.Equal(t, `C:\Git`, merged.InstallPath)
	require.Equal(t, "2.47.0", merged.Version)
	require.True(t, merged.Exists)
}

func TestMergeApplications_AddsNewRecords(t *testing.T) {
	dst := map[string]shell.ApplicationInfo{}
	MergeApplications(dst, map[string]shell.ApplicationInfo{
		"code": {Name: "code"},
	})
	require.Contains(t, dst, "code")
}

func TestDenylisted(t *testing.T) {
	denylist := []string{"microsoft visual c++", ".net", "update", "redistributable", "runtime", "hotfix"}

	tests := []struct {
		name     string
		app      string
		expected bool
	}{
		{name: "vc++ redistributable", app: "Microsoft Visual C++ 2015 Redistributable (x64)", expected: true},
		{name: "dotnet runtime", app: "Microsoft .NET Runtime 8.0", expected: true},
		{name: "security update", app: "Security Update for Windows", expected: true},
		{name: "case insensitive", app: "MICROSOFT VISUAL C++ 2019", expected: true},
		{name: "regular application", app: "VLC media player", expected: false},
		{name: "empty name", app: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Denylisted(tt.app, denylist))
		})
	}
}
