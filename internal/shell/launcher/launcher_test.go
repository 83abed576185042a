package launcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmatyas/twopane/internal/platform"
	"github.com/kmatyas/twopane/internal/shell"
)

type startCall struct {
	name string
	args []string
}

func fakeLauncher(platformName string) (*RealLauncher, *[]startCall) {
	calls := &[]startCall{}
	shellFor := map[string]string{"windows": "cmd.exe"}
	defaultShell := shellFor[platformName]
	if defaultShell == "" {
		defaultShell = "/bin/sh"
	}
	l := &RealLauncher{
		platform: platform.Info{Name: platformName, DefaultShell: defaultShell},
		start: func(ctx context.Context, name string, args ...string) error {
			*calls = append(*calls, startCall{name: name, args: args})
			return nil
		},
	}
	return l, calls
}

func TestSubstituteTarget(t *testing.T) {
	assert.Equal(t,
		`"C:\App\app.exe" "C:\file.txt"`,
		SubstituteTarget(`"C:\App\app.exe" "%1"`, `C:\file.txt`))

	assert.Equal(t,
		`vlc --enqueue C:\a.mp4`,
		SubstituteTarget(`vlc --enqueue %V`, `C:\a.mp4`))

	// No placeholder: target is appended quoted.
	assert.Equal(t,
		`notepad.exe "C:\file.txt"`,
		SubstituteTarget(`notepad.exe`, `C:\file.txt`))
}

func TestSplitCommand_QuotedPath(t *testing.T) {
	name, args, err := SplitCommand(`"C:\Program Files\App\app.exe" --flag "C:\my file.txt"`)
	require.NoError(t, err)

	assert.Equal(t, `C:\Program Files\App\app.exe`, name)
	assert.Equal(t, []string{"--flag", `C:\my file.txt`}, args)
}

func TestSplitCommand_Unquoted(t *testing.T) {
	name, args, err := SplitCommand("git gui")
	require.NoError(t, err)
	assert.Equal(t, "git", name)
	assert.Equal(t, []string{"gui"}, args)
}

func TestSplitCommand_Empty(t *testing.T) {
	_, _, err := SplitCommand("   ")
	require.ErrorIs(t, err, shell.ErrValidation)
}

func TestRunCommand(t *testing.T) {
	l, calls := fakeLauncher("windows")

	err := l.RunCommand(context.Background(), `"C:\Tools\tool.exe" "%1"`, `C:\data file.bin`)
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	assert.Equal(t, `C:\Tools\tool.exe`, (*calls)[0].name)
	assert.Equal(t, []string{`C:\data file.bin`}, (*calls)[0].args)
}

func TestRunApplication(t *testing.T) {
	l, calls := fakeLauncher("linux")

	err := l.RunApplication(context.Background(), "/usr/bin/vlc", "/home/u/a.mp4")
	require.NoError(t, err)
	require.Len(t, *calls, 1)
	assert.Equal(t, "/usr/bin/vlc", (*calls)[0].name)

	err = l.RunApplication(context.Background(), "  ", "/home/u/a.mp4")
	require.ErrorIs(t, err, shell.ErrValidation)
}

func TestOpenDefault_PerPlatform(t *testing.T) {
	tests := []struct {
		platform string
		expected string
	}{
		{platform: "windows", expected: "cmd.exe"},
		{platform: "darwin", expected: "open"},
		{platform: "linux", expected: "xdg-open"},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			l, calls := fakeLauncher(tt.platform)
			require.NoError(t, l.OpenDefault(context.Background(), "/tmp/x"))
			require.Len(t, *calls, 1)
			assert.Equal(t, tt.expected, (*calls)[0].name)
		})
	}
}
