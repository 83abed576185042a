package platform

import (
	"math/bits"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurrent(t *testing.T) {
	info := Current()

	require.Equal(t, runtime.GOOS, info.Name)
	require.Equal(t, bits.UintSize == 64, info.Is64Bit)
	require.NotEmpty(t, info.DefaultShell)
	require.NotEmpty(t, info.PathLookupCommand)

	if runtime.GOOS == "windows" {
		require.True(t, info.SupportsRegistry)
		require.Equal(t, ".exe", info.ExecutableExtension)
		require.Equal(t, "cmd.exe", info.DefaultShell)
	} else {
		require.False(t, info.SupportsRegistry)
		require.Empty(t, info.ExecutableExtension)
		require.Equal(t, "/bin/sh", info.DefaultShell)
	}
}
