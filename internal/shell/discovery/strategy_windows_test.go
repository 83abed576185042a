//go:build windows

package discovery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRoots_WOW6432NodeRequires64Bit(t *testing.T) {
	for _, root := range uninstallRoots(false) {
		require.NotContains(t, root.path, "WOW6432Node")
	}
	for _, path := range appPathRoots(false) {
		require.NotContains(t, path, "WOW6432Node")
	}

	wide := uninstallRoots(true)
	require.Len(t, wide, len(uninstallRoots(false))+1)
	require.Contains(t, wide[len(wide)-1].path, "WOW6432Node")

	paths := appPathRoots(true)
	require.Len(t, paths, 2)
	require.True(t, strings.Contains(paths[1], "WOW6432Node"))
}
