//go:build darwin

package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleInfoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleName</key><string>Preview</string>
	<key>CFBundleExecutable</key><string>Preview</string>
	<key>CFBundleIdentifier</key><string>com.example.preview</string>
	<key>CFBundleShortVersionString</key><string>11.0</string>
	<key>CFBundleDocumentTypes</key>
	<array>
		<dict>
			<key>CFBundleTypeExtensions</key>
			<array>
				<string>pdf</string>
				<string>png</string>
			</array>
		</dict>
	</array>
</dict>
</plist>
`

func writeBundle(t *testing.T) string {
	t.Helper()
	bundlePath := filepath.Join(t.TempDir(), "Preview.app")
	contents := filepath.Join(bundlePath, "Contents")
	require.NoError(t, os.MkdirAll(contents, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(contents, "Info.plist"), []byte(sampleInfoPlist), 0o600))
	return bundlePath
}

func TestReadBundle(t *testing.T) {
	bundlePath := writeBundle(t)

	info, ok := readBundle(bundlePath)
	require.True(t, ok)
	require.Equal(t, "Preview", info.Name)
	require.Equal(t, "com.example.preview", info.BundleID)
	require.Equal(t, "11.0", info.Version)
	// The executable is not on disk, so it is not reported as existing.
	require.False(t, info.Exists)
}

func TestReadBundleDocumentTypes(t *testing.T) {
	bundlePath := writeBundle(t)

	info, extensions, ok := readBundleDocumentTypes(bundlePath)
	require.True(t, ok)
	require.Equal(t, "Preview", info.Name)
	require.ElementsMatch(t, []string{"pdf", "png"}, extensions)
}

func TestReadBundle_MissingPlist(t *testing.T) {
	_, ok := readBundle(filepath.Join(t.TempDir(), "Ghost.app"))
	require.False(t, ok)
}
