// Package testutil provides fixture builders shared by tests across the
// shell-integration and UI packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kmatyas/twopane/internal/shell"
)

// EntryOption configures an extension entry during fixture setup.
type EntryOption func(*shell.ExtensionEntry)

// WithAction sets the verb name.
func WithAction(action string) EntryOption {
	return func(e *shell.ExtensionEntry) { e.Action = action }
}

// WithExecutable sets the resolved executable path.
func WithExecutable(path string) EntryOption {
	return func(e *shell.ExtensionEntry) {
		e.Executable = path
	}
}

// WithCategory sets the application category.
func WithCategory(cat shell.Category) EntryOption {
	return func(e *shell.ExtensionEntry) { e.Category = cat }
}

// WithSystem marks the entry as a system application action.
func WithSystem() EntryOption {
	return func(e *shell.ExtensionEntry) { e.IsSystem = true }
}

// WithRegistryPath records where the verb was discovered.
func WithRegistryPath(path string) EntryOption {
	return func(e *shell.ExtensionEntry) { e.RegistryPath = path }
}

// Entry builds an extension entry with sensible defaults: the action
// defaults to a slug of the text so the entry survives deduplication.
func Entry(text, command string, opts ...EntryOption) shell.ExtensionEntry {
	entry := shell.ExtensionEntry{
		Text:    text,
		Command: command,
		Action:  shell.NormalizeAppID(text),
	}
	for _, opt := range opts {
		opt(&entry)
	}
	return entry
}

// AppOption configures an application record during fixture setup.
type AppOption func(*shell.ApplicationInfo)

// WithAppExecutable sets the executable path and marks the record existing.
func WithAppExecutable(path string) AppOption {
	return func(a *shell.ApplicationInfo) {
		a.Executable = path
		a.Exists = true
	}
}

// WithInstallPath sets the install directory.
func WithInstallPath(path string) AppOption {
	return func(a *shell.ApplicationInfo) { a.InstallPath = path }
}

// WithVersion sets the declared version string.
func WithVersion(version string) AppOption {
	return func(a *shell.ApplicationInfo) { a.Version = version }
}

// WithDiscoveryMethod records which pass produced the record.
func WithDiscoveryMethod(method string) AppOption {
	return func(a *shell.ApplicationInfo) { a.DiscoveryMethod = method }
}

// App builds an application record with sensible defaults.
func App(name string, opts ...AppOption) shell.ApplicationInfo {
	app := shell.ApplicationInfo{Name: name}
	for _, opt := range opts {
		opt(&app)
	}
	return app
}

// Apps keys a list of records by their normalized identity, the shape the
// discovery aggregator produces.
func Apps(records ...shell.ApplicationInfo) map[string]shell.ApplicationInfo {
	out := make(map[string]shell.ApplicationInfo, len(records))
	for _, record := range records {
		out[shell.NormalizeAppID(record.Name)] = record
	}
	return out
}

// Tree materializes a file tree under a fresh temp directory and returns
// its root. Keys are slash-separated relative paths; a value is the file
// content, and a trailing slash on the key creates a directory.
func Tree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if len(rel) > 0 && rel[len(rel)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}
