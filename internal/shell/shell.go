// Package shell defines the data model shared by the shell-integration
// pipeline: discovered applications, context-menu verb entries, and the
// rendering-ready menu actions produced by the builder.
package shell

import (
	"errors"
	"strings"
)

// Errors returned by the shell-integration components. Callers match with
// errors.Is; components wrap these with %w and context.
var (
	// ErrRegistryAccess indicates the platform registration store (registry
	// hive, desktop-file directory, bundle directory) was unreadable.
	ErrRegistryAccess = errors.New("registry access failed")

	// ErrShellIntegration indicates an external process invocation failed,
	// was not found, or timed out.
	ErrShellIntegration = errors.New("shell integration failed")

	// ErrValidation indicates malformed input to a public contract.
	ErrValidation = errors.New("invalid input")
)

// Category classifies an application into a fixed closed set.
type Category string

const (
	CategoryEditor         Category = "editor"
	CategoryVersionControl Category = "version_control"
	CategoryMedia          Category = "media"
	CategoryCompression    Category = "compression"
	CategorySystem         Category = "system"
	CategoryApplication    Category = "application"
)

// ApplicationInfo describes one installed application. The same application
// may be produced by several discovery passes; records are merged on the
// normalized name (see NormalizeAppID).
type ApplicationInfo struct {
	Name            string `json:"name"`
	Executable      string `json:"executable,omitempty"`
	InstallPath     string `json:"install_path,omitempty"`
	Icon            string `json:"icon,omitempty"`
	Version         string `json:"version,omitempty"`
	Description     string `json:"description,omitempty"`
	Exists          bool   `json:"exists"`
	Platform        string `json:"platform,omitempty"`
	DiscoveryMethod string `json:"discovery_method,omitempty"`
	RegistryKey     string `json:"registry_key,omitempty"`
	BundleID        string `json:"bundle_id,omitempty"`    // darwin only
	DesktopFile     string `json:"desktop_file,omitempty"` // linux only
}

// ExtensionEntry is one context-menu verb bound to a file type or to the
// universal scope. Command is a raw shell-invocation string, possibly a
// quoted path plus arguments.
type ExtensionEntry struct {
	Text         string   `json:"text"`
	Command      string   `json:"command"`
	Action       string   `json:"action"`
	RegistryPath string   `json:"registry_path,omitempty"`
	Executable   string   `json:"executable,omitempty"`
	Category     Category `json:"category,omitempty"`
	IsSystem     bool     `json:"is_system,omitempty"`
	Priority     int      `json:"priority,omitempty"`
}

// MenuAction is the rendering-ready unit: either a concrete action or a
// separator marker. Separators are synthesized by the builder, never read
// from a registration store.
type MenuAction struct {
	Text       string `json:"text,omitempty"`
	Action     string `json:"action,omitempty"`
	Command    string `json:"command,omitempty"`
	Icon       string `json:"icon,omitempty"`
	Executable string `json:"executable,omitempty"`
	Priority   int    `json:"priority"`
	Separator  bool   `json:"separator,omitempty"`
}

// CacheStats is the diagnostics structure exposed by cache-carrying
// components.
type CacheStats struct {
	Size    int     `json:"size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// DiscoveryStats summarizes the aggregator's cached state.
type DiscoveryStats struct {
	TotalApplications int  `json:"total_applications"`
	TotalMenuTypes    int  `json:"total_context_menu_types"`
	TotalMenuEntries  int  `json:"total_context_menu_entries"`
	CacheValid        bool `json:"cache_valid"`
}

// FileType is the result of a file-type lookup: the program id an extension
// resolves to plus its registered description.
type FileType struct {
	Extension   string `json:"extension"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// UniversalTypeKeys are the registration buckets whose verbs apply to every
// file or folder, probed in addition to the file's own extension.
var UniversalTypeKeys = []string{"*", "Directory", "Folder", "AllFilesystemObjects"}

// NormalizeAppID derives the identity key for an application record:
// lower-cased, whitespace runs collapsed to single underscores.
func NormalizeAppID(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "_")
}

// DedupKey returns the composite deduplication key for an entry and whether
// every component is non-empty after normalization. Entries with an empty
// component are not representable in the deduplicated result.
func (e ExtensionEntry) DedupKey() (string, bool) {
	text := strings.ToLower(strings.TrimSpace(e.Text))
	command := strings.ToLower(strings.TrimSpace(e.Command))
	action := strings.ToLower(strings.TrimSpace(e.Action))
	if text == "" || command == "" || action == "" {
		return "", false
	}
	return text + "\x00" + command + "\x00" + action, true
}
