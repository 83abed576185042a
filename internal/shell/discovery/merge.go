package discovery

import (
	"strings"

	"github.com/kmatyas/twopane/internal/log"
	"github.com/kmatyas/twopane/internal/shell"
)

// MergeApplications folds src into dst in place. The first-discovered record
// wins; a later record only fills fields the existing one left empty. Field
// conflicts are logged at debug so a noisy strategy can be diagnosed.
func MergeApplications(dst, src map[string]shell.ApplicationInfo) {
	for id, incoming := range src {
		existing, ok := dst[id]
		if !ok {
			dst[id] = incoming
			continue
		}

		if existing.Executable == "" && incoming.Executable != "" {
			existing.Executable = incoming.Executable
			existing.Exists = incoming.Exists
		} else if incoming.Executable != "" && incoming.Executable != existing.Executable {
			log.Debug(log.CatDiscovery, "conflicting executables for application",
				"id", id, "kept", existing.Executable, "ignored", incoming.Executable)
		}

		if existing.InstallPath == "" {
			existing.InstallPath = incoming.InstallPath
		}
		if existing.Version == "" {
			existing.Version = incoming.Version
		}
		if existing.Icon == "" {
			existing.Icon = incoming.Icon
		}
		if existing.Description == "" {
			existing.Description = incoming.Description
		}

		dst[id] = existing
	}
}

// Denylisted reports whether the display name matches any denylist pattern
// by case-insensitive substring.
func Denylisted(name string, denylist []string) bool {
	lowered := strings.ToLower(name)
	for _, pattern := range denylist {
		if pattern != "" && strings.Contains(lowered, pattern) {
			return true
		}
	}
	return false
}
