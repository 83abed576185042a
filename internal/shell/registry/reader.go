// Package registry reads file-type registrations and context-menu verbs
// from the Windows registry. On other platforms the reader reports
// shell.ErrRegistryAccess and discovery falls back to platform strategies.
package registry

import (
	"context"
	"strings"

	"github.com/kmatyas/twopane/internal/shell"
)

// Reader is the read-only view of the platform registration store.
type Reader interface {
	// FileType resolves a file path's extension to its registered program
	// id and description.
	FileType(ctx context.Context, path string) (shell.FileType, error)

	// VerbsForType lists the context-menu verbs registered under a type
	// key's shell subtree. The key may be a program id or one of the
	// universal buckets ("*", "Directory", ...).
	VerbsForType(ctx context.Context, typeKey string) ([]shell.ExtensionEntry, error)

	// VerbsForExtension resolves the extension to its program id and lists
	// that type's verbs. A registered extension without verbs yields an
	// empty slice, not an error.
	VerbsForExtension(ctx context.Context, extension string) ([]shell.ExtensionEntry, error)

	// ClearCache drops the per-extension lookup cache.
	ClearCache(ctx context.Context) error

	// Stats reports lookup-cache diagnostics.
	Stats() shell.CacheStats
}

// NormalizeExtension lower-cases an extension and ensures the leading dot.
// Returns "" for empty input.
func NormalizeExtension(extension string) string {
	extension = strings.ToLower(strings.TrimSpace(extension))
	if extension == "" {
		return ""
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return extension
}
