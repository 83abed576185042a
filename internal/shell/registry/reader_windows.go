//go:build windows

package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	winregistry "golang.org/x/sys/windows/registry"

	"github.com/kmatyas/twopane/internal/cachemanager"
	"github.com/kmatyas/twopane/internal/log"
	"github.com/kmatyas/twopane/internal/shell"
)

// WindowsReader reads HKEY_CLASSES_ROOT. File-type lookups are cached per
// extension; verbs are read fresh so newly installed handlers show up.
type WindowsReader struct {
	cache cachemanager.CacheManager[string, shell.FileType]
	ttl   time.Duration
}

func NewReader(ttl time.Duration) *WindowsReader {
	return &WindowsReader{
		cache: cachemanager.NewInMemoryCacheManager[string, shell.FileType]("file-types", ttl, ttl),
		ttl:   ttl,
	}
}

func (r *WindowsReader) FileType(ctx context.Context, path string) (shell.FileType, error) {
	if _, err := os.Stat(path); err != nil {
		return shell.FileType{}, fmt.Errorf("%w: %q: %v", shell.ErrValidation, path, err)
	}

	extension := NormalizeExtension(filepath.Ext(path))
	if extension == "" {
		return shell.FileType{}, fmt.Errorf("%w: %q has no extension", shell.ErrValidation, path)
	}

	if cached, ok := r.cache.Get(ctx, extension); ok {
		return cached, nil
	}

	progID, err := defaultValue(extension)
	if err != nil {
		return shell.FileType{}, fmt.Errorf("%w: file type for %s: %v", shell.ErrRegistryAccess, extension, err)
	}

	// Description lives on the program id key; absence is not an error.
	description, err := defaultValue(progID)
	if err != nil {
		log.Debug(log.CatRegistry, "no description for program id", "prog_id", progID)
		description = ""
	}

	result := shell.FileType{
		Extension:   extension,
		Type:        progID,
		Description: description,
	}
	r.cache.Set(ctx, extension, result, r.ttl)
	return result, nil
}

func (r *WindowsReader) VerbsForType(ctx context.Context, typeKey string) ([]shell.ExtensionEntry, error) {
	shellPath := typeKey + `\shell`
	key, err := winregistry.OpenKey(winregistry.CLASSES_ROOT, shellPath, winregistry.READ)
	if err != nil {
		if err == winregistry.ErrNotExist {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: opening %s: %v", shell.ErrRegistryAccess, shellPath, err)
	}
	defer key.Close()

	verbs, err := key.ReadSubKeyNames(-1)
	if err != nil {
		return nil, fmt.Errorf("%w: enumerating %s: %v", shell.ErrRegistryAccess, shellPath, err)
	}

	entries := make([]shell.ExtensionEntry, 0, len(verbs))
	for _, verb := range verbs {
		entry, ok := readVerb(shellPath, verb)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *WindowsReader) VerbsForExtension(ctx context.Context, extension string) ([]shell.ExtensionEntry, error) {
	extension = NormalizeExtension(extension)
	if extension == "" {
		return nil, fmt.Errorf("%w: empty extension", shell.ErrValidation)
	}

	progID, err := defaultValue(extension)
	if err != nil {
		if err == winregistry.ErrNotExist {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: resolving %s: %v", shell.ErrRegistryAccess, extension, err)
	}
	if progID == "" {
		return nil, nil
	}
	return r.VerbsForType(ctx, progID)
}

func (r *WindowsReader) ClearCache(ctx context.Context) error {
	log.Debug(log.CatRegistry, "file-type cache cleared")
	return r.cache.Flush(ctx)
}

func (r *WindowsReader) Stats() shell.CacheStats {
	return r.cache.Stats()
}

// readVerb reads one verb under shellPath. Verbs without a command key are
// display-only containers and are skipped.
func readVerb(shellPath, verb string) (shell.ExtensionEntry, bool) {
	verbPath := shellPath + `\` + verb

	// Label falls back to the verb key name when no default value exists.
	text, err := defaultValue(verbPath)
	if err != nil || text == "" {
		text = verb
	}

	command, err := defaultValue(verbPath + `\command`)
	if err != nil || command == "" {
		log.Debug(log.CatRegistry, "verb without command skipped", "path", verbPath)
		return shell.ExtensionEntry{}, false
	}

	return shell.ExtensionEntry{
		Text:         text,
		Command:      command,
		Action:       verb,
		RegistryPath: verbPath,
	}, true
}

func defaultValue(path string) (string, error) {
	key, err := winregistry.OpenKey(winregistry.CLASSES_ROOT, path, winregistry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer key.Close()
	value, _, err := key.GetStringValue("")
	if err != nil {
		return "", err
	}
	return value, nil
}
