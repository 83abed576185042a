// Package provider coordinates per-file context-menu queries: it resolves
// which type keys apply to a path, pulls the registered verbs from the
// discovery catalog, enriches them with application information, and
// deduplicates the result behind a TTL cache.
package provider

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kmatyas/twopane/internal/cachemanager"
	"github.com/kmatyas/twopane/internal/log"
	"github.com/kmatyas/twopane/internal/shell"
	"github.com/kmatyas/twopane/internal/shell/registry"
)

// SpecializedExtensionProbes are the common file types warmed by
// SpecializedExtensions.
var SpecializedExtensionProbes = []string{".txt", ".exe", ".jpg", ".mp4", ".pdf", ".zip"}

// Catalog supplies the discovered menu registrations per type key.
type Catalog interface {
	EntriesForType(ctx context.Context, typeKey string) ([]shell.ExtensionEntry, error)
	ClearCache(ctx context.Context) error
}

// Enricher annotates raw entries with executable and category information.
type Enricher interface {
	ExtractExecutable(ctx context.Context, command string) string
	Categorize(exePath, displayText string) shell.Category
	IsSystemApplication(exePath string) bool
	ClearCache(ctx context.Context) error
}

type probe struct {
	typeKeys []string
}

// Provider answers per-file extension queries with read-through caching.
type Provider struct {
	catalog  Catalog
	enricher Enricher
	ttl      time.Duration
	cache    cachemanager.CacheManager[string, []shell.ExtensionEntry]
	reader   *cachemanager.ReadThroughCache[string, []shell.ExtensionEntry, probe]
}

func New(catalog Catalog, enricher Enricher, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	p := &Provider{
		catalog:  catalog,
		enricher: enricher,
		ttl:      ttl,
		cache:    cachemanager.NewInMemoryCacheManager[string, []shell.ExtensionEntry]("extensions", ttl, ttl),
	}
	p.reader = cachemanager.NewReadThroughCache(p.cache, p.collect, false)
	return p
}

// ExtensionsForFile returns every applicable context-menu entry for a path.
// A path that does not exist yields an empty slice, not an error; results
// are cached per extension so sibling files share one lookup.
func (p *Provider) ExtensionsForFile(ctx context.Context, path string) ([]shell.ExtensionEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		log.Warn(log.CatProvider, "path does not exist", "path", path)
		return []shell.ExtensionEntry{}, nil
	}

	var typeKeys []string
	cacheKey := "dir"
	if !info.IsDir() {
		extension := registry.NormalizeExtension(filepath.Ext(path))
		if extension != "" {
			typeKeys = append(typeKeys, extension)
			cacheKey = "file_" + extension
		} else {
			cacheKey = "file_"
		}
	}
	typeKeys = append(typeKeys, shell.UniversalTypeKeys...)

	return p.reader.Get(ctx, cacheKey, probe{typeKeys: typeKeys}, p.ttl)
}

// SystemExtensions returns the entries bound to the universal buckets only.
func (p *Provider) SystemExtensions(ctx context.Context) ([]shell.ExtensionEntry, error) {
	return p.reader.Get(ctx, "system", probe{typeKeys: shell.UniversalTypeKeys}, p.ttl)
}

// SpecializedExtensions returns the entries bound to the common file-type
// probe set, primarily to warm the cache at startup.
func (p *Provider) SpecializedExtensions(ctx context.Context) ([]shell.ExtensionEntry, error) {
	return p.reader.Get(ctx, "specialized", probe{typeKeys: SpecializedExtensionProbes}, p.ttl)
}

// ValidateExtension reports whether an entry is well formed and, when it
// names an executable, whether that executable exists.
func (p *Provider) ValidateExtension(ctx context.Context, entry shell.ExtensionEntry) bool {
	if strings.TrimSpace(entry.Text) == "" || strings.TrimSpace(entry.Command) == "" {
		return false
	}
	if entry.Executable != "" {
		_, err := os.Stat(entry.Executable)
		return err == nil
	}
	if extracted := p.enricher.ExtractExecutable(ctx, entry.Command); extracted != "" {
		_, err := os.Stat(extracted)
		return err == nil
	}
	return true
}

// RefreshCache flushes the provider cache and the caches of the components
// behind it.
func (p *Provider) RefreshCache(ctx context.Context) error {
	log.Info(log.CatProvider, "refreshing extension caches")
	if err := p.cache.Flush(ctx); err != nil {
		return err
	}
	if err := p.catalog.ClearCache(ctx); err != nil {
		return err
	}
	return p.enricher.ClearCache(ctx)
}

// CacheStats reports extension-cache diagnostics.
func (p *Provider) CacheStats() shell.CacheStats {
	return p.cache.Stats()
}

// collect is the cache loader: fetch, enrich, deduplicate.
func (p *Provider) collect(ctx context.Context, in probe) ([]shell.ExtensionEntry, error) {
	var raw []shell.ExtensionEntry
	for _, typeKey := range in.typeKeys {
		entries, err := p.catalog.EntriesForType(ctx, typeKey)
		if err != nil {
			log.Debug(log.CatProvider, "entries unavailable for type", "type", typeKey, "error", err)
			continue
		}
		raw = append(raw, entries...)
	}

	enriched := p.enrich(ctx, raw)
	return Deduplicate(enriched), nil
}

func (p *Provider) enrich(ctx context.Context, entries []shell.ExtensionEntry) []shell.ExtensionEntry {
	enriched := make([]shell.ExtensionEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Executable == "" && entry.Command != "" {
			entry.Executable = p.enricher.ExtractExecutable(ctx, entry.Command)
		}
		if entry.Executable != "" {
			entry.Category = p.enricher.Categorize(entry.Executable, entry.Text)
			entry.IsSystem = p.enricher.IsSystemApplication(entry.Executable)
		}
		enriched = append(enriched, entry)
	}
	return enriched
}

// Deduplicate drops entries sharing the same normalized (text, command,
// action) triple, and entries where any component is empty. Order of first
// occurrence is preserved.
func Deduplicate(entries []shell.ExtensionEntry) []shell.ExtensionEntry {
	seen := make(map[string]struct{}, len(entries))
	unique := make([]shell.ExtensionEntry, 0, len(entries))
	for _, entry := range entries {
		key, ok := entry.DedupKey()
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, entry)
	}
	return unique
}
