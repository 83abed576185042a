// Package discovery aggregates installed applications and their context-menu
// registrations. A platform strategy produces the raw records; the service
// merges, filters, and caches them, and derives additional applications from
// the executables referenced by context-menu commands.
package discovery

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kmatyas/twopane/internal/cachemanager"
	"github.com/kmatyas/twopane/internal/log"
	"github.com/kmatyas/twopane/internal/pubsub"
	"github.com/kmatyas/twopane/internal/shell"
)

const (
	appsCacheKey  = "applications"
	menusCacheKey = "context-menus"
)

// Strategy is one platform's way of finding applications and menu
// registrations. Exactly one strategy is selected at startup.
type Strategy interface {
	Name() string
	DiscoverApplications(ctx context.Context) (map[string]shell.ApplicationInfo, error)
	DiscoverContextMenus(ctx context.Context) (map[string][]shell.ExtensionEntry, error)
}

// Service runs the selected strategy and caches its results.
type Service struct {
	strategy   Strategy
	denylist   []string
	ttl        time.Duration
	concurrent bool
	broker     *pubsub.Broker[string]

	mu         sync.Mutex
	appsCache  cachemanager.CacheManager[string, map[string]shell.ApplicationInfo]
	menusCache cachemanager.CacheManager[string, map[string][]shell.ExtensionEntry]
}

// Option configures a Service.
type Option func(*Service)

// WithConcurrentScan runs the application and menu scans in parallel.
func WithConcurrentScan(enabled bool) Option {
	return func(s *Service) { s.concurrent = enabled }
}

// WithBroker publishes an invalidation event whenever the caches are
// cleared, so the UI can surface the change in its status line.
func WithBroker(b *pubsub.Broker[string]) Option {
	return func(s *Service) { s.broker = b }
}

func New(strategy Strategy, denylist []string, ttl time.Duration, opts ...Option) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	s := &Service{
		strategy:   strategy,
		denylist:   lowerAll(denylist),
		ttl:        ttl,
		appsCache:  cachemanager.NewInMemoryCacheManager[string, map[string]shell.ApplicationInfo]("applications", ttl, ttl),
		menusCache: cachemanager.NewInMemoryCacheManager[string, map[string][]shell.ExtensionEntry]("context-menus", ttl, ttl),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Applications returns every discovered application keyed by normalized
// name. The result is cached for the configured TTL.
func (s *Service) Applications(ctx context.Context) (map[string]shell.ApplicationInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if apps, ok := s.appsCache.Get(ctx, appsCacheKey); ok {
		return apps, nil
	}
	apps, _, err := s.scan(ctx)
	return apps, err
}

// ContextMenus returns every discovered menu registration keyed by type key.
func (s *Service) ContextMenus(ctx context.Context) (map[string][]shell.ExtensionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if menus, ok := s.menusCache.Get(ctx, menusCacheKey); ok {
		return menus, nil
	}
	_, menus, err := s.scan(ctx)
	return menus, err
}

// EntriesForType returns the menu registrations bound to one type key. An
// unknown key yields an empty slice.
func (s *Service) EntriesForType(ctx context.Context, typeKey string) ([]shell.ExtensionEntry, error) {
	menus, err := s.ContextMenus(ctx)
	if err != nil {
		return nil, err
	}
	return menus[typeKey], nil
}

// FindApplication looks an application up by name: exact normalized id
// first, then case-insensitive substring over display names.
func (s *Service) FindApplication(ctx context.Context, name string) (shell.ApplicationInfo, bool, error) {
	apps, err := s.Applications(ctx)
	if err != nil {
		return shell.ApplicationInfo{}, false, err
	}

	if app, ok := apps[shell.NormalizeAppID(name)]; ok {
		return app, true, nil
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return shell.ApplicationInfo{}, false, nil
	}
	for _, app := range apps {
		if strings.Contains(strings.ToLower(app.Name), needle) {
			return app, true, nil
		}
	}
	return shell.ApplicationInfo{}, false, nil
}

// ClearCache drops both caches and notifies subscribers.
func (s *Service) ClearCache(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.appsCache.Flush(ctx); err != nil {
		return err
	}
	if err := s.menusCache.Flush(ctx); err != nil {
		return err
	}
	log.Info(log.CatDiscovery, "discovery caches cleared")
	if s.broker != nil {
		s.broker.Publish(pubsub.InvalidatedEvent, "discovery")
	}
	return nil
}

// Refresh clears the caches and runs a fresh scan.
func (s *Service) Refresh(ctx context.Context) error {
	if err := s.ClearCache(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _, err := s.scan(ctx)
	return err
}

// Stats summarizes the cached state without triggering a scan.
func (s *Service) Stats(ctx context.Context) shell.DiscoveryStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := shell.DiscoveryStats{}
	if apps, ok := s.appsCache.Get(ctx, appsCacheKey); ok {
		stats.TotalApplications = len(apps)
		stats.CacheValid = true
	}
	if menus, ok := s.menusCache.Get(ctx, menusCacheKey); ok {
		stats.TotalMenuTypes = len(menus)
		for _, entries := range menus {
			stats.TotalMenuEntries += len(entries)
		}
		stats.CacheValid = true
	}
	return stats
}

// scan runs the strategy and fills both caches. Callers hold s.mu.
func (s *Service) scan(ctx context.Context) (map[string]shell.ApplicationInfo, map[string][]shell.ExtensionEntry, error) {
	started := time.Now()

	var (
		apps     map[string]shell.ApplicationInfo
		menus    map[string][]shell.ExtensionEntry
		appsErr  error
		menusErr error
	)

	if s.concurrent {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			apps, appsErr = s.strategy.DiscoverApplications(ctx)
		}()
		go func() {
			defer wg.Done()
			menus, menusErr = s.strategy.DiscoverContextMenus(ctx)
		}()
		wg.Wait()
	} else {
		apps, appsErr = s.strategy.DiscoverApplications(ctx)
		menus, menusErr = s.strategy.DiscoverContextMenus(ctx)
	}

	// One failing half does not discard the other; the pipeline degrades
	// instead of going dark.
	if appsErr != nil {
		log.ErrorErr(log.CatDiscovery, "application scan failed", appsErr, "strategy", s.strategy.Name())
		apps = map[string]shell.ApplicationInfo{}
	}
	if menusErr != nil {
		log.ErrorErr(log.CatDiscovery, "context-menu scan failed", menusErr, "strategy", s.strategy.Name())
		menus = map[string][]shell.ExtensionEntry{}
	}
	if appsErr != nil && menusErr != nil {
		return nil, nil, appsErr
	}

	apps = s.filterDenylisted(apps)
	MergeApplications(apps, applicationsFromMenus(menus))

	s.appsCache.Set(ctx, appsCacheKey, apps, s.ttl)
	s.menusCache.Set(ctx, menusCacheKey, menus, s.ttl)

	totalEntries := 0
	for _, entries := range menus {
		totalEntries += len(entries)
	}
	log.Info(log.CatDiscovery, "scan complete",
		"strategy", s.strategy.Name(),
		"applications", len(apps),
		"menu_types", len(menus),
		"menu_entries", totalEntries,
		"elapsed", time.Since(started).Round(time.Millisecond))

	return apps, menus, nil
}

func (s *Service) filterDenylisted(apps map[string]shell.ApplicationInfo) map[string]shell.ApplicationInfo {
	if len(s.denylist) == 0 {
		return apps
	}
	filtered := make(map[string]shell.ApplicationInfo, len(apps))
	for id, app := range apps {
		if Denylisted(app.Name, s.denylist) {
			log.Debug(log.CatDiscovery, "denylisted application dropped", "name", app.Name)
			continue
		}
		filtered[id] = app
	}
	return filtered
}

// applicationsFromMenus derives application records from the executables
// that menu commands point at. Verb registrations are often the only trace
// of portable tools.
func applicationsFromMenus(menus map[string][]shell.ExtensionEntry) map[string]shell.ApplicationInfo {
	apps := make(map[string]shell.ApplicationInfo)
	for _, entries := range menus {
		for _, entry := range entries {
			if entry.Executable == "" {
				continue
			}
			name := strings.TrimSuffix(filepath.Base(entry.Executable), filepath.Ext(entry.Executable))
			id := shell.NormalizeAppID(name)
			if id == "" {
				continue
			}
			if _, ok := apps[id]; ok {
				continue
			}
			apps[id] = shell.ApplicationInfo{
				Name:            name,
				Executable:      entry.Executable,
				InstallPath:     filepath.Dir(entry.Executable),
				Exists:          true,
				DiscoveryMethod: "shell_extension",
			}
		}
	}
	return apps
}

func lowerAll(values []string) []string {
	lowered := make([]string, len(values))
	for i, v := range values {
		lowered[i] = strings.ToLower(v)
	}
	return lowered
}
