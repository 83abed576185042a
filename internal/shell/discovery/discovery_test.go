package discovery

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kmatyas/twopane/internal/pubsub"
	"github.com/kmatyas/twopane/internal/shell"
)

type fakeStrategy struct {
	apps      map[string]shell.ApplicationInfo
	menus     map[string][]shell.ExtensionEntry
	appsErr   error
	menusErr  error
	appScans  atomic.Int64
	menuScans atomic.Int64
}

func (f *fakeStrategy) Name() string { return "fake" }

func (f *fakeStrategy) DiscoverApplications(ctx context.Context) (map[string]shell.ApplicationInfo, error) {
	f.appScans.Add(1)
	return f.apps, f.appsErr
}

func (f *fakeStrategy) DiscoverContextMenus(ctx context.Context) (map[string][]shell.ExtensionEntry, error) {
	f.menuScans.Add(1)
	return f.menus, f.menusErr
}

func sampleStrategy() *fakeStrategy {
	return &fakeStrategy{
		apps: map[string]shell.ApplicationInfo{
			"vlc": {Name: "VLC", Executable: "/usr/bin/vlc", Exists: true},
			"microsoft_visual_c++_redistributable": {Name: "Microsoft Visual C++ Redistributable"},
		},
		menus: map[string][]shell.ExtensionEntry{
			".txt": {
				{Text: "Edit", Command: "/usr/bin/editor %1", Action: "edit", Executable: "/usr/bin/editor"},
			},
			"*": {
				{Text: "Scan", Command: "/usr/bin/scanner %1", Action: "scan"},
			},
		},
	}
}

func defaultDenylist() []string {
	return []string{"microsoft visual c++", "redistributable", "runtime", "hotfix"}
}

func TestApplications_FiltersDenylistAndMergesMenuApps(t *testing.T) {
	svc := New(sampleStrategy(), defaultDenylist(), time.Hour)

	apps, err := svc.Applications(context.Background())
	require.NoError(t, err)

	require.Contains(t, apps, "vlc")
	require.NotContains(t, apps, "microsoft_visual_c++_redistributable")

	// /usr/bin/editor comes from the .txt menu command.
	editor, ok := apps["editor"]
	require.True(t, ok)
	require.Equal(t, "/usr/bin/editor", editor.Executable)
	require.Equal(t, "shell_extension", editor.DiscoveryMethod)
}

func TestApplications_CachedBetweenCalls(t *testing.T) {
	strategy := sampleStrategy()
	svc := New(strategy, nil, time.Hour)

	_, err := svc.Applications(context.Background())
	require.NoError(t, err)
	_, err = svc.Applications(context.Background())
	require.NoError(t, err)

	require.Equal(t, int64(1), strategy.appScans.Load())
}

func TestApplications_TTLExpiryTriggersRescan(t *testing.T) {
	strategy := sampleStrategy()
	svc := New(strategy, nil, 20*time.Millisecond)

	_, err := svc.Applications(context.Background())
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = svc.Applications(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), strategy.appScans.Load())
}

func TestEntriesForType(t *testing.T) {
	svc := New(sampleStrategy(), nil, time.Hour)

	entries, err := svc.EntriesForType(context.Background(), ".txt")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Edit", entries[0].Text)

	unknown, err := svc.EntriesForType(context.Background(), ".nope")
	require.NoError(t, err)
	require.Empty(t, unknown)
}

func TestFindApplication(t *testing.T) {
	svc := New(sampleStrategy(), nil, time.Hour)

	// Exact normalized id.
	app, ok, err := svc.FindApplication(context.Background(), "VLC")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "/usr/bin/vlc", app.Executable)

	// Partial case-insensitive match over display names.
	app, ok, err = svc.FindApplication(context.Background(), "vl")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "VLC", app.Name)

	_, ok, err = svc.FindApplication(context.Background(), "nonexistent")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = svc.FindApplication(context.Background(), "   ")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClearCache_PublishesInvalidation(t *testing.T) {
	broker := pubsub.NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := broker.Subscribe(ctx)

	strategy := sampleStrategy()
	svc := New(strategy, nil, time.Hour, WithBroker(broker))

	_, err := svc.Applications(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.ClearCache(context.Background()))

	select {
	case event := <-events:
		require.Equal(t, pubsub.InvalidatedEvent, event.Type)
		require.Equal(t, "discovery", event.Payload)
	case <-time.After(time.Second):
		t.Fatal("no invalidation event received")
	}

	_, err = svc.Applications(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), strategy.appScans.Load())
}

func TestScan_PartialFailureKeepsOtherHalf(t *testing.T) {
	strategy := sampleStrategy()
	strategy.appsErr = errors.New("hive locked")
	svc := New(strategy, nil, time.Hour)

	menus, err := svc.ContextMenus(context.Background())
	require.NoError(t, err)
	require.Contains(t, menus, ".txt")

	// Applications still carries the records derived from menu commands.
	apps, err := svc.Applications(context.Background())
	require.NoError(t, err)
	require.Contains(t, apps, "editor")
}

func TestScan_TotalFailure(t *testing.T) {
	strategy := &fakeStrategy{
		appsErr:  errors.New("hive locked"),
		menusErr: errors.New("hive locked"),
	}
	svc := New(strategy, nil, time.Hour)

	_, err := svc.Applications(context.Background())
	require.Error(t, err)
}

func TestStats(t *testing.T) {
	svc := New(sampleStrategy(), nil, time.Hour)

	stats := svc.Stats(context.Background())
	require.False(t, stats.CacheValid)

	_, err := svc.Applications(context.Background())
	require.NoError(t, err)

	stats = svc.Stats(context.Background())
	require.True(t, stats.CacheValid)
	require.Equal(t, 2, stats.TotalMenuTypes)
	require.Equal(t, 2, stats.TotalMenuEntries)
	require.GreaterOrEqual(t, stats.TotalApplications, 1)
}

func TestConcurrentScan(t *testing.T) {
	strategy := sampleStrategy()
	svc := New(strategy, nil, time.Hour, WithConcurrentScan(true))

	apps, err := svc.Applications(context.Background())
	require.NoError(t, err)
	require.Contains(t, apps, "vlc")
	require.Equal(t, int64(1), strategy.appScans.Load())
	require.Equal(t, int64(1), strategy.menuScans.Load())
}

func TestRefresh(t *testing.T) {
	strategy := sampleStrategy()
	svc := New(strategy, nil, time.Hour)

	_, err := svc.Applications(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.Refresh(context.Background()))

	require.Equal(t, int64(2), strategy.appScans.Load())
	require.True(t, svc.Stats(context.Background()).CacheValid)
}
