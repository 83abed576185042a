package log

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoggerWritesAndFansOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twopane.log")
	cleanup, err := InitWithTeaLog(path, "test")
	require.NoError(t, err)
	defer cleanup()
	defer SetMinLevel(LevelDebug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	entries := Subscribe(ctx)
	require.NotNil(t, entries)

	Info(CatMenu, "assembled", "actions", 4)

	select {
	case event := <-entries:
		require.Contains(t, event.Payload, "[INFO] [menu] assembled actions=4")
	case <-time.After(time.Second):
		t.Fatal("no log entry fanned out")
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "assembled actions=4")

	// Entries below the minimum level neither write nor publish.
	SetMinLevel(LevelWarn)
	Info(CatMenu, "suppressed")
	Warn(CatMenu, "visible")

	select {
	case event := <-entries:
		require.Contains(t, event.Payload, "visible")
		require.NotContains(t, event.Payload, "suppressed")
	case <-time.After(time.Second):
		t.Fatal("no log entry fanned out")
	}
}

func TestSubscribe_NilBeforeInit(t *testing.T) {
	saved := defaultLogger
	defaultLogger = nil
	defer func() { defaultLogger = saved }()

	require.Nil(t, Subscribe(context.Background()))
	// Emitting without a logger is a no-op.
	Debug(CatUI, "ignored")
}
