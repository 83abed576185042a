// Package cachemanager wraps an in-memory TTL cache behind a small generic
// interface so discovery components can share one caching idiom and expose
// uniform hit/miss diagnostics.
package cachemanager

import (
	"context"
	"time"

	"github.com/kmatyas/twopane/internal/shell"
)

// CacheManager is the caching contract used by the shell-integration
// components. A value older than its TTL is treated as absent, never
// served stale.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
	Stats() shell.CacheStats
}
