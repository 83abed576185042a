package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type wrappedInput struct {
	Ext string
}

func TestReadThroughCache_Get_WithCacheDisabled(t *testing.T) {
	cache := NewInMemoryCacheManager[string, []*ExampleStruct]("extensions", DefaultExpiration, DefaultCleanupInterval)
	calls := 0

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		cache,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			calls++
			return []*ExampleStruct{{Name: input.Ext}}, nil
		},
		true,
	)

	for range 2 {
		entries, err := readThroughCache.Get(context.Background(), "ext:.txt", wrappedInput{Ext: ".txt"}, time.Minute)
		require.NoError(t, err)
		require.Equal(t, []*ExampleStruct{{Name: ".txt"}}, entries)
	}
	require.Equal(t, 2, calls)
}

func TestReadThroughCache_Get_WithValueInCache(t *testing.T) {
	cache := NewInMemoryCacheManager[string, []*ExampleStruct]("extensions", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "ext:.txt", []*ExampleStruct{{ID: 1, Name: "cached"}}, DefaultExpiration)

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		cache,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			t.Fatal("loader should not run on cache hit")
			return nil, nil
		},
		false,
	)

	entries, err := readThroughCache.Get(context.Background(), "ext:.txt", wrappedInput{Ext: ".txt"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{{ID: 1, Name: "cached"}}, entries)
}

func TestReadThroughCache_Get_EmptyCache(t *testing.T) {
	cache := NewInMemoryCacheManager[string, []*ExampleStruct]("extensions", DefaultExpiration, DefaultCleanupInterval)
	calls := 0

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		cache,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			calls++
			return []*ExampleStruct{{ID: 1, Name: input.Ext}}, nil
		},
		false,
	)

	entries, err := readThroughCache.Get(context.Background(), "ext:.txt", wrappedInput{Ext: ".txt"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{{ID: 1, Name: ".txt"}}, entries)

	// second read is served from the cache
	entries, err = readThroughCache.Get(context.Background(), "ext:.txt", wrappedInput{Ext: ".txt"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{{ID: 1, Name: ".txt"}}, entries)
	require.Equal(t, 1, calls)
}

func TestReadThroughCache_Get_LoaderError(t *testing.T) {
	cache := NewInMemoryCacheManager[string, []*ExampleStruct]("extensions", DefaultExpiration, DefaultCleanupInterval)

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		cache,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			return nil, errors.New("failed to get data")
		},
		false,
	)

	_, err := readThroughCache.Get(context.Background(), "ext:.txt", wrappedInput{Ext: ".txt"}, time.Minute)
	require.Error(t, err)

	// the failure is not cached
	_, ok := cache.Get(context.Background(), "ext:.txt")
	require.False(t, ok)
}

func TestReadThroughCache_Invalidate(t *testing.T) {
	cache := NewInMemoryCacheManager[string, []*ExampleStruct]("extensions", DefaultExpiration, DefaultCleanupInterval)
	calls := 0

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		cache,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			calls++
			return []*ExampleStruct{{ID: calls}}, nil
		},
		false,
	)

	entries, err := readThroughCache.Get(context.Background(), "ext:.txt", wrappedInput{Ext: ".txt"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{{ID: 1}}, entries)

	require.NoError(t, readThroughCache.Invalidate(context.Background(), "ext:.txt"))

	entries, err = readThroughCache.Get(context.Background(), "ext:.txt", wrappedInput{Ext: ".txt"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{{ID: 2}}, entries)
}
