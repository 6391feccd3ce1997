package badger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poiesic/scout/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryCache_PutGet(t *testing.T) {
	cache, backend, err := NewMemorySummaryCache()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	_, err = cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, cache.Put(ctx, "turns+feedback", "Backend developers in São Paulo, junior."))
	got, err := cache.Get(ctx, "turns+feedback")
	require.NoError(t, err)
	assert.Equal(t, "Backend developers in São Paulo, junior.", got)

	require.NoError(t, cache.Put(ctx, "turns+feedback", "updated"))
	got, err = cache.Get(ctx, "turns+feedback")
	require.NoError(t, err)
	assert.Equal(t, "updated", got)
}

func TestSummaryCache_Closed(t *testing.T) {
	cache, backend, err := NewMemorySummaryCache()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	_, err = cache.Get(context.Background(), "x")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, cache.Put(context.Background(), "x", "y"), storage.ErrStorageClosed)
}

func TestSummaryCache_CanceledContext(t *testing.T) {
	cache, backend, err := NewMemorySummaryCache()
	require.NoError(t, err)
	defer backend.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, cache.Put(ctx, "x", "y"), context.Canceled)
}

func TestSummaryCache_OwnedBackend(t *testing.T) {
	backend, err := OpenBackend(filepath.Join(t.TempDir(), "cache"), false, nil)
	require.NoError(t, err)

	cache, err := NewSummaryCache(backend, WithOwnedBackend(), WithTTL(0))
	require.NoError(t, err)
	require.NoError(t, cache.Put(context.Background(), "k", "v"))
	require.NoError(t, cache.Close())
	assert.True(t, backend.IsClosed())
}

func TestNewSummaryCache_Options(t *testing.T) {
	_, err := NewSummaryCache(nil)
	assert.Error(t, err)

	backend, err := OpenBackend("", true, nil)
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewSummaryCache(backend, WithTTL(-1))
	assert.Error(t, err)
}
