package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/bookmarks/internal/domain"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	_, ok, err := store.Get(ctx, "bookmarks")
	require.NoError(t, err)
	assert.False(t, ok)

	items := []domain.Item{domain.NewItem("bookmarks", map[string]any{"Title": "Go"})}
	require.NoError(t, store.Set(ctx, "bookmarks", items))

	got, ok, err := store.Get(ctx, "bookmarks")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, items, got)

	require.NoError(t, store.Invalidate(ctx, "bookmarks"))
	_, ok, err = store.Get(ctx, "bookmarks")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "bookmarks", []domain.Item{}))
	_, ok, _ := store.Get(ctx, "bookmarks")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = store.Get(ctx, "bookmarks")
	assert.False(t, ok)
}

func TestNewSelectsDriver(t *testing.T) {
	ctx := context.Background()

	store, err := New(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, NoopStore{}, store)

	store, err = New(ctx, Options{Driver: "Memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	_, err = New(ctx, Options{Driver: "memcached"})
	assert.Error(t, err)
}
