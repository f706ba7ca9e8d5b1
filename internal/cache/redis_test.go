package cache

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/bookmarks/internal/domain"
)

// mapBackend answers GET, SET and DEL from a map so the client never dials.
type mapBackend struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]any
	failed error
}

func newMapBackend() *mapBackend {
	return &mapBackend{values: map[string]string{}, ttls: map[string]any{}}
}

func (b *mapBackend) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("map backend does not dial")
	}
}

func (b *mapBackend) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (b *mapBackend) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failed != nil {
			cmd.SetErr(b.failed)
			return b.failed
		}

		args := cmd.Args()
		key, _ := args[1].(string)
		switch c := cmd.(type) {
		case *redis.StringCmd:
			value, ok := b.values[key]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(value)
		case *redis.StatusCmd:
			switch value := args[2].(type) {
			case []byte:
				b.values[key] = string(value)
			case string:
				b.values[key] = value
			}
			if len(args) > 4 {
				b.ttls[key] = args[4]
			}
			c.SetVal("OK")
		case *redis.IntCmd:
			var removed int64
			for _, arg := range args[1:] {
				name, _ := arg.(string)
				if _, ok := b.values[name]; ok {
					delete(b.values, name)
					removed++
				}
			}
			c.SetVal(removed)
		}
		return nil
	}
}

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *mapBackend) {
	t.Helper()
	backend := newMapBackend()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(backend)
	store := NewRedisStoreFromClient(client, ttl)
	t.Cleanup(func() { _ = store.Close() })
	return store, backend
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestRedisStore(t, time.Minute)

	_, ok, err := store.Get(ctx, "bookmarks")
	require.NoError(t, err)
	assert.False(t, ok)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	item := domain.NewItem("bookmarks", map[string]any{"Title": "Go Blog", "Category": "Programming"})
	item.CreatedAt, item.UpdatedAt = at, at
	require.NoError(t, store.Set(ctx, "bookmarks", []domain.Item{item}))

	assert.Contains(t, backend.values, "bookmarks:collection:bookmarks")
	assert.EqualValues(t, 60, backend.ttls["bookmarks:collection:bookmarks"])

	got, ok, err := store.Get(ctx, "bookmarks")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, item.ID, got[0].ID)
	assert.Equal(t, item.Properties, got[0].Properties)
	assert.True(t, got[0].CreatedAt.Equal(at))

	_, ok, err = store.Get(ctx, "notes")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Invalidate(ctx, "bookmarks"))
	_, ok, err = store.Get(ctx, "bookmarks")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreEmptySnapshotIsAHit(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t, time.Minute)

	require.NoError(t, store.Set(ctx, "bookmarks", []domain.Item{}))
	got, ok, err := store.Get(ctx, "bookmarks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestRedisStoreErrors(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestRedisStore(t, time.Minute)

	backend.values["bookmarks:collection:bookmarks"] = "not json"
	_, ok, err := store.Get(ctx, "bookmarks")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "decode")

	backend.failed = errors.New("connection refused")
	_, ok, err = store.Get(ctx, "bookmarks")
	require.Error(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, err, backend.failed)
}
