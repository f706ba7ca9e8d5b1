// Package cache keeps collection snapshots between queries.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rpattn/bookmarks/internal/domain"
)

const (
	DriverNone   = "none"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Store caches the full item list of a collection.
// Get reports false on a miss; a miss is not an error.
type Store interface {
	Get(ctx context.Context, collection string) ([]domain.Item, bool, error)
	Set(ctx context.Context, collection string, items []domain.Item) error
	Invalidate(ctx context.Context, collection string) error
}

// Options configures the store built by New.
type Options struct {
	Driver string
	TTL    time.Duration
	Redis  RedisOptions
}

// New builds the store selected by opts.Driver.
func New(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Driver) {
	case "", DriverNone:
		return NoopStore{}, nil
	case DriverMemory:
		return NewMemoryStore(opts.TTL), nil
	case DriverRedis:
		return NewRedisStore(ctx, opts.Redis, opts.TTL)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", opts.Driver)
	}
}

// NoopStore never holds anything.
type NoopStore struct{}

func (NoopStore) Get(context.Context, string) ([]domain.Item, bool, error) { return nil, false, nil }
func (NoopStore) Set(context.Context, string, []domain.Item) error          { return nil }
func (NoopStore) Invalidate(context.Context, string) error                  { return nil }
