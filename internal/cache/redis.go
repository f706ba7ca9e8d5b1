package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rpattn/bookmarks/internal/domain"
)

const keyPrefix = "bookmarks:collection:"

type RedisOptions struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RedisStore keeps snapshots as JSON strings with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, opts RedisOptions, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}
	return NewRedisStoreFromClient(client, ttl), nil
}

func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, collection string) ([]domain.Item, bool, error) {
	payload, err := s.client.Get(ctx, redisKey(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached collection %q: %w", collection, err)
	}
	var items []domain.Item
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached collection %q: %w", collection, err)
	}
	return items, true, nil
}

func (s *RedisStore) Set(ctx context.Context, collection string, items []domain.Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode collection %q: %w", collection, err)
	}
	return s.client.Set(ctx, redisKey(collection), payload, s.ttl).Err()
}

func (s *RedisStore) Invalidate(ctx context.Context, collection string) error {
	return s.client.Del(ctx, redisKey(collection)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(collection string) string {
	return keyPrefix + collection
}
