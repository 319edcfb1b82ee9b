package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quoteflow/backend/internal/domain/catalog"
	"github.com/redis/go-redis/v9"
)

// RedisSnapshotCache shares one catalog snapshot across process
// instances through Redis. The payload is the raw catalog rows;
// the lookup maps are rebuilt on read.
type RedisSnapshotCache struct {
	client *redis.Client
	loader Loader
	key    string
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type snapshotPayload struct {
	Services []catalog.Service    `json:"services"`
	Bundles  []catalog.Bundle     `json:"bundles"`
	Items    []catalog.BundleItem `json:"items"`
}

// NewRedisSnapshotCache creates a Redis-backed snapshot cache
func NewRedisSnapshotCache(cfg RedisConfig, loader Loader, ttl time.Duration) (*RedisSnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSnapshotCache{
		client: client,
		loader: loader,
		key:    "catalog:snapshot",
		ttl:    ttl,
	}, nil
}

// NewRedisSnapshotCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisSnapshotCacheWithClient(client *redis.Client, loader Loader, key string, ttl time.Duration) *RedisSnapshotCache {
	if key == "" {
		key = "catalog:snapshot"
	}
	return &RedisSnapshotCache{client: client, loader: loader, key: key, ttl: ttl}
}

// Get returns the shared snapshot, reloading and republishing when the
// Redis entry has expired or was invalidated
func (c *RedisSnapshotCache) Get(ctx context.Context) (*Snapshot, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err == nil {
		var payload snapshotPayload
		if jsonErr := json.Unmarshal(raw, &payload); jsonErr == nil {
			return NewSnapshot(payload.Services, payload.Bundles, payload.Items), nil
		}
		// Corrupt entry: fall through and rebuild
	} else if err != redis.Nil {
		return nil, fmt.Errorf("failed to read catalog snapshot: %w", err)
	}

	snap, err := c.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	payload := snapshotPayload{}
	for _, svc := range snap.services {
		payload.Services = append(payload.Services, svc)
	}
	for _, b := range snap.bundles {
		payload.Bundles = append(payload.Bundles, b)
	}
	for _, items := range snap.items {
		payload.Items = append(payload.Items, items...)
	}

	raw, err = json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to publish catalog snapshot: %w", err)
	}

	return snap, nil
}

// Invalidate deletes the shared snapshot so every instance reloads
func (c *RedisSnapshotCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog snapshot: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisSnapshotCache) Close() error {
	return c.client.Close()
}

var _ SnapshotCache = (*RedisSnapshotCache)(nil)
