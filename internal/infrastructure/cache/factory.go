package cache

import (
	"fmt"

	"github.com/quoteflow/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SnapshotCacheFactory creates snapshot caches based on configuration
type SnapshotCacheFactory struct {
	cacheConfig      config.CacheConfig
	redisConfig      config.RedisConfig
	logger           *zap.Logger
	allowMemFallback bool
}

// SnapshotCacheFactoryOption is a functional option for configuring the factory
type SnapshotCacheFactoryOption func(*SnapshotCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SnapshotCacheFactoryOption {
	return func(f *SnapshotCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// cache when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) SnapshotCacheFactoryOption {
	return func(f *SnapshotCacheFactory) {
		f.allowMemFallback = allow
	}
}

// NewSnapshotCacheFactory creates a new factory
func NewSnapshotCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...SnapshotCacheFactoryOption) *SnapshotCacheFactory {
	f := &SnapshotCacheFactory{
		cacheConfig:      cacheCfg,
		redisConfig:      redisCfg,
		logger:           zap.NewNop(),
		allowMemFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateCache creates a snapshot cache matching the configured backend.
// With the redis backend it tries Redis first and falls back to the
// in-memory cache when allowed.
func (f *SnapshotCacheFactory) CreateCache(loader Loader) (SnapshotCache, error) {
	if f.cacheConfig.Backend != "redis" {
		return NewInMemorySnapshotCache(loader, f.cacheConfig.TTL), nil
	}

	cache, err := NewRedisSnapshotCache(RedisConfig{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, loader, f.cacheConfig.TTL)
	if err == nil {
		f.logger.Info("using Redis catalog snapshot cache")
		return cache, nil
	}

	if !f.allowMemFallback {
		return nil, fmt.Errorf("Redis required for snapshot cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory catalog snapshot cache. "+
		"Instances will not share invalidations in distributed deployments.",
		zap.Error(err),
	)
	return NewInMemorySnapshotCache(loader, f.cacheConfig.TTL), nil
}
