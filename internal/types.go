package internal

import (
	"context"

	"sjsage522/carcrawler/config"
	"sjsage522/carcrawler/logger"
	apperrors "sjsage522/carcrawler/pkg/errors"
	"sjsage522/carcrawler/services/cache"
	"sjsage522/carcrawler/services/publisher"
	"sjsage522/carcrawler/services/storage"
)

// Dependencies holds all service dependencies
type Dependencies struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Writer    storage.DatasetWriter
}

// NewDependencies initializes all services from the configuration.
// Memcache and Redis are optional; without them pages are cached in memory
// and nothing is published.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{
		Writer: storage.NewCSVWriter(cfg.OutputPath),
	}

	if cfg.MemcacheAddr != "" {
		memcache := cache.NewMemcacheService(cfg.MemcacheAddr, "carcrawler_")
		if err := memcache.Ping(); err != nil {
			logger.ForCache().Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache unreachable, using memory cache")
			deps.Cache = cache.NewMemoryCache()
		} else {
			logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
			deps.Cache = memcache
		}
	} else {
		deps.Cache = cache.NewMemoryCache()
	}

	if cfg.RedisAddr != "" {
		redisPublisher := publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		if err := redisPublisher.Ping(); err != nil {
			redisPublisher.Close()
			return nil, apperrors.NewPublisher(cfg.RedisAddr, "redis unreachable", err)
		}
		deps.Publisher = redisPublisher

		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	return deps, nil
}

// Cleanup cleans up all services
func (d *Dependencies) Cleanup() {
	if d.Publisher != nil {
		d.Publisher.Close()
	}
}
