package factory

import (
	"fmt"

	"go.uber.org/zap"

	"go-storefront-proxy/internal/cache/l2"
	"go-storefront-proxy/internal/config"
	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/kvstore/bolt"
	"go-storefront-proxy/internal/kvstore/memory"
	"go-storefront-proxy/internal/kvstore/redis"
	"go-storefront-proxy/internal/kvstore/sqlite"
)

// Open returns the key-value store selected by cfg.Storage.Backend.
// keydbURL is only used by the redis backend.
func Open(cfg *config.Config, keydbURL string, logger *zap.Logger) (interfaces.KVStore, error) {
	storage := cfg.Storage

	switch storage.Backend {
	case "bolt":
		store, err := bolt.Open(storage.Path, storage.QuotaBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt store: %w", err)
		}
		logger.Info("Bolt state store opened", zap.String("path", storage.Path))
		return store, nil
	case "sqlite":
		store, err := sqlite.Open(storage.Path, storage.QuotaBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("SQLite state store opened", zap.String("path", storage.Path))
		return store, nil
	case "redis":
		client, err := l2.NewRedisKeyDbClient(&cfg.KeyDB, keydbURL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis store: %w", err)
		}
		logger.Info("Redis state store opened", zap.String("prefix", cfg.KeyDB.KeyPrefix))
		return redis.New(client, cfg.KeyDB.KeyPrefix), nil
	case "memory":
		logger.Warn("Using in-memory state store, cart will not survive restarts")
		return memory.New(storage.QuotaBytes), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", storage.Backend)
	}
}
