package l2

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-storefront-proxy/internal/config"
	"go-storefront-proxy/internal/interfaces"
)

// Ensure RedisKeyDbClient implements interfaces.KeyDbClient
var _ interfaces.KeyDbClient = (*RedisKeyDbClient)(nil)

// RedisKeyDbClient is a go-redis client narrowed to interfaces.KeyDbClient
type RedisKeyDbClient struct {
	*redis.Client
}

// NewRedisKeyDbClient connects to keydbURL and pings it once
func NewRedisKeyDbClient(keydbCfg *config.KeyDBConfig, keydbURL string, logger *zap.Logger) (interfaces.KeyDbClient, error) {
	opts, err := clientOptions(keydbCfg, keydbURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to KeyDB at %s: %w", opts.Addr, err)
	}

	logger.Info("Connected to KeyDB",
		zap.String("address", opts.Addr),
		zap.Int("db", opts.DB),
		zap.Bool("tls", opts.TLSConfig != nil),
		zap.Int("pool_size", opts.PoolSize))

	return &RedisKeyDbClient{Client: client}, nil
}

// clientOptions parses redis:// or rediss:// URLs and applies the configured socket settings
func clientOptions(keydbCfg *config.KeyDBConfig, keydbURL string) (*redis.Options, error) {
	opts, err := redis.ParseURL(keydbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse KeyDB URL: %w", err)
	}

	cfg := *keydbCfg
	cfg.ApplyDefaults()

	opts.DialTimeout = cfg.Connection.ConnectTimeout
	opts.ReadTimeout = cfg.GetReadTimeout()
	opts.WriteTimeout = cfg.GetSendTimeout()
	opts.PoolSize = cfg.Keepalive.PoolSize
	opts.IdleTimeout = cfg.Keepalive.MaxIdleTimeout
	return opts, nil
}
