package l2

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-storefront-proxy/internal/cache"
	"go-storefront-proxy/internal/config"
	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/metrics"
	"go-storefront-proxy/internal/models"
)

// Ensure KeyDBCache implements interfaces.Cache
var _ interfaces.Cache = (*KeyDBCache)(nil)

// KeyDBCache implements the shared L2 bucket storage using Redis/KeyDB.
//
// Layout, for a key prefix P:
//
//	P:buckets                  set of bucket names
//	P:bucket-keys:<bucket>     set of request keys stored in the bucket
//	P:bucket:<bucket>:<key>    cache.EncodeEntry layout (metadata length, JSON metadata, raw body)
//
// Entries never expire; a bucket goes away only through DeleteBucket.
type KeyDBCache struct {
	client interfaces.KeyDbClient
	config *config.KeyDBConfig
	logger *zap.Logger
}

// NewKeyDBCache creates a new KeyDBCache instance with provided client
func NewKeyDBCache(cfg *config.KeyDBConfig, client interfaces.KeyDbClient, logger *zap.Logger) interfaces.Cache {
	return &KeyDBCache{
		client: client,
		config: cfg,
		logger: logger,
	}
}

func (kc *KeyDBCache) prefix() string {
	if kc.config.KeyPrefix == "" {
		return "storefront"
	}
	return kc.config.KeyPrefix
}

func (kc *KeyDBCache) namesKey() string {
	return kc.prefix() + ":buckets"
}

func (kc *KeyDBCache) indexKey(bucket string) string {
	return fmt.Sprintf("%s:bucket-keys:%s", kc.prefix(), bucket)
}

func (kc *KeyDBCache) entryKey(bucket, key string) string {
	return fmt.Sprintf("%s:bucket:%s:%s", kc.prefix(), bucket, key)
}

// Get retrieves an entry from a bucket
func (kc *KeyDBCache) Get(bucket, key string) (*models.CacheEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetReadTimeout())
	defer cancel()

	data, err := kc.client.Get(ctx, kc.entryKey(bucket, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			kc.logger.Error("L2 cache get error",
				zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
			metrics.RecordCacheError("l2", "upstream")
		}
		return nil, false
	}

	entry, err := cache.DecodeEntry(data)
	if err != nil {
		kc.logger.Error("Failed to decode L2 cache entry",
			zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l2", "decode")
		kc.Delete(bucket, key)
		return nil, false
	}

	return entry, true
}

// Set stores a 2xx entry in a bucket and registers both key and bucket
func (kc *KeyDBCache) Set(bucket, key string, entry *models.CacheEntry) error {
	if err := cache.CheckCacheable(entry); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetSendTimeout())
	defer cancel()

	data, err := cache.EncodeEntry(entry)
	if err != nil {
		metrics.RecordCacheError("l2", "encode")
		return fmt.Errorf("failed to encode L2 cache entry: %w", err)
	}

	if err := kc.client.Set(ctx, kc.entryKey(bucket, key), data, 0).Err(); err != nil {
		metrics.RecordCacheError("l2", "upstream")
		return fmt.Errorf("failed to set L2 cache entry: %w", err)
	}

	if err := kc.client.SAdd(ctx, kc.indexKey(bucket), key).Err(); err != nil {
		metrics.RecordCacheError("l2", "upstream")
		return fmt.Errorf("failed to index L2 cache entry: %w", err)
	}

	if err := kc.client.SAdd(ctx, kc.namesKey(), bucket).Err(); err != nil {
		metrics.RecordCacheError("l2", "upstream")
		return fmt.Errorf("failed to register L2 bucket: %w", err)
	}

	return nil
}

// Delete removes an entry from a bucket
func (kc *KeyDBCache) Delete(bucket, key string) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetSendTimeout())
	defer cancel()

	if err := kc.client.Del(ctx, kc.entryKey(bucket, key)).Err(); err != nil {
		kc.logger.Error("Failed to delete L2 cache entry",
			zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		return
	}

	if err := kc.client.SRem(ctx, kc.indexKey(bucket), key).Err(); err != nil {
		kc.logger.Error("Failed to unindex L2 cache entry",
			zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
	}
}

// Buckets returns every registered bucket name
func (kc *KeyDBCache) Buckets() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetReadTimeout())
	defer cancel()

	names, err := kc.client.SMembers(ctx, kc.namesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list L2 buckets: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// DeleteBucket drops every entry of a bucket, its index and its registration
func (kc *KeyDBCache) DeleteBucket(bucket string) error {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetSendTimeout())
	defer cancel()

	keys, err := kc.client.SMembers(ctx, kc.indexKey(bucket)).Result()
	if err != nil {
		return fmt.Errorf("failed to list L2 bucket %s: %w", bucket, err)
	}

	doomed := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		doomed = append(doomed, kc.entryKey(bucket, key))
	}
	doomed = append(doomed, kc.indexKey(bucket))

	if err := kc.client.Del(ctx, doomed...).Err(); err != nil {
		return fmt.Errorf("failed to delete L2 bucket %s: %w", bucket, err)
	}

	if err := kc.client.SRem(ctx, kc.namesKey(), bucket).Err(); err != nil {
		return fmt.Errorf("failed to unregister L2 bucket %s: %w", bucket, err)
	}

	return nil
}

// Close closes the KeyDB connection
func (kc *KeyDBCache) Close() error {
	return kc.client.Close()
}
