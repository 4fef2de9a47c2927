package l1

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"go-storefront-proxy/internal/cache"
	"go-storefront-proxy/internal/config"
	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/metrics"
	"go-storefront-proxy/internal/models"
	"go-storefront-proxy/internal/scheduler"
)

// Ensure BigCache implements interfaces.Cache
var _ interfaces.Cache = (*BigCache)(nil)

const keySeparator = "\x00"

// BigCache implements the in-memory L1 bucket storage using BigCache.
// BigCache has no notion of buckets, so entries are stored under
// bucket+separator+key and a registry tracks which keys each bucket holds.
type BigCache struct {
	cache            *bigcache.BigCache
	logger           *zap.Logger
	metricsScheduler *scheduler.Scheduler

	mu      sync.RWMutex
	buckets map[string]map[string]struct{}
}

// NewBigCache creates a new BigCache instance
func NewBigCache(bigcacheCfg *config.BigCacheConfig, logger *zap.Logger) (interfaces.Cache, error) {
	cfg := *bigcacheCfg
	cfg.ApplyDefaults()

	bcConfig := bigcache.DefaultConfig(cfg.LifeWindow)
	bcConfig.HardMaxCacheSize = cfg.Size // Size in MB
	bcConfig.MaxEntrySize = cfg.MaxEntrySize
	bcConfig.Shards = cfg.EffectiveShards()
	bcConfig.Verbose = false
	bcConfig.Logger = zap.NewStdLog(logger.Named("bigcache"))

	if cfg.Shards > 0 && bcConfig.Shards != cfg.Shards {
		logger.Info("Reduced L1 shard count so every shard holds the largest entry",
			zap.Int("configured", cfg.Shards),
			zap.Int("shards", bcConfig.Shards),
			zap.Int("max_entry_size", cfg.MaxEntrySize))
	}

	bc, err := bigcache.New(context.Background(), bcConfig)
	if err != nil {
		return nil, err
	}

	c := &BigCache{
		cache:   bc,
		logger:  logger,
		buckets: make(map[string]map[string]struct{}),
	}

	// Start periodic metrics collection
	c.startMetricsCollection()

	return c, nil
}

func entryKey(bucket, key string) string {
	return bucket + keySeparator + key
}

// Get retrieves an entry from a bucket
func (c *BigCache) Get(bucket, key string) (*models.CacheEntry, bool) {
	data, err := c.cache.Get(entryKey(bucket, key))
	if err != nil {
		// Evicted by size or life window
		c.forget(bucket, key)
		return nil, false
	}

	entry, err := cache.DecodeEntry(data)
	if err != nil {
		c.logger.Warn("Failed to decode L1 cache entry",
			zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l1", "decode")
		c.Delete(bucket, key) // Remove corrupted entry
		return nil, false
	}

	return entry, true
}

// Set stores a 2xx entry in a bucket, creating the bucket if needed
func (c *BigCache) Set(bucket, key string, entry *models.CacheEntry) error {
	if err := cache.CheckCacheable(entry); err != nil {
		return err
	}

	data, err := cache.EncodeEntry(entry)
	if err != nil {
		metrics.RecordCacheError("l1", "encode")
		return err
	}

	if err := c.cache.Set(entryKey(bucket, key), data); err != nil {
		metrics.RecordCacheError("l1", "upstream")
		return fmt.Errorf("failed to store %d bytes in L1: %w", len(data), err)
	}

	c.mu.Lock()
	keys, ok := c.buckets[bucket]
	if !ok {
		keys = make(map[string]struct{})
		c.buckets[bucket] = keys
	}
	keys[key] = struct{}{}
	c.mu.Unlock()

	return nil
}

// Delete removes an entry from a bucket
func (c *BigCache) Delete(bucket, key string) {
	_ = c.cache.Delete(entryKey(bucket, key))
	c.forget(bucket, key)
}

// Buckets returns the names of buckets holding at least one entry
func (c *BigCache) Buckets() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.buckets))
	for name := range c.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DeleteBucket drops every entry of a bucket
func (c *BigCache) DeleteBucket(bucket string) error {
	c.mu.Lock()
	keys := c.buckets[bucket]
	delete(c.buckets, bucket)
	c.mu.Unlock()

	for key := range keys {
		_ = c.cache.Delete(entryKey(bucket, key))
	}
	return nil
}

// Close closes the cache
func (c *BigCache) Close() error {
	// Stop metrics collection
	c.stopMetricsCollection()

	return c.cache.Close()
}

// GetStats returns cache statistics for metrics
func (c *BigCache) GetStats() (capacity, entries int64) {
	return int64(c.cache.Capacity()), int64(c.cache.Len())
}

// forget removes a key from the bucket registry
func (c *BigCache) forget(bucket, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, ok := c.buckets[bucket]
	if !ok {
		return
	}
	delete(keys, key)
	if len(keys) == 0 {
		delete(c.buckets, bucket)
	}
}

// startMetricsCollection starts periodic metrics collection
func (c *BigCache) startMetricsCollection() {
	c.metricsScheduler = scheduler.New(30*time.Second, c.updateMetrics)
	c.metricsScheduler.Start()

	// Initial collection
	c.updateMetrics()

	c.logger.Debug("Started L1 cache metrics collection")
}

// stopMetricsCollection stops periodic metrics collection
func (c *BigCache) stopMetricsCollection() {
	if c.metricsScheduler != nil {
		c.metricsScheduler.Stop()
		c.logger.Debug("Stopped L1 cache metrics collection")
	}
}

// updateMetrics updates cache metrics
func (c *BigCache) updateMetrics() {
	capacity, entries := c.GetStats()
	metrics.UpdateL1CacheCapacity(capacity)
	metrics.UpdateCacheKeys("l1", entries)
}
