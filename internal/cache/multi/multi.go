package multi

import (
	"errors"
	"io"
	"sort"

	"go.uber.org/zap"

	"go-storefront-proxy/internal/cache"
	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/models"
)

// Ensure MultiCache implements interfaces.LevelAwareCache
var _ interfaces.LevelAwareCache = (*MultiCache)(nil)

// MultiCache implements a composite cache that tries multiple cache implementations
// in order. The first cache is reported as L1, every later one as L2.
type MultiCache struct {
	caches            []interfaces.Cache
	logger            *zap.Logger
	enablePropagation bool
}

// NewMultiCache creates a new MultiCache instance with provided cache implementations.
// With propagation enabled, a hit in a lower tier is copied into the tiers above it.
func NewMultiCache(caches []interfaces.Cache, logger *zap.Logger, enablePropagation bool) interfaces.LevelAwareCache {
	return &MultiCache{
		caches:            caches,
		logger:            logger,
		enablePropagation: enablePropagation,
	}
}

// Get retrieves an entry from the first cache that has it
func (mc *MultiCache) Get(bucket, key string) (*models.CacheEntry, bool) {
	result := mc.GetWithLevel(bucket, key)
	return result.Entry, result.Found
}

// GetWithLevel retrieves an entry and reports which tier answered
func (mc *MultiCache) GetWithLevel(bucket, key string) models.CacheResult {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for get operation", zap.String("bucket", bucket), zap.String("key", key))
		return models.CacheResult{Level: models.CacheLevelMiss}
	}

	for i, c := range mc.caches {
		entry, found := c.Get(bucket, key)
		if !found {
			continue
		}

		if mc.enablePropagation && i > 0 {
			mc.propagate(i, bucket, key, entry)
		}

		level := models.CacheLevelL1
		if i > 0 {
			level = models.CacheLevelL2
		}
		return models.CacheResult{Entry: entry, Found: true, Level: level}
	}

	return models.CacheResult{Level: models.CacheLevelMiss}
}

// propagate copies an entry found at tier upTo into every tier above it
func (mc *MultiCache) propagate(upTo int, bucket, key string, entry *models.CacheEntry) {
	for j := 0; j < upTo; j++ {
		if err := mc.caches[j].Set(bucket, key, entry); err != nil {
			mc.logger.Debug("Failed to propagate cache entry",
				zap.Int("tier", j), zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		}
	}
}

// Set stores an entry in all available caches
func (mc *MultiCache) Set(bucket, key string, entry *models.CacheEntry) error {
	if err := cache.CheckCacheable(entry); err != nil {
		return err
	}

	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for set operation", zap.String("bucket", bucket), zap.String("key", key))
		return nil
	}

	var errs []error
	for _, c := range mc.caches {
		if err := c.Set(bucket, key, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Delete removes an entry from all available caches
func (mc *MultiCache) Delete(bucket, key string) {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for delete operation", zap.String("bucket", bucket), zap.String("key", key))
		return
	}

	for _, c := range mc.caches {
		c.Delete(bucket, key)
	}
}

// Buckets returns the union of bucket names across all caches
func (mc *MultiCache) Buckets() ([]string, error) {
	seen := make(map[string]struct{})
	for _, c := range mc.caches {
		names, err := c.Buckets()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DeleteBucket drops a bucket from every cache
func (mc *MultiCache) DeleteBucket(bucket string) error {
	var errs []error
	for _, c := range mc.caches {
		if err := c.DeleteBucket(bucket); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every cache that holds resources
func (mc *MultiCache) Close() error {
	var errs []error
	for _, c := range mc.caches {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// GetCacheCount returns the number of caches in the multi-cache
func (mc *MultiCache) GetCacheCount() int {
	return len(mc.caches)
}
