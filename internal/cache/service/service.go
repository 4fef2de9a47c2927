package service

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"go-storefront-proxy/internal/cache"
	"go-storefront-proxy/internal/cache/multi"
	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/models"
)

// Ensure CacheService implements interfaces.BucketStore
var _ interfaces.BucketStore = (*CacheService)(nil)

// CacheService keys requests and stores their responses across the L1 and L2 tiers
type CacheService struct {
	multiCache interfaces.LevelAwareCache
	keyBuilder interfaces.KeyBuilder
	logger     *zap.Logger
	tiers      []interfaces.Cache
}

// NewCacheService creates a new cache service instance with MultiCache
func NewCacheService(l1Cache, l2Cache interfaces.Cache, enablePropagation bool, logger *zap.Logger) *CacheService {
	// Create MultiCache with L1 and L2 caches
	caches := []interfaces.Cache{l1Cache, l2Cache}
	multiCache := multi.NewMultiCache(caches, logger, enablePropagation)

	return &CacheService{
		multiCache: multiCache,
		keyBuilder: cache.NewKeyBuilder(),
		logger:     logger,
		tiers:      caches,
	}
}

// Match looks up the stored response for req in bucket
func (s *CacheService) Match(bucket string, req *http.Request) (models.CacheResult, error) {
	key, err := s.keyBuilder.Build(req)
	if err != nil {
		return models.CacheResult{Level: models.CacheLevelMiss}, fmt.Errorf("failed to build cache key: %w", err)
	}

	return s.multiCache.GetWithLevel(bucket, key), nil
}

// Put stores entry as the response for req in bucket
func (s *CacheService) Put(bucket string, req *http.Request, entry *models.CacheEntry) error {
	key, err := s.keyBuilder.Build(req)
	if err != nil {
		return fmt.Errorf("failed to build cache key: %w", err)
	}

	if err := s.multiCache.Set(bucket, key, entry); err != nil {
		return fmt.Errorf("failed to store %s in %s: %w", key, bucket, err)
	}

	s.logger.Debug("Stored cache entry", zap.String("bucket", bucket), zap.String("key", key))
	return nil
}

// Buckets lists every bucket name known to any tier
func (s *CacheService) Buckets() ([]string, error) {
	return s.multiCache.Buckets()
}

// DeleteBucket drops a bucket from every tier
func (s *CacheService) DeleteBucket(bucket string) error {
	return s.multiCache.DeleteBucket(bucket)
}

// Close releases the tiers that hold resources
func (s *CacheService) Close() error {
	var errs []error
	for _, tier := range s.tiers {
		if closer, ok := tier.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
