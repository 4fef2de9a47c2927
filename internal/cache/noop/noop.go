package noop

import (
	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/models"
)

// Ensure NoOpCache implements interfaces.Cache
var _ interfaces.Cache = (*NoOpCache)(nil)

// NoOpCache is a no-operation cache implementation for disabled tiers
type NoOpCache struct{}

// NewNoOpCache creates a new no-operation cache instance
func NewNoOpCache() interfaces.Cache {
	return &NoOpCache{}
}

// Get always returns cache miss
func (n *NoOpCache) Get(bucket, key string) (*models.CacheEntry, bool) {
	return nil, false
}

// Set does nothing
func (n *NoOpCache) Set(bucket, key string, entry *models.CacheEntry) error {
	return nil
}

// Delete does nothing
func (n *NoOpCache) Delete(bucket, key string) {}

// Buckets reports no buckets
func (n *NoOpCache) Buckets() ([]string, error) {
	return nil, nil
}

// DeleteBucket does nothing
func (n *NoOpCache) DeleteBucket(bucket string) error {
	return nil
}
