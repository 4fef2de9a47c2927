package interfaces

import (
	"go-storefront-proxy/internal/models"
)

//go:generate mockgen -package=mock -source=cache.go -destination=mock/cache.go

// Cache stores responses grouped into named buckets
type Cache interface {
	Get(bucket, key string) (*models.CacheEntry, bool) // returns entry and found flag
	Set(bucket, key string, entry *models.CacheEntry) error
	Delete(bucket, key string)
	// Buckets returns the names of every bucket holding state
	Buckets() ([]string, error)
	// DeleteBucket drops a bucket and all its entries
	DeleteBucket(bucket string) error
}

// LevelAwareCache reports which tier answered a lookup
type LevelAwareCache interface {
	Cache
	GetWithLevel(bucket, key string) models.CacheResult
}
