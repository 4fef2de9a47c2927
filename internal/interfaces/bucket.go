package interfaces

import (
	"net/http"

	"go-storefront-proxy/internal/models"
)

//go:generate mockgen -package=mock -source=bucket.go -destination=mock/bucket.go

// BucketStore keeps request/response pairs in named buckets
type BucketStore interface {
	Match(bucket string, req *http.Request) (models.CacheResult, error)
	Put(bucket string, req *http.Request, entry *models.CacheEntry) error
	Buckets() ([]string, error)
	DeleteBucket(bucket string) error
}

// Bucket is a handle on the current generation of one role
type Bucket interface {
	Name() string
	// Match returns the stored response for req, if any
	Match(req *http.Request) (*models.CacheEntry, bool)
	Put(req *http.Request, entry *models.CacheEntry) error
}

// BucketResolver hands out the current bucket for a role
type BucketResolver interface {
	Bucket(role models.Role) Bucket
}
