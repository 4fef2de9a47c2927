package generations

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/metrics"
	"go-storefront-proxy/internal/models"
)

// Ensure bucket implements interfaces.Bucket
var _ interfaces.Bucket = (*bucket)(nil)

type bucket struct {
	name   string
	role   models.Role
	store  interfaces.BucketStore
	logger *zap.Logger
}

func (b *bucket) Name() string {
	return b.name
}

// Match looks req up in the bucket; lookup errors count as misses
func (b *bucket) Match(req *http.Request) (*models.CacheEntry, bool) {
	result, err := b.store.Match(b.name, req)
	if err != nil {
		b.logger.Debug("Bucket lookup failed", zap.String("bucket", b.name), zap.Error(err))
		metrics.RecordCacheMiss(string(b.role))
		return nil, false
	}

	if !result.Found || result.Entry == nil {
		metrics.RecordCacheMiss(string(b.role))
		return nil, false
	}

	metrics.RecordCacheHit(string(b.role), strings.ToLower(string(result.Level)))
	return result.Entry, true
}

func (b *bucket) Put(req *http.Request, entry *models.CacheEntry) error {
	return b.store.Put(b.name, req, entry)
}
