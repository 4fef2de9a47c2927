package cache

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/models"
)

// ErrNotCacheable is returned when a caller tries to store a non-2xx response
var ErrNotCacheable = errors.New("response is not cacheable")

// CheckCacheable rejects entries that may not be written into a bucket
func CheckCacheable(entry *models.CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: nil entry", ErrNotCacheable)
	}
	if !entry.IsSuccess() {
		return fmt.Errorf("%w: status %d", ErrNotCacheable, entry.Status)
	}
	return nil
}

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() interfaces.KeyBuilder {
	return &KeyBuilderImpl{}
}

// Build creates a cache key from the request identity: method plus exact URL.
// HEAD shares the GET entry; the fragment never reaches the server and is dropped.
func (kb *KeyBuilderImpl) Build(req *http.Request) (string, error) {
	if req == nil {
		return "", errors.New("request cannot be nil")
	}

	if req.URL == nil {
		return "", errors.New("request URL cannot be nil")
	}

	method := req.Method
	if method == "" || method == http.MethodHead {
		method = http.MethodGet
	}
	if method != http.MethodGet {
		return "", fmt.Errorf("method %s cannot be cached", req.Method)
	}

	u := *req.URL
	u.Fragment = ""
	u.RawFragment = ""

	target := u.String()
	if !u.IsAbs() {
		target = absoluteURL(req, &u)
	}

	return fmt.Sprintf("%s %s", method, target), nil
}

// absoluteURL rebuilds the full URL of an inbound server request, whose URL only
// carries the path and query
func absoluteURL(req *http.Request, u *url.URL) string {
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	if fwd := req.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}

	host := req.Host
	if host == "" {
		host = u.Host
	}

	abs := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     u.Path,
		RawPath:  u.RawPath,
		RawQuery: u.RawQuery,
	}
	return abs.String()
}
