package models

import (
	"net/http"
	"time"
)

// CacheEntry is a stored response: status, headers and body plus insertion time.
// Body is never mutated after construction, so the page response and the
// cache write may share it.
type CacheEntry struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header,omitempty"`
	Body     []byte      `json:"body"`
	StoredAt int64       `json:"stored_at"`
}

// IsSuccess reports whether the entry carries a 2xx status
func (e *CacheEntry) IsSuccess() bool {
	return e != nil && e.Status >= 200 && e.Status < 300
}

// Age returns how long ago the entry was stored
func (e *CacheEntry) Age(now time.Time) time.Duration {
	if e == nil || e.StoredAt == 0 {
		return 0
	}
	return now.Sub(time.Unix(e.StoredAt, 0))
}

// Clone returns a copy with its own header map; the body is shared.
func (e *CacheEntry) Clone() *CacheEntry {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Header = e.Header.Clone()
	return &clone
}
