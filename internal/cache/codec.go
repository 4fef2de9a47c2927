package cache

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go-storefront-proxy/internal/models"
)

// ErrCorruptEntry is returned when stored bytes cannot be decoded into an entry
var ErrCorruptEntry = errors.New("corrupt cache entry")

const metaLenSize = 4

// entryMeta is everything in an entry except the body
type entryMeta struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header,omitempty"`
	StoredAt int64       `json:"stored_at"`
}

// EncodeEntry lays out an entry as a big-endian uint32 metadata length, the JSON
// metadata and then the raw body. The body is copied verbatim so stored size
// tracks the response size.
func EncodeEntry(entry *models.CacheEntry) ([]byte, error) {
	meta, err := json.Marshal(entryMeta{
		Status:   entry.Status,
		Header:   entry.Header,
		StoredAt: entry.StoredAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode entry metadata: %w", err)
	}

	data := make([]byte, metaLenSize+len(meta)+len(entry.Body))
	binary.BigEndian.PutUint32(data, uint32(len(meta)))
	copy(data[metaLenSize:], meta)
	copy(data[metaLenSize+len(meta):], entry.Body)
	return data, nil
}

// DecodeEntry reverses EncodeEntry. The returned body aliases data.
func DecodeEntry(data []byte) (*models.CacheEntry, error) {
	if len(data) < metaLenSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorruptEntry, len(data))
	}
	metaLen := int(binary.BigEndian.Uint32(data))
	if metaLen > len(data)-metaLenSize {
		return nil, fmt.Errorf("%w: metadata length %d exceeds %d bytes", ErrCorruptEntry, metaLen, len(data))
	}

	var meta entryMeta
	if err := json.Unmarshal(data[metaLenSize:metaLenSize+metaLen], &meta); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptEntry, err)
	}

	return &models.CacheEntry{
		Status:   meta.Status,
		Header:   meta.Header,
		Body:     data[metaLenSize+metaLen:],
		StoredAt: meta.StoredAt,
	}, nil
}
