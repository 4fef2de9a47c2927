package utils

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go-storefront-proxy/internal/models"
)

// ReadEntry drains and closes resp.Body into an immutable CacheEntry.
// The body is read exactly once; callers share the returned entry.
func ReadEntry(resp *http.Response, now time.Time) (*models.CacheEntry, error) {
	if resp == nil {
		return nil, fmt.Errorf("nil response")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	header := resp.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}

	return &models.CacheEntry{
		Status:   resp.StatusCode,
		Header:   header,
		Body:     body,
		StoredAt: now.Unix(),
	}, nil
}

// SynthesizedEntry builds a locally generated response that must never be stored
func SynthesizedEntry(status int, contentType string, body []byte) *models.CacheEntry {
	header := make(http.Header)
	header.Set("Content-Type", contentType)
	header.Set("Cache-Control", "no-store")
	return &models.CacheEntry{
		Status: status,
		Header: header,
		Body:   body,
	}
}

// WriteEntry writes entry to w; HEAD requests get the headers only
func WriteEntry(w http.ResponseWriter, entry *models.CacheEntry, headOnly bool) error {
	dst := w.Header()
	for name, values := range entry.Header {
		dst[name] = append([]string(nil), values...)
	}
	dst.Set("Content-Length", strconv.Itoa(len(entry.Body)))

	status := entry.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if headOnly {
		return nil
	}
	_, err := w.Write(entry.Body)
	return err
}
