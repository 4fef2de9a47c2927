package httpserver

import (
	"time"

	"go-storefront-proxy/internal/generations"
)

// HealthResponse is returned by /health
type HealthResponse struct {
	Status  string    `json:"status"`
	State   string    `json:"state"`
	Version string    `json:"version"`
	Time    time.Time `json:"time"`
}

// BucketsResponse is returned by /buckets
type BucketsResponse struct {
	Success bool `json:"success"`
	generations.Report
	Stale []string `json:"stale"` // buckets the next activation will delete
}

// ErrorResponse is returned on failures
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
