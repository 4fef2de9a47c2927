package interfaces

import (
	"context"
	"net/http"
)

//go:generate mockgen -package=mock -source=fetcher.go -destination=mock/fetcher.go

// Fetcher performs live network requests on behalf of the worker
type Fetcher interface {
	// Fetch returns the upstream response; the caller owns and must close the body
	Fetch(ctx context.Context, req *http.Request) (*http.Response, error)
}
