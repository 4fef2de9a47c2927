package interfaces

import "go-storefront-proxy/internal/models"

//go:generate mockgen -package=mock -source=cache_rules_config.go -destination=mock/cache_rules_config.go

// CacheRulesConfig answers the questions the classifier asks about a request
type CacheRulesConfig interface {
	// Origin returns the scheme and host the worker considers same-origin
	Origin() string
	// IsImageDestination reports whether a Sec-Fetch-Dest value denotes an image
	IsImageDestination(dest string) bool
	// RoleForPath returns the bucket role bound to the longest matching path prefix
	RoleForPath(path string) (models.Role, bool)
}
