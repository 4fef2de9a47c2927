package cache_rules

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/models"
)

// CacheConfig implements the CacheRulesConfig interface
type CacheConfig struct {
	origin       string
	rules        []PrefixRule // longest prefix first
	destinations map[string]struct{}
	logger       *zap.Logger
}

// Ensure CacheConfig implements the CacheRulesConfig interface
var _ interfaces.CacheRulesConfig = (*CacheConfig)(nil)

// NewCacheConfig creates a new CacheConfig instance for the given public origin
func NewCacheConfig(config *CacheRulesConfig, origin string, logger *zap.Logger) (*CacheConfig, error) {
	if config == nil {
		return nil, fmt.Errorf("cache rules config cannot be nil")
	}

	normalized, err := normalizeOrigin(origin)
	if err != nil {
		return nil, err
	}

	rules := append([]PrefixRule(nil), config.Rules...)
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].Prefix) > len(rules[j].Prefix)
	})

	destinations := make(map[string]struct{}, len(config.ImageDestinations))
	for _, dest := range config.ImageDestinations {
		destinations[strings.ToLower(dest)] = struct{}{}
	}

	return &CacheConfig{
		origin:       normalized,
		rules:        rules,
		destinations: destinations,
		logger:       logger,
	}, nil
}

// normalizeOrigin reduces a URL to scheme://host[:port] with default ports dropped
func normalizeOrigin(origin string) (string, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid origin %q: scheme and host are required", origin)
	}
	return OriginOf(u), nil
}

// OriginOf returns the serialized origin of u
func OriginOf(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host = host + ":" + port
	}
	return scheme + "://" + host
}

// Origin implements CacheRulesConfig interface
func (cr *CacheConfig) Origin() string {
	return cr.origin
}

// IsImageDestination implements CacheRulesConfig interface
func (cr *CacheConfig) IsImageDestination(dest string) bool {
	if dest == "" {
		return false
	}
	_, ok := cr.destinations[strings.ToLower(dest)]
	return ok
}

// RoleForPath returns the role of the longest rule prefix matching path
func (cr *CacheConfig) RoleForPath(path string) (models.Role, bool) {
	for _, rule := range cr.rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule.Role, true
		}
	}

	if cr.logger != nil {
		cr.logger.Debug("No prefix rule matched", zap.String("path", path))
	}
	return "", false
}
