package cache_rules

import (
	"go-storefront-proxy/internal/models"
)

// PrefixRule binds every same-origin path under Prefix to a bucket role
type PrefixRule struct {
	Prefix string      `yaml:"prefix"`
	Role   models.Role `yaml:"role"`
}

// CacheRulesConfig represents the cache rules configuration
type CacheRulesConfig struct {
	Rules []PrefixRule `yaml:"rules"`
	// ImageDestinations lists Sec-Fetch-Dest values routed to the images role
	ImageDestinations []string `yaml:"image_destinations"`
}

// DefaultCacheRules returns the storefront's built-in routing: /images/ and /api/
func DefaultCacheRules() *CacheRulesConfig {
	return &CacheRulesConfig{
		Rules: []PrefixRule{
			{Prefix: "/images/", Role: models.RoleImages},
			{Prefix: "/api/", Role: models.RoleAPI},
		},
		ImageDestinations: []string{"image"},
	}
}
