package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Strategy names the fallback protocol applied to an intercepted request
type Strategy string

const (
	StrategyPassThrough                 Strategy = "pass-through"
	StrategyCacheFirst                  Strategy = "cache-first"
	StrategyNetworkFirstBackgroundFill  Strategy = "network-first-background-fill"
	StrategyNetworkFirstOfflineFallback Strategy = "network-first-offline-fallback"
)

// Role is the logical purpose of a cache bucket
type Role string

const (
	RoleAppShell Role = "app-shell"
	RoleImages   Role = "images"
	RoleAPI      Role = "api"
)

// Roles returns every bucket role in a stable order
func Roles() []Role {
	return []Role{RoleAppShell, RoleImages, RoleAPI}
}

// UnmarshalYAML implements custom YAML unmarshaling for Role
func (r *Role) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "app-shell", "images", "api":
		*r = Role(str)
		return nil
	default:
		return fmt.Errorf("invalid role '%s': must be one of 'app-shell', 'images', 'api'", str)
	}
}

// StrategyFor returns the strategy bound to a bucket role
func StrategyFor(role Role) Strategy {
	switch role {
	case RoleImages:
		return StrategyNetworkFirstBackgroundFill
	case RoleAPI:
		return StrategyNetworkFirstOfflineFallback
	case RoleAppShell:
		return StrategyCacheFirst
	default:
		return StrategyPassThrough
	}
}

// Decision is the classifier's verdict for one request
type Decision struct {
	Intercept bool     `json:"intercept"`
	Strategy  Strategy `json:"strategy"`
	Role      Role     `json:"role,omitempty"`
	Reason    string   `json:"reason,omitempty"`
}

// CacheLevel identifies which storage tier served an entry
type CacheLevel string

const (
	CacheLevelL1   CacheLevel = "L1"
	CacheLevelL2   CacheLevel = "L2"
	CacheLevelMiss CacheLevel = "MISS"
)

// CacheResult is a lookup result annotated with the tier that answered
type CacheResult struct {
	Entry *CacheEntry
	Found bool
	Level CacheLevel
}
