package cache_rules

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"go-storefront-proxy/internal/interfaces"
)

// LoadCacheRulesConfig loads cache rules from a YAML file and returns a config reader
func LoadCacheRulesConfig(rulesPath, origin string, logger *zap.Logger) (interfaces.CacheRulesConfig, error) {
	logger.Info("Loading cache rules config", zap.String("path", rulesPath))

	file, err := os.Open(rulesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Cache rules file not found, using built-in rules", zap.String("path", rulesPath))
			return newConfigReader(DefaultCacheRules(), origin, logger)
		}
		return nil, fmt.Errorf("failed to open cache rules file: %w", err)
	}
	defer file.Close()

	var config CacheRulesConfig
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML cache rules: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("cache rules validation failed: %w", err)
	}

	logger.Info("Cache rules config loaded successfully", zap.Int("rules", len(config.Rules)))

	return newConfigReader(&config, origin, logger)
}

func newConfigReader(config *CacheRulesConfig, origin string, logger *zap.Logger) (interfaces.CacheRulesConfig, error) {
	cfg, err := NewCacheConfig(config, origin, logger)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateConfig validates the cache rules configuration structure
func validateConfig(config *CacheRulesConfig) error {
	if len(config.Rules) == 0 {
		return fmt.Errorf("missing rules section")
	}

	seen := make(map[string]struct{}, len(config.Rules))
	for i, rule := range config.Rules {
		if !strings.HasPrefix(rule.Prefix, "/") {
			return fmt.Errorf("rule %d: prefix %q must start with /", i, rule.Prefix)
		}
		if rule.Role == "" {
			return fmt.Errorf("rule %d: missing role", i)
		}
		if _, dup := seen[rule.Prefix]; dup {
			return fmt.Errorf("rule %d: duplicate prefix %q", i, rule.Prefix)
		}
		seen[rule.Prefix] = struct{}{}
	}

	return nil
}
