package main

import "os"

// envOr returns the environment variable key, or def when it is unset
func envOr(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

// configPath returns the main configuration file path
func configPath() string {
	return envOr("STOREFRONT_CONFIG_FILE", "/app/storefront.yaml")
}

// rulesPath returns the classifier rules file path
func rulesPath() string {
	return envOr("STOREFRONT_RULES_FILE", "/app/cache_rules.yaml")
}
