package config

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

const defaultKeyDBURL = "redis://keydb:6379"

// KeyDBURL returns the KeyDB URL with the following priority:
// 1. STOREFRONT_KEYDB_URL environment variable
// 2. content of the file named by STOREFRONT_KEYDB_URL_FILE (default /app/.keydb-url)
// 3. redis://keydb:6379
func KeyDBURL(logger *zap.Logger) string {
	if keydbURL := os.Getenv("STOREFRONT_KEYDB_URL"); keydbURL != "" {
		logger.Debug("Using KeyDB URL from environment variable")
		return keydbURL
	}

	connectionFile := os.Getenv("STOREFRONT_KEYDB_URL_FILE")
	if connectionFile == "" {
		connectionFile = "/app/.keydb-url"
	}

	if content, err := os.ReadFile(connectionFile); err == nil {
		if keydbURL := strings.TrimSpace(string(content)); keydbURL != "" {
			logger.Debug("Using KeyDB URL from connection file", zap.String("file", connectionFile))
			return keydbURL
		}
	} else {
		logger.Debug("KeyDB connection file not found", zap.String("file", connectionFile))
	}

	logger.Debug("Using default KeyDB URL")
	return defaultKeyDBURL
}
