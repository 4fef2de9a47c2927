package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config represents the main configuration structure
type Config struct {
	// Version tags every bucket; bumping it invalidates all of them
	Version     string         `yaml:"version" env:"STOREFRONT_VERSION" validate:"required"`
	Origin      string         `yaml:"origin" env:"STOREFRONT_ORIGIN" validate:"required,url"`
	ListenAddr  string         `yaml:"listen_addr" env:"STOREFRONT_LISTEN_ADDR" validate:"required"`
	MetricsAddr string         `yaml:"metrics_addr" env:"STOREFRONT_METRICS_ADDR" validate:"required"`
	Manifest    []string       `yaml:"manifest" validate:"required,min=1,dive,startswith=/"`
	Upstream    UpstreamConfig `yaml:"upstream"`
	BigCache    BigCacheConfig `yaml:"bigcache"`
	KeyDB       KeyDBConfig    `yaml:"keydb"`
	Storage     StorageConfig  `yaml:"storage"`
	Checkout    CheckoutConfig `yaml:"checkout"`
	Catalog     CatalogConfig  `yaml:"catalog"`
}

// UpstreamConfig routes live fetches to the hosts that actually serve them
type UpstreamConfig struct {
	Default string          `yaml:"default" env:"STOREFRONT_UPSTREAM" validate:"required,url"`
	Routes  []UpstreamRoute `yaml:"routes" validate:"dive"`
	// Timeout bounds each live fetch; an explicit zero disables it
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// UpstreamRoute sends every path under Prefix to Target
type UpstreamRoute struct {
	Prefix string `yaml:"prefix" validate:"required,startswith=/"`
	Target string `yaml:"target" validate:"required,url"`
}

// BigCacheConfig configures the in-memory L1 tier
type BigCacheConfig struct {
	Enabled      bool          `yaml:"enabled" env:"STOREFRONT_BIGCACHE_ENABLED"`
	Size         int           `yaml:"size" validate:"gte=0"`           // MB
	MaxEntrySize int           `yaml:"max_entry_size" validate:"gte=0"` // bytes
	LifeWindow   time.Duration `yaml:"life_window" validate:"gte=0"`
	// Shards is an upper bound; zero lets EffectiveShards pick the count
	Shards       int           `yaml:"shards" validate:"gte=0"`
}

const megabyte = 1024 * 1024

// KeyDBConfig configures the shared L2 tier
type KeyDBConfig struct {
	Enabled    bool             `yaml:"enabled" env:"STOREFRONT_KEYDB_ENABLED"`
	KeyPrefix  string           `yaml:"key_prefix"`
	Connection ConnectionConfig `yaml:"connection"`
	Keepalive  KeepaliveConfig  `yaml:"keepalive"`
}

// ConnectionConfig holds KeyDB socket timeouts
type ConnectionConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	SendTimeout    time.Duration `yaml:"send_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
}

// KeepaliveConfig holds KeyDB pool settings
type KeepaliveConfig struct {
	PoolSize       int           `yaml:"pool_size"`
	MaxIdleTimeout time.Duration `yaml:"max_idle_timeout"`
}

// StorageConfig selects the persistent key-value store used by the cart
type StorageConfig struct {
	Backend string `yaml:"backend" env:"STOREFRONT_STORAGE_BACKEND" validate:"oneof=bolt redis sqlite memory"`
	Path    string `yaml:"path" env:"STOREFRONT_STORAGE_PATH"`
	// QuotaBytes caps the total stored bytes; zero means unlimited
	QuotaBytes int64 `yaml:"quota_bytes" validate:"gte=0"`
}

// CheckoutConfig holds the order snapshot settings
type CheckoutConfig struct {
	DeliveryFee int64  `yaml:"delivery_fee" validate:"gte=0"`
	Currency    string `yaml:"currency" validate:"required"`
	Language    string `yaml:"language" validate:"required,bcp47_language_tag"`
}

// CatalogConfig points the cart CLI at the storefront API
type CatalogConfig struct {
	BaseURL string        `yaml:"base_url" env:"STOREFRONT_API_URL" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	config := seed()
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	if err := config.finalize(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadOrDefault loads configPath, falling back to defaults when the file does not exist
func LoadOrDefault(configPath string, logger *zap.Logger) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		logger.Debug("Config file not found, using defaults", zap.String("path", configPath))
		return Default()
	}
	return LoadConfig(configPath, logger)
}

// Default returns the configuration used when no file is given
func Default() (*Config, error) {
	config := seed()
	if err := config.finalize(); err != nil {
		return nil, err
	}
	return &config, nil
}

// seed holds the defaults whose zero value is a meaningful setting, so they are
// applied before decoding and only replaced by keys present in the file
func seed() Config {
	return Config{
		Upstream: UpstreamConfig{Timeout: 30 * time.Second},
		BigCache: BigCacheConfig{Enabled: true},
		Checkout: CheckoutConfig{DeliveryFee: 50000},
	}
}

func (c *Config) finalize() error {
	c.applyDefaults()

	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	if err := c.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.BigCache.Enabled {
		if err := c.BigCache.Check(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = "v3"
	}
	if c.Origin == "" {
		c.Origin = "http://localhost:8080"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = ":9090"
	}
	if len(c.Manifest) == 0 {
		c.Manifest = []string{"/", "/index.html", "/manifest.json"}
	}
	if c.Upstream.Default == "" {
		c.Upstream.Default = "http://localhost:3000"
	}

	c.BigCache.ApplyDefaults()
	c.KeyDB.ApplyDefaults()

	if c.Storage.Backend == "" {
		c.Storage.Backend = "bolt"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "storefront.db"
	}

	if c.Checkout.Currency == "" {
		c.Checkout.Currency = "GNF"
	}
	if c.Checkout.Language == "" {
		c.Checkout.Language = "fr"
	}

	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = c.Origin
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = 15 * time.Second
	}
}

// ApplyDefaults fills the L1 tier settings left empty
func (b *BigCacheConfig) ApplyDefaults() {
	if b.Size == 0 {
		b.Size = 100
	}
	if b.MaxEntrySize == 0 {
		b.MaxEntrySize = 1024 * 1024
	}
	if b.LifeWindow == 0 {
		b.LifeWindow = 24 * time.Hour
	}
}

// Check rejects sizes where a single maximum-size entry could not be stored
func (b *BigCacheConfig) Check() error {
	if b.Shards > 0 && b.Shards&(b.Shards-1) != 0 {
		return fmt.Errorf("bigcache shards must be a power of two, got %d", b.Shards)
	}
	if int64(b.Size)*megabyte < 2*int64(b.MaxEntrySize) {
		return fmt.Errorf("bigcache size %d MB cannot hold two entries of %d bytes", b.Size, b.MaxEntrySize)
	}
	return nil
}

// EffectiveShards returns the largest power of two, not above Shards when set,
// for which each shard still holds two entries of MaxEntrySize. bigcache refuses
// any entry bigger than one shard.
func (b *BigCacheConfig) EffectiveShards() int {
	fit := int64(b.Size) * megabyte / (2 * max(int64(b.MaxEntrySize), 1))
	shards := 1
	for int64(shards*2) <= fit && (b.Shards == 0 || shards*2 <= b.Shards) {
		shards *= 2
	}
	return shards
}

// ApplyDefaults fills the L2 tier settings left empty
func (k *KeyDBConfig) ApplyDefaults() {
	if k.KeyPrefix == "" {
		k.KeyPrefix = "storefront"
	}
	if k.Connection.ConnectTimeout == 0 {
		k.Connection.ConnectTimeout = time.Second
	}
	if k.Connection.SendTimeout == 0 {
		k.Connection.SendTimeout = time.Second
	}
	if k.Connection.ReadTimeout == 0 {
		k.Connection.ReadTimeout = time.Second
	}
	if k.Keepalive.PoolSize == 0 {
		k.Keepalive.PoolSize = 10
	}
	if k.Keepalive.MaxIdleTimeout == 0 {
		k.Keepalive.MaxIdleTimeout = 10 * time.Second
	}
}

// GetReadTimeout returns the timeout applied to KeyDB reads
func (k *KeyDBConfig) GetReadTimeout() time.Duration {
	if k.Connection.ReadTimeout <= 0 {
		return time.Second
	}
	return k.Connection.ReadTimeout
}

// GetSendTimeout returns the timeout applied to KeyDB writes
func (k *KeyDBConfig) GetSendTimeout() time.Duration {
	if k.Connection.SendTimeout <= 0 {
		return time.Second
	}
	return k.Connection.SendTimeout
}
