package main

import (
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-storefront-proxy/internal/cache/l1"
	"go-storefront-proxy/internal/cache/l2"
	"go-storefront-proxy/internal/cache/noop"
	"go-storefront-proxy/internal/cache/service"
	"go-storefront-proxy/internal/cache_rules"
	"go-storefront-proxy/internal/config"
	"go-storefront-proxy/internal/fetcher"
	"go-storefront-proxy/internal/generations"
	"go-storefront-proxy/internal/httpserver"
	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/strategy"
	"go-storefront-proxy/internal/worker"
)

// CompositionRoot holds all application dependencies and wires them together
// in one place, so main only deals with lifecycle.
type CompositionRoot struct {
	// Configuration
	Config     *config.Config
	Logger     *zap.Logger
	Classifier interfaces.RequestClassifier

	// Cache components
	L1Cache     interfaces.Cache
	L2Cache     interfaces.Cache
	BucketStore *service.CacheService

	// Services
	Fetcher  *fetcher.HTTPFetcher
	Manager  *generations.Manager
	Executor *strategy.Executor
	Worker   *worker.Worker

	// Servers
	WorkerServer  *httpserver.Server
	MetricsServer *httpserver.Server
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration and classifier rules
// 3. Cache tiers (L1, L2) and the bucket store over them
// 4. Fetcher, generation manager, strategy executor, worker
// 5. Worker and metrics servers
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.loadCacheRules(); err != nil {
		return nil, fmt.Errorf("failed to load cache rules: %w", err)
	}

	if err := root.initCacheComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache components: %w", err)
	}

	if err := root.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	root.initHTTPServers()

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	r.Logger = logger
	redis.SetLogger(NewZapLogger(logger.Named("redis")))
	return nil
}

// loadConfig loads the application configuration
func (r *CompositionRoot) loadConfig() error {
	cfg, err := config.LoadOrDefault(configPath(), r.Logger)
	if err != nil {
		return err
	}

	r.Config = cfg
	r.Logger.Info("Configuration loaded",
		zap.String("version", cfg.Version),
		zap.String("origin", cfg.Origin),
		zap.Strings("manifest", cfg.Manifest))
	return nil
}

// loadCacheRules loads the classifier rules
func (r *CompositionRoot) loadCacheRules() error {
	rules, err := cache_rules.LoadCacheRulesConfig(rulesPath(), r.Config.Origin, r.Logger)
	if err != nil {
		return err
	}

	r.Classifier = cache_rules.NewClassifier(r.Logger, rules)
	return nil
}

// initCacheComponents initializes the cache tiers and the bucket store
func (r *CompositionRoot) initCacheComponents() error {
	if err := r.initL1Cache(); err != nil {
		return fmt.Errorf("failed to initialize L1 cache: %w", err)
	}

	r.initL2Cache()

	if !r.Config.BigCache.Enabled && !r.Config.KeyDB.Enabled {
		r.Logger.Warn("Both cache tiers are disabled, nothing will be served offline")
	}

	r.BucketStore = service.NewCacheService(r.L1Cache, r.L2Cache, true, r.Logger)
	return nil
}

// initL1Cache initializes the L1 cache (BigCache)
func (r *CompositionRoot) initL1Cache() error {
	if r.Config.BigCache.Enabled {
		l1Cache, err := l1.NewBigCache(&r.Config.BigCache, r.Logger)
		if err != nil {
			return err
		}
		r.L1Cache = l1Cache
		r.Logger.Info("BigCache (L1) initialized", zap.Int("size_mb", r.Config.BigCache.Size))
	} else {
		r.L1Cache = noop.NewNoOpCache()
		r.Logger.Info("BigCache (L1) disabled")
	}
	return nil
}

// initL2Cache initializes the L2 cache (KeyDB); an unreachable KeyDB only disables the tier
func (r *CompositionRoot) initL2Cache() {
	if !r.Config.KeyDB.Enabled {
		r.L2Cache = noop.NewNoOpCache()
		r.Logger.Info("KeyDB (L2) disabled")
		return
	}

	keydbURL := config.KeyDBURL(r.Logger)
	keydbClient, err := l2.NewRedisKeyDbClient(&r.Config.KeyDB, keydbURL, r.Logger)
	if err != nil {
		r.Logger.Warn("Failed to connect to KeyDB, falling back to no L2 cache",
			zap.String("keydb_url", keydbURL),
			zap.Error(err))
		r.L2Cache = noop.NewNoOpCache()
		return
	}

	r.L2Cache = l2.NewKeyDBCache(&r.Config.KeyDB, keydbClient, r.Logger)
	r.Logger.Info("KeyDB (L2) initialized", zap.String("keydb_url", keydbURL))
}

// initServices wires the fetcher, generation manager, executor and worker
func (r *CompositionRoot) initServices() error {
	f, err := fetcher.NewHTTPFetcher(&r.Config.Upstream, r.Config.Origin, r.Logger)
	if err != nil {
		return err
	}
	r.Fetcher = f

	r.Manager = generations.NewManager(
		r.Config.Version,
		r.Config.Origin,
		r.Config.Manifest,
		r.BucketStore,
		r.Fetcher,
		r.Logger,
	)
	r.Executor = strategy.NewExecutor(r.Fetcher, r.Manager, r.Logger)
	r.Worker = worker.New(r.Classifier, r.Manager, r.Executor, r.Fetcher, r.Logger)
	return nil
}

// initHTTPServers initializes the worker and metrics servers
func (r *CompositionRoot) initHTTPServers() {
	r.WorkerServer = httpserver.NewWorkerServer(r.Worker, r.Logger)
	r.MetricsServer = httpserver.NewMetricsServer(r.Manager, r.Logger)
}

// Cleanup waits for pending cache writes and releases every resource
func (r *CompositionRoot) Cleanup() error {
	var errs []error

	if r.Executor != nil {
		r.Executor.Wait()
	}

	if r.BucketStore != nil {
		if err := r.BucketStore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close cache tiers: %w", err))
		}
	}

	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("failed to sync logger: %w", err))
		}
	}

	return errors.Join(errs...)
}
