package strategy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/metrics"
	"go-storefront-proxy/internal/models"
	"go-storefront-proxy/internal/utils"
)

// State is a step of a strategy run
type State string

const (
	StateCacheLookup    State = "cache-lookup"
	StateFetching       State = "fetching"
	StateFallbackLookup State = "fallback-lookup"
	StateSynthesizing   State = "synthesizing-placeholder"
	StateDone           State = "done"
)

// Source tells where a response came from
type Source string

const (
	SourceNetwork     Source = "network"
	SourceCache       Source = "cache"
	SourceSynthesized Source = "synthesized"
)

// ErrNoHandler is returned for strategies the executor does not run, such as pass-through
var ErrNoHandler = errors.New("no handler for strategy")

// Result is the outcome of one strategy run
type Result struct {
	Response    *models.CacheEntry
	Source      Source
	Transitions []State
}

type handler func(ctx context.Context, req *http.Request, bucket interfaces.Bucket) *Result

// Executor runs the caching strategies against the current buckets
type Executor struct {
	fetcher  interfaces.Fetcher
	buckets  interfaces.BucketResolver
	logger   *zap.Logger
	now      func() time.Time
	handlers map[models.Strategy]handler

	// background cache fills
	fills sync.WaitGroup
}

// NewExecutor creates an executor with the three storefront strategies
func NewExecutor(fetcher interfaces.Fetcher, buckets interfaces.BucketResolver, logger *zap.Logger) *Executor {
	e := &Executor{
		fetcher: fetcher,
		buckets: buckets,
		logger:  logger,
		now:     time.Now,
	}
	e.handlers = map[models.Strategy]handler{
		models.StrategyCacheFirst:                  e.cacheFirst,
		models.StrategyNetworkFirstBackgroundFill:  e.networkFirstBackgroundFill,
		models.StrategyNetworkFirstOfflineFallback: e.networkFirstOfflineFallback,
	}
	return e
}

// Execute runs the strategy chosen for req. It never reports a network failure to
// the caller: every strategy ends with a response.
func (e *Executor) Execute(ctx context.Context, decision models.Decision, req *http.Request) (*Result, error) {
	h, ok := e.handlers[decision.Strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, decision.Strategy)
	}

	stop := metrics.TimeStrategy(string(decision.Strategy))
	defer stop()

	result := h(ctx, req, e.buckets.Bucket(decision.Role))
	metrics.RecordStrategyResponse(string(decision.Strategy), string(result.Source))

	e.logger.Debug("Strategy finished",
		zap.String("strategy", string(decision.Strategy)),
		zap.String("url", req.URL.String()),
		zap.String("source", string(result.Source)),
		zap.Int("status", result.Response.Status))

	return result, nil
}

// Wait blocks until every background cache fill has finished
func (e *Executor) Wait() {
	e.fills.Wait()
}

type run struct {
	transitions []State
}

func (r *run) enter(s State) {
	r.transitions = append(r.transitions, s)
}

func (r *run) done(entry *models.CacheEntry, source Source) *Result {
	r.enter(StateDone)
	return &Result{Response: entry, Source: source, Transitions: r.transitions}
}

// cacheFirst serves the app shell: bucket first, live fetch on miss, never cached afterwards
func (e *Executor) cacheFirst(ctx context.Context, req *http.Request, bucket interfaces.Bucket) *Result {
	r := &run{}

	r.enter(StateCacheLookup)
	if entry, ok := bucket.Match(req); ok {
		return r.done(entry, SourceCache)
	}

	r.enter(StateFetching)
	entry, err := e.fetch(ctx, req)
	if err != nil {
		e.logger.Debug("App shell fetch failed", zap.String("url", req.URL.String()), zap.Error(err))
		r.enter(StateSynthesizing)
		return r.done(offlineShell(), SourceSynthesized)
	}

	return r.done(entry, SourceNetwork)
}

// networkFirstBackgroundFill serves images: live first, stored copy second, placeholder last
func (e *Executor) networkFirstBackgroundFill(ctx context.Context, req *http.Request, bucket interfaces.Bucket) *Result {
	r := &run{}

	r.enter(StateFetching)
	entry, err := e.fetch(ctx, req)
	if err == nil && entry.IsSuccess() {
		e.fill(bucket, req, entry)
		return r.done(entry, SourceNetwork)
	}

	r.enter(StateFallbackLookup)
	if cached, ok := bucket.Match(req); ok {
		return r.done(cached, SourceCache)
	}

	r.enter(StateSynthesizing)
	return r.done(imagePlaceholder(), SourceSynthesized)
}

// networkFirstOfflineFallback serves the API: live responses are returned as-is,
// 2xx ones are stored, and only a transport failure falls back to the bucket
func (e *Executor) networkFirstOfflineFallback(ctx context.Context, req *http.Request, bucket interfaces.Bucket) *Result {
	r := &run{}

	r.enter(StateFetching)
	entry, err := e.fetch(ctx, req)
	if err == nil {
		if entry.IsSuccess() {
			e.fill(bucket, req, entry)
		}
		return r.done(entry, SourceNetwork)
	}

	e.logger.Debug("API fetch failed, trying cache", zap.String("url", req.URL.String()), zap.Error(err))

	r.enter(StateFallbackLookup)
	if cached, ok := bucket.Match(req); ok {
		return r.done(cached, SourceCache)
	}

	r.enter(StateSynthesizing)
	return r.done(apiOffline(), SourceSynthesized)
}

// fetch performs the live request and reads the body once into an immutable entry
func (e *Executor) fetch(ctx context.Context, req *http.Request) (*models.CacheEntry, error) {
	resp, err := e.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return utils.ReadEntry(resp, e.now())
}

// fill stores entry in the background. The caller's response never waits for it
// and a failed write is only logged.
func (e *Executor) fill(bucket interfaces.Bucket, req *http.Request, entry *models.CacheEntry) {
	// HEAD responses carry no body and would shadow the GET entry
	if req.Method != http.MethodGet {
		return
	}

	detached := req.Clone(context.WithoutCancel(req.Context()))

	e.fills.Add(1)
	go func() {
		defer e.fills.Done()

		if err := bucket.Put(detached, entry); err != nil {
			e.logger.Warn("Background cache write failed",
				zap.String("bucket", bucket.Name()),
				zap.String("url", detached.URL.String()),
				zap.Error(err))
			metrics.RecordCacheError("bucket", "write")
		}
	}()
}
