package worker

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"go-storefront-proxy/internal/fetcher"
	"go-storefront-proxy/internal/interfaces"
	"go-storefront-proxy/internal/metrics"
	"go-storefront-proxy/internal/models"
	"go-storefront-proxy/internal/strategy"
	"go-storefront-proxy/internal/utils"
)

// SourceHeader reports on every intercepted response where it came from
const SourceHeader = "X-Worker-Source"

// StrategyRunner runs a caching strategy for an intercepted request
type StrategyRunner interface {
	Execute(ctx context.Context, decision models.Decision, req *http.Request) (*strategy.Result, error)
}

// Lifecycle reports whether the worker controls its clients yet
type Lifecycle interface {
	Active() bool
}

// Worker is the interception entry point: every request from a page goes through it
type Worker struct {
	classifier interfaces.RequestClassifier
	lifecycle  Lifecycle
	runner     StrategyRunner
	fetcher    interfaces.Fetcher
	logger     *zap.Logger
}

// New creates a worker handler
func New(classifier interfaces.RequestClassifier, lifecycle Lifecycle, runner StrategyRunner, fetcher interfaces.Fetcher, logger *zap.Logger) *Worker {
	return &Worker{
		classifier: classifier,
		lifecycle:  lifecycle,
		runner:     runner,
		fetcher:    fetcher,
		logger:     logger,
	}
}

func (w *Worker) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	decision := w.classifier.Classify(r)

	// Before activation the worker does not control the page
	if !decision.Intercept || !w.lifecycle.Active() {
		metrics.RecordIntercepted(string(models.StrategyPassThrough))
		w.passThrough(rw, r)
		return
	}

	metrics.RecordIntercepted(string(decision.Strategy))

	result, err := w.runner.Execute(r.Context(), decision, r)
	if err != nil {
		w.logger.Error("Strategy failed, passing through",
			zap.String("strategy", string(decision.Strategy)),
			zap.String("url", r.URL.String()),
			zap.Error(err))
		w.passThrough(rw, r)
		return
	}

	rw.Header().Set(SourceHeader, string(result.Source))
	if err := utils.WriteEntry(rw, result.Response, r.Method == http.MethodHead); err != nil {
		w.logger.Debug("Failed to write response", zap.String("url", r.URL.String()), zap.Error(err))
	}
}

// passThrough streams the live response without touching any bucket
func (w *Worker) passThrough(rw http.ResponseWriter, r *http.Request) {
	resp, err := w.fetcher.Fetch(r.Context(), r)
	if errors.Is(err, fetcher.ErrForeignOrigin) {
		w.logger.Warn("Refusing request for a foreign origin",
			zap.String("url", r.URL.Redacted()),
			zap.String("remote_addr", r.RemoteAddr))
		http.Error(rw, http.StatusText(http.StatusMisdirectedRequest), http.StatusMisdirectedRequest)
		return
	}
	if err != nil {
		w.logger.Debug("Pass-through fetch failed", zap.String("url", r.URL.String()), zap.Error(err))
		http.Error(rw, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	dst := rw.Header()
	for name, values := range resp.Header {
		dst[name] = values
	}
	rw.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(rw, resp.Body); err != nil {
		w.logger.Debug("Pass-through copy interrupted", zap.String("url", r.URL.String()), zap.Error(err))
	}
}
