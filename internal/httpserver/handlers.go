package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-storefront-proxy/internal/generations"
)

// Inspector reports the state of the cache generations
type Inspector interface {
	Inspect() (generations.Report, error)
}

// NewWorkerServer serves every path through the worker
func NewWorkerServer(worker http.Handler, logger *zap.Logger) *Server {
	router := mux.NewRouter()
	router.SkipClean(true)
	router.UseEncodedPath()
	router.PathPrefix("/").Handler(worker)
	return newServer("worker", router, logger)
}

// NewMetricsServer serves Prometheus metrics, health and the bucket listing
func NewMetricsServer(inspector Inspector, logger *zap.Logger) *Server {
	router := mux.NewRouter()
	s := newServer("metrics", router, logger)
	m := &metricsHandlers{Server: s, inspector: inspector}

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", m.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/buckets", m.handleBuckets).Methods(http.MethodGet)
	return s
}

type metricsHandlers struct {
	*Server
	inspector Inspector
}

// handleHealth reports healthy once the current generation controls traffic
func (m *metricsHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	report, err := m.inspector.Inspect()
	if err != nil {
		m.writeErrorResponse(w, fmt.Sprintf("inspect failed: %v", err), http.StatusServiceUnavailable)
		return
	}

	status := http.StatusOK
	health := "healthy"
	if !report.Active {
		status = http.StatusServiceUnavailable
		health = "starting"
	}

	m.writeResponse(w, status, &HealthResponse{
		Status:  health,
		State:   string(report.State),
		Version: report.Version,
		Time:    time.Now().UTC(),
	})
}

// handleBuckets lists every bucket and the current generation
func (m *metricsHandlers) handleBuckets(w http.ResponseWriter, r *http.Request) {
	report, err := m.inspector.Inspect()
	if err != nil {
		m.writeErrorResponse(w, fmt.Sprintf("inspect failed: %v", err), http.StatusInternalServerError)
		return
	}

	stale := make([]string, 0)
	current := make(map[string]bool, len(report.Current))
	for _, name := range report.Current {
		current[name] = true
	}
	for _, name := range report.Buckets {
		if !current[name] {
			stale = append(stale, name)
		}
	}

	m.writeResponse(w, http.StatusOK, &BucketsResponse{
		Success: true,
		Report:  report,
		Stale:   stale,
	})
}
