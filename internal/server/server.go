// Package server exposes spec.md §6's operation table over HTTP and a
// WebSocket telemetry stream, for out-of-process callers. Grounded on
// the teacher's mount.go (liveHandler.ServeHTTP dispatching on
// websocket.IsWebSocketUpgrade, functional Option pattern, plain
// net/http — no router library anywhere in the corpus).
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vtreekit/vtree/internal/registry"
	"github.com/vtreekit/vtree/internal/vlog"
	"github.com/vtreekit/vtree/internal/vmetrics"
)

// Server bundles the shared process-wide stores spec §5 names: the
// predictor registry, the metrics collector, and the logger.
type Server struct {
	registry *registry.Registry
	metrics  *vmetrics.Collector
	logger   *vlog.Logger
	upgrader websocket.Upgrader

	mux *http.ServeMux
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithMaxLivePredictors bounds the number of concurrently live
// predictor handles; 0 (default) means unbounded.
func WithMaxLivePredictors(n int) Option {
	return func(s *Server) { s.registry = registry.New(n) }
}

// WithLogger overrides the server's logger (default: vlog.Default()).
func WithLogger(l *vlog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New constructs a Server wired to its own registry, metrics
// collector, and (by default) the package-wide default logger.
func New(opts ...Option) *Server {
	s := &Server{
		registry: registry.New(0),
		metrics:  vmetrics.New(),
		logger:   vlog.Default(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mux = s.buildMux()
	return s
}

// ServeHTTP implements http.Handler, routing WebSocket upgrade
// requests at /ws to the telemetry stream and everything else through
// the operation-table mux.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/ws" && websocket.IsWebSocketUpgrade(r) {
		s.handleTelemetryWebSocket(w, r)
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) buildMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /reconcile", s.handleReconcile)

	mux.HandleFunc("POST /predictors", s.handleCreatePredictor)
	mux.HandleFunc("POST /predictors/load", s.handleLoadPredictor)
	mux.HandleFunc("DELETE /predictors/{id}", s.handleDestroyPredictor)
	mux.HandleFunc("POST /predictors/{id}/learn", s.handleLearn)
	mux.HandleFunc("POST /predictors/{id}/predict", s.handlePredict)
	mux.HandleFunc("POST /predictors/{id}/predict-hint", s.handlePredictHint)
	mux.HandleFunc("POST /predictors/{id}/verify", s.handleVerifyPrediction)
	mux.HandleFunc("GET /predictors/{id}/stats", s.handleStats)
	mux.HandleFunc("GET /predictors/{id}/save", s.handleSavePredictor)

	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /metrics.prom", s.handleMetricsPrometheus)
	mux.HandleFunc("POST /metrics/reset", s.handleMetricsReset)

	mux.HandleFunc("POST /logging/enable", s.handleLoggingEnable)
	mux.HandleFunc("POST /logging/disable", s.handleLoggingDisable)
	mux.HandleFunc("POST /logging/level", s.handleLoggingSetLevel)
	mux.HandleFunc("GET /logs", s.handleGetLogs)
	mux.HandleFunc("POST /logs/clear", s.handleClearLogs)

	return mux
}

// ListenAndServe is a thin convenience wrapper mirroring the
// teacher's CLI-driven http.ListenAndServe calls.
func (s *Server) ListenAndServe(addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpServer.ListenAndServe()
}
