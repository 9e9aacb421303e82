// Package http exposes the watcher's operational endpoints: liveness,
// readiness with a snapshot of the poll loop's state, and Prometheus
// metrics.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-watch/internal/watch"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusReporter exposes the watcher's progress so readiness can say more
// than a bare yes/no: whether a cycle has succeeded yet and how much state
// the loop is carrying.
type StatusReporter interface {
	Status(ctx context.Context) watch.Status
}

// Server serves /healthz, /readyz, and /metrics for one watcher.
type Server struct {
	httpServer *http.Server
	watcher    StatusReporter
	logger     *slog.Logger
}

// NewServer creates the operational HTTP server for the given watcher.
func NewServer(addr string, watcher StatusReporter, logger *slog.Logger) *Server {
	s := &Server{
		watcher: watcher,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleHealth reports process liveness only; the watcher may still be
// waiting for its first successful cycle.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady returns the watcher's status snapshot: 200 once at least one
// poll cycle has succeeded, 503 before that. The payload carries the loop's
// state sizes either way so operators can see progress without scraping
// metrics.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := s.watcher.Status(ctx)
	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort status response
}
