package serve

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360studio/semlint/lint"
)

// healthStatus is the /healthz response body.
type healthStatus struct {
	Status  string      `json:"status"`
	LastRun *runSummary `json:"last_run,omitempty"`
}

// runSummary condenses the latest aggregate report for health checks.
type runSummary struct {
	ID           string                `json:"id"`
	StartedAt    time.Time             `json:"started_at"`
	FilesScanned int                   `json:"files_scanned"`
	FilesFailed  int                   `json:"files_failed"`
	Findings     int                   `json:"findings"`
	BySeverity   map[lint.Severity]int `json:"by_severity"`
}

// Server exposes metrics and health over HTTP.
type Server struct {
	listen  string
	metrics *Metrics
	logger  *slog.Logger

	mu   sync.RWMutex
	last *runSummary

	httpServer *http.Server
}

// NewServer creates the HTTP side of the service.
func NewServer(listen string, metrics *Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		listen:  listen,
		metrics: metrics,
		logger:  logger,
	}
}

// SetLastReport records the latest aggregate report for /healthz.
func (s *Server) SetLastReport(report *lint.Report) {
	summary := &runSummary{
		ID:           report.ID,
		StartedAt:    report.StartedAt,
		FilesScanned: report.FilesScanned,
		FilesFailed:  report.FilesFailed,
		Findings:     report.Total(),
		BySeverity:   report.BySeverity,
	}
	s.mu.Lock()
	s.last = summary
	s.mu.Unlock()
}

// Handler returns the HTTP mux: /metrics and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(healthStatus{Status: "ok", LastRun: last}); err != nil {
		s.logger.Warn("Failed to write health response", "error", err)
	}
}

// Start begins serving in the background.
func (s *Server) Start() {
	s.httpServer = &http.Server{
		Addr:              s.listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.listen)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server failed", "error", err)
		}
	}()
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
