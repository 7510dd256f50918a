package serve

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/c360studio/semlint/ast"
	"github.com/c360studio/semlint/lint"
)

// Config wires the service together.
type Config struct {
	// Runner performs the checking.
	Runner *lint.Runner

	// Metrics receives counts (defaults to a fresh set).
	Metrics *Metrics

	// Server exposes /metrics and /healthz (defaults to one on Listen).
	Server *Server

	// Publisher is optional; nil disables NATS publishing.
	Publisher *Publisher

	// Listen is the HTTP address when Server is nil.
	Listen string

	// Debounce is the watcher settle delay.
	Debounce time.Duration

	// Logger for diagnostics.
	Logger *slog.Logger
}

// Service runs the continuous checking loop: an initial full run, then
// incremental re-checks as the watcher reports changes.
type Service struct {
	runner    *lint.Runner
	metrics   *Metrics
	server    *Server
	publisher *Publisher
	debounce  time.Duration
	logger    *slog.Logger

	mu       sync.Mutex
	files    map[string]bool
	failed   map[string]bool
	findings map[string][]lint.Finding
}

// New creates a Service from the given configuration.
func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}
	server := cfg.Server
	if server == nil {
		server = NewServer(cfg.Listen, metrics, logger)
	}
	return &Service{
		runner:    cfg.Runner,
		metrics:   metrics,
		server:    server,
		publisher: cfg.Publisher,
		debounce:  cfg.Debounce,
		logger:    logger,
		files:     make(map[string]bool),
		failed:    make(map[string]bool),
		findings:  make(map[string][]lint.Finding),
	}
}

// Run performs the initial full check, then watches until the context
// is cancelled.
func (s *Service) Run(ctx context.Context) error {
	report, err := s.runner.Run(ctx, nil)
	if err != nil {
		return fmt.Errorf("initial check: %w", err)
	}
	if err := s.seed(report); err != nil {
		return err
	}
	s.metrics.ObserveRun(report)
	s.server.SetLastReport(report)
	if err := s.publisher.Publish(ctx, report); err != nil {
		s.logger.Warn("Failed to publish report", "error", err)
	}
	s.logger.Info("Initial check complete",
		"files", report.FilesScanned,
		"failed", report.FilesFailed,
		"findings", report.Total())

	watcher, err := ast.NewWatcher(ast.WatcherConfig{
		RepoRoot:      s.runner.Root(),
		DebounceDelay: s.debounce,
		Logger:        s.logger,
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Stop()

	s.server.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP shutdown failed", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.publisher.Close()
			return ctx.Err()
		case ev := <-watcher.Events():
			s.handleEvent(ctx, ev)
		}
	}
}

// seed records the initial target set and findings, so later aggregate
// reports count clean files too.
func (s *Service) seed(report *lint.Report) error {
	root := s.runner.Root()
	cfg := s.runner.Config()
	paths, err := lint.ResolveTargets(root, nil, cfg.Lint, nil)
	if err != nil {
		return fmt.Errorf("resolve watched files: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range paths {
		if rel, err := filepath.Rel(root, p); err == nil {
			p = rel
		}
		s.files[filepath.ToSlash(p)] = true
	}
	for _, f := range report.Findings {
		s.findings[f.Path] = append(s.findings[f.Path], f)
		if f.RuleID == lint.ParseErrorID {
			s.failed[f.Path] = true
		}
	}
	return nil
}

// handleEvent re-checks one changed file and refreshes the aggregate.
func (s *Service) handleEvent(ctx context.Context, ev ast.WatchEvent) {
	path := filepath.ToSlash(ev.Path)

	switch {
	case ev.Error != nil:
		finding := lint.Finding{
			RuleID:   lint.ParseErrorID,
			Category: lint.CategoryEngine,
			Severity: lint.SeverityError,
			Message:  fmt.Sprintf("cannot parse file: %v", ev.Error),
			Path:     path,
			Line:     1,
		}
		s.mu.Lock()
		s.files[path] = true
		s.failed[path] = true
		s.findings[path] = []lint.Finding{finding}
		s.mu.Unlock()
		s.metrics.ObserveFile([]lint.Finding{finding}, true)
		s.logger.Warn("File failed to parse", "path", path, "error", ev.Error)

	case ev.Operation == ast.OpDelete:
		s.mu.Lock()
		delete(s.files, path)
		delete(s.failed, path)
		delete(s.findings, path)
		s.mu.Unlock()
		s.logger.Debug("File removed", "path", path)

	default:
		findings := s.runner.Evaluate(ev.File)
		s.mu.Lock()
		s.files[path] = true
		delete(s.failed, path)
		if len(findings) == 0 {
			delete(s.findings, path)
		} else {
			s.findings[path] = findings
		}
		s.mu.Unlock()
		s.metrics.ObserveFile(findings, false)
		s.logger.Debug("File re-checked", "path", path, "findings", len(findings))
	}

	report := s.aggregate()
	s.metrics.SetOpenFindings(report.Total())
	s.server.SetLastReport(report)
	if err := s.publisher.Publish(ctx, report); err != nil {
		s.logger.Warn("Failed to publish report", "error", err)
	}
}

// aggregate rebuilds a report from the per-file state.
func (s *Service) aggregate() *lint.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := lint.NewReport(s.runner.Version(), s.runner.Root())
	for _, findings := range s.findings {
		report.Add(findings...)
	}
	report.FilesFailed = len(s.failed)
	report.FilesScanned = len(s.files) - len(s.failed)
	report.Finish()
	return report
}
