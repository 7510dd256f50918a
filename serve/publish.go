package serve

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/semlint/config"
	"github.com/c360studio/semlint/lint"
	"github.com/c360studio/semlint/storage"
)

// ReportSummary is the wire payload published after each run.
type ReportSummary struct {
	ID           string                `json:"id"`
	Project      string                `json:"project"`
	Root         string                `json:"root"`
	StartedAt    time.Time             `json:"started_at"`
	DurationMS   int64                 `json:"duration_ms"`
	FilesScanned int                   `json:"files_scanned"`
	FilesFailed  int                   `json:"files_failed"`
	Findings     int                   `json:"findings"`
	BySeverity   map[lint.Severity]int `json:"by_severity"`
	ByRule       map[string]int        `json:"by_rule"`
}

// Publisher sends report summaries to NATS and stores the full report
// in KV. A nil *Publisher publishes nothing, so serve mode runs fully
// without NATS.
type Publisher struct {
	nc      *nats.Conn
	store   *storage.Store
	subject string
	project string
	logger  *slog.Logger
}

// NewPublisher connects to NATS and prepares the KV store. Returns
// (nil, nil) when publishing is not enabled.
func NewPublisher(ctx context.Context, cfg config.ServeConfig, project string, logger *slog.Logger) (*Publisher, error) {
	if !cfg.Publish {
		return nil, nil
	}
	if cfg.NATSURL == "" {
		return nil, fmt.Errorf("serve.nats_url is required when publishing is enabled")
	}
	if logger == nil {
		logger = slog.Default()
	}

	nc, err := nats.Connect(cfg.NATSURL,
		nats.Name("semlint"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	store, err := storage.NewStore(ctx, js, cfg.Bucket)
	if err != nil {
		nc.Close()
		return nil, err
	}

	return &Publisher{
		nc:      nc,
		store:   store,
		subject: cfg.Subject,
		project: storage.ProjectKey(project),
		logger:  logger,
	}, nil
}

// Publish sends the summary and stores the full report.
func (p *Publisher) Publish(ctx context.Context, report *lint.Report) error {
	if p == nil {
		return nil // Skip publishing if not configured (graceful degradation)
	}

	summary := ReportSummary{
		ID:           report.ID,
		Project:      p.project,
		Root:         report.Root,
		StartedAt:    report.StartedAt,
		DurationMS:   report.DurationMS,
		FilesScanned: report.FilesScanned,
		FilesFailed:  report.FilesFailed,
		Findings:     report.Total(),
		BySeverity:   report.BySeverity,
		ByRule:       report.ByRule,
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", p.subject, p.project)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish summary: %w", err)
	}

	if err := p.store.PutLatest(ctx, p.project, report); err != nil {
		return err
	}

	p.logger.Debug("Published report", "subject", subject, "findings", report.Total())
	return nil
}

// Close drains the NATS connection.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.logger.Warn("Failed to drain NATS connection", "error", err)
	}
}
