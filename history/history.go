// Package history persists run summaries in a local SQLite database so
// finding counts can be compared across runs. The database is opened
// with the CGO-free ncruces/go-sqlite3 driver and migrated on open.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/c360studio/semlint/history/migrations"
	"github.com/c360studio/semlint/lint"
)

// ErrNoRuns is returned when an operation needs recorded runs and the
// store has none.
var ErrNoRuns = errors.New("no recorded runs")

// ErrRunNotFound is returned when a run ID does not exist in the store.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is one recorded engine run.
type RunSummary struct {
	ID           string
	StartedAt    time.Time
	DurationMS   int64
	FilesScanned int
	FilesFailed  int
	Errors       int
	Warnings     int
	Infos        int
}

// Total returns the total finding count of the run.
func (s RunSummary) Total() int {
	return s.Errors + s.Warnings + s.Infos
}

// RuleTrend compares one rule's finding count between two runs.
type RuleTrend struct {
	RuleID string
	From   int
	To     int
}

// Delta returns the count change, positive when the rule got worse.
func (t RuleTrend) Delta() int {
	return t.To - t.From
}

// Trend compares per-rule finding counts between two runs.
type Trend struct {
	From  RunSummary
	To    RunSummary
	Rules []RuleTrend
}

// New returns the total finding increase across rules that got worse.
func (t *Trend) New() int {
	total := 0
	for _, r := range t.Rules {
		if d := r.Delta(); d > 0 {
			total += d
		}
	}
	return total
}

// Fixed returns the total finding decrease across rules that improved.
func (t *Trend) Fixed() int {
	total := 0
	for _, r := range t.Rules {
		if d := r.Delta(); d < 0 {
			total -= d
		}
	}
	return total
}

// Store is the run history database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the history database at path and
// brings its schema up to date.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}

	// WAL keeps concurrent reads cheap; the busy timeout covers a watch
	// session and a CLI run touching the database at the same time.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Debug("history database ready", "path", path)

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores the report's summary and per-rule counts.
func (s *Store) RecordRun(ctx context.Context, report *lint.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ms, files_scanned, files_failed, errors, warnings, infos)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		report.DurationMS,
		report.FilesScanned,
		report.FilesFailed,
		report.BySeverity[lint.SeverityError],
		report.BySeverity[lint.SeverityWarning],
		report.BySeverity[lint.SeverityInfo],
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for ruleID, count := range report.ByRule {
		if count == 0 {
			continue
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_rules (run_id, rule_id, count) VALUES (?, ?, ?)`,
			report.ID, ruleID, count,
		)
		if err != nil {
			return fmt.Errorf("insert rule count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}

	s.logger.Debug("recorded run", "run_id", report.ID, "findings", report.Total())
	return nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero
// or less returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `SELECT id, started_at, duration_ms, files_scanned, files_failed, errors, warnings, infos
	          FROM runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (RunSummary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, duration_ms, files_scanned, files_failed, errors, warnings, infos
		 FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return RunSummary{}, err
	}
	return run, nil
}

// RuleCounts returns the per-rule finding counts recorded for a run.
func (s *Store) RuleCounts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rule_id, count FROM run_rules WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("rule counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var ruleID string
		var count int
		if err := rows.Scan(&ruleID, &count); err != nil {
			return nil, fmt.Errorf("scan rule count: %w", err)
		}
		counts[ruleID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rule counts: %w", err)
	}
	return counts, nil
}

// ComputeTrend compares per-rule counts between two runs. Empty IDs
// select the two most recent runs: the latest as "to" and the one
// before it as "from".
func (s *Store) ComputeTrend(ctx context.Context, fromID, toID string) (*Trend, error) {
	if fromID == "" || toID == "" {
		latest, err := s.ListRuns(ctx, 2)
		if err != nil {
			return nil, err
		}
		if len(latest) < 2 {
			return nil, fmt.Errorf("trend needs two runs: %w", ErrNoRuns)
		}
		if toID == "" {
			toID = latest[0].ID
		}
		if fromID == "" {
			fromID = latest[1].ID
		}
	}

	from, err := s.GetRun(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.GetRun(ctx, toID)
	if err != nil {
		return nil, err
	}

	fromCounts, err := s.RuleCounts(ctx, fromID)
	if err != nil {
		return nil, err
	}
	toCounts, err := s.RuleCounts(ctx, toID)
	if err != nil {
		return nil, err
	}

	ruleIDs := make(map[string]bool)
	for id := range fromCounts {
		ruleIDs[id] = true
	}
	for id := range toCounts {
		ruleIDs[id] = true
	}

	trend := &Trend{From: from, To: to}
	for id := range ruleIDs {
		trend.Rules = append(trend.Rules, RuleTrend{
			RuleID: id,
			From:   fromCounts[id],
			To:     toCounts[id],
		})
	}
	sort.Slice(trend.Rules, func(i, j int) bool {
		return trend.Rules[i].RuleID < trend.Rules[j].RuleID
	})
	return trend, nil
}

// Prune deletes all but the newest keep runs and returns how many were
// removed. A keep of zero or less prunes nothing.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	// run_rules rows go with their run via ON DELETE CASCADE.
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (
		     SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT ?
		 )`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	if deleted > 0 {
		s.logger.Debug("pruned runs", "deleted", deleted, "kept", keep)
	}
	return int(deleted), nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunSummary, error) {
	var run RunSummary
	var startedAt string
	err := row.Scan(
		&run.ID, &startedAt, &run.DurationMS,
		&run.FilesScanned, &run.FilesFailed,
		&run.Errors, &run.Warnings, &run.Infos,
	)
	if err != nil {
		return RunSummary{}, err
	}

	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return RunSummary{}, fmt.Errorf("parse run timestamp: %w", err)
	}
	return run, nil
}
