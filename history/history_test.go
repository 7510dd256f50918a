package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semlint/lint"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), ".semlint", "history.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func runReport(id string, startedAt time.Time, rules map[string]int) *lint.Report {
	return &lint.Report{
		ID:           id,
		Version:      "1.0.0",
		Root:         "/repo",
		StartedAt:    startedAt,
		DurationMS:   42,
		FilesScanned: 4,
		FilesFailed:  1,
		BySeverity: map[lint.Severity]int{
			lint.SeverityError:   1,
			lint.SeverityWarning: 2,
			lint.SeverityInfo:    3,
		},
		ByRule: rules,
	}
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "history.db")

	store, err := Open(path, nil)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestStore_RecordAndGetRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	startedAt := time.Date(2026, 8, 20, 10, 0, 0, 123456789, time.UTC)

	err := store.RecordRun(ctx, runReport("run-1", startedAt, map[string]int{"magic-number": 3}))
	require.NoError(t, err)

	run, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.True(t, run.StartedAt.Equal(startedAt), "StartedAt = %v, want %v", run.StartedAt, startedAt)
	assert.Equal(t, int64(42), run.DurationMS)
	assert.Equal(t, 4, run.FilesScanned)
	assert.Equal(t, 1, run.FilesFailed)
	assert.Equal(t, 1, run.Errors)
	assert.Equal(t, 2, run.Warnings)
	assert.Equal(t, 3, run.Infos)
	assert.Equal(t, 6, run.Total())
}

func TestStore_GetRun_Missing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetRun(context.Background(), "no-such-run")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStore_RecordRun_DuplicateID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	startedAt := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordRun(ctx, runReport("run-1", startedAt, nil)))
	assert.Error(t, store.RecordRun(ctx, runReport("run-1", startedAt, nil)))
}

func TestStore_ListRuns_NewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("run-%d", i)
		require.NoError(t, store.RecordRun(ctx, runReport(id, base.Add(time.Duration(i)*time.Minute), nil)))
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-3", runs[0].ID)
	assert.Equal(t, "run-2", runs[1].ID)
	assert.Equal(t, "run-1", runs[2].ID)

	limited, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "run-3", limited[0].ID)
	assert.Equal(t, "run-2", limited[1].ID)
}

func TestStore_RuleCounts_SkipsZeroCounts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	startedAt := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	report := runReport("run-1", startedAt, map[string]int{"magic-number": 2, "short-name": 0})
	require.NoError(t, store.RecordRun(ctx, report))

	counts, err := store.RuleCounts(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"magic-number": 2}, counts)
}

func TestStore_ComputeTrend(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordRun(ctx, runReport("run-1", base,
		map[string]int{"magic-number": 5, "short-name": 2})))
	require.NoError(t, store.RecordRun(ctx, runReport("run-2", base.Add(time.Hour),
		map[string]int{"magic-number": 2, "todo-comment": 1})))

	trend, err := store.ComputeTrend(ctx, "run-1", "run-2")
	require.NoError(t, err)
	assert.Equal(t, "run-1", trend.From.ID)
	assert.Equal(t, "run-2", trend.To.ID)

	want := []RuleTrend{
		{RuleID: "magic-number", From: 5, To: 2},
		{RuleID: "short-name", From: 2, To: 0},
		{RuleID: "todo-comment", From: 0, To: 1},
	}
	assert.Equal(t, want, trend.Rules)
	assert.Equal(t, 1, trend.New())
	assert.Equal(t, 5, trend.Fixed())
}

func TestStore_ComputeTrend_DefaultsToLatestPair(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordRun(ctx, runReport("run-1", base, nil)))
	require.NoError(t, store.RecordRun(ctx, runReport("run-2", base.Add(time.Hour), nil)))

	trend, err := store.ComputeTrend(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, "run-1", trend.From.ID)
	assert.Equal(t, "run-2", trend.To.ID)
}

func TestStore_ComputeTrend_NeedsTwoRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRun(ctx,
		runReport("run-1", time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), nil)))

	_, err := store.ComputeTrend(ctx, "", "")
	assert.ErrorIs(t, err, ErrNoRuns)
}

func TestStore_Prune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("run-%d", i)
		report := runReport(id, base.Add(time.Duration(i)*time.Minute), map[string]int{"magic-number": i})
		require.NoError(t, store.RecordRun(ctx, report))
	}

	deleted, err := store.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-5", runs[0].ID)
	assert.Equal(t, "run-4", runs[1].ID)

	// Rule rows follow their run out via the cascade.
	counts, err := store.RuleCounts(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestStore_Prune_KeepZeroIsNoop(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRun(ctx,
		runReport("run-1", time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), nil)))

	deleted, err := store.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordRun(ctx,
		runReport("run-1", time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), nil)))
	require.NoError(t, store.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
}
