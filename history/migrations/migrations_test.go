package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestRunMigrations(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, RunMigrations(db))

	assert.True(t, tableExists(t, db, "runs"))
	assert.True(t, tableExists(t, db, "run_rules"))

	var version int
	var dirty bool
	err := db.QueryRow(`SELECT version, dirty FROM schema_migrations`).Scan(&version, &dirty)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.False(t, dirty)
}

func TestRunMigrations_AlreadyCurrent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db), "a current schema is not an error")

	assert.True(t, tableExists(t, db, "runs"))
}
