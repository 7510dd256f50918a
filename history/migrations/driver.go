package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4/database"
)

// versionTable tracks which migrations have been applied.
const versionTable = "schema_migrations"

// sqliteDriver is a golang-migrate database.Driver that works over any
// sql.DB, including one opened with ncruces/go-sqlite3. It is a trimmed
// take on golang-migrate's own sqlite3 driver: no mattn import, no
// URL-based Open, migrations always run inside a transaction.
type sqliteDriver struct {
	db       *sql.DB
	isLocked atomic.Bool
}

func newDriver(db *sql.DB) (database.Driver, error) {
	if err := db.Ping(); err != nil {
		return nil, err
	}

	d := &sqliteDriver{db: db}
	if err := d.ensureVersionTable(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *sqliteDriver) ensureVersionTable() (err error) {
	if err = d.Lock(); err != nil {
		return err
	}
	defer func() {
		if e := d.Unlock(); e != nil {
			err = errors.Join(err, e)
		}
	}()

	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (version uint64, dirty bool);\n"+
			"CREATE UNIQUE INDEX IF NOT EXISTS version_unique ON %s (version);",
		versionTable, versionTable)
	if _, err := d.db.Exec(ddl); err != nil {
		return err
	}
	return nil
}

// Open satisfies database.Driver. Connections are always handed in via
// newDriver, never opened from a URL.
func (d *sqliteDriver) Open(_ string) (database.Driver, error) {
	return nil, errors.New("open by URL not supported; construct with an existing connection")
}

func (d *sqliteDriver) Close() error {
	return d.db.Close()
}

// Lock takes an in-process lock. SQLite has no advisory locks, and a
// single semlint process is the only writer.
func (d *sqliteDriver) Lock() error {
	if !d.isLocked.CompareAndSwap(false, true) {
		return database.ErrLocked
	}
	return nil
}

func (d *sqliteDriver) Unlock() error {
	if !d.isLocked.CompareAndSwap(true, false) {
		return database.ErrNotLocked
	}
	return nil
}

// Run executes one migration inside a transaction.
func (d *sqliteDriver) Run(migration io.Reader) error {
	raw, err := io.ReadAll(migration)
	if err != nil {
		return err
	}
	return d.executeQuery(string(raw))
}

// withTx runs fn inside a transaction, rolling back on failure. A
// rollback error is joined onto the original one.
func (d *sqliteDriver) withTx(fn func(*sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return &database.Error{OrigErr: err, Err: "transaction start failed"}
	}
	if err := fn(tx); err != nil {
		if errRollback := tx.Rollback(); errRollback != nil {
			err = errors.Join(err, errRollback)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return &database.Error{OrigErr: err, Err: "transaction commit failed"}
	}
	return nil
}

func (d *sqliteDriver) executeQuery(query string) error {
	return d.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(query); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(query)}
		}
		return nil
	})
}

// SetVersion records the current migration version.
func (d *sqliteDriver) SetVersion(version int, dirty bool) error {
	return d.withTx(func(tx *sql.Tx) error {
		del := "DELETE FROM " + versionTable
		if _, err := tx.Exec(del); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(del)}
		}

		// A dirty nil version keeps its row so a failed down migration
		// of the first migration stays visible.
		// See: https://github.com/golang-migrate/migrate/issues/330
		if version >= 0 || (version == database.NilVersion && dirty) {
			insert := fmt.Sprintf("INSERT INTO %s (version, dirty) VALUES (?, ?)", versionTable)
			if _, err := tx.Exec(insert, version, dirty); err != nil {
				return &database.Error{OrigErr: err, Query: []byte(insert)}
			}
		}
		return nil
	})
}

// Version reports the current migration version, or NilVersion for a
// fresh database.
func (d *sqliteDriver) Version() (version int, dirty bool, err error) {
	query := "SELECT version, dirty FROM " + versionTable + " LIMIT 1"
	err = d.db.QueryRow(query).Scan(&version, &dirty)
	if err != nil {
		return database.NilVersion, false, nil
	}
	return version, dirty, nil
}

// Drop removes every user table, then vacuums.
func (d *sqliteDriver) Drop() error {
	names, err := d.userTables()
	if err != nil {
		return err
	}

	for _, name := range names {
		if err := d.executeQuery("DROP TABLE " + name); err != nil {
			return err
		}
	}
	if len(names) > 0 {
		if _, err := d.db.Exec("VACUUM"); err != nil {
			return &database.Error{OrigErr: err, Query: []byte("VACUUM")}
		}
	}
	return nil
}

func (d *sqliteDriver) userTables() (names []string, err error) {
	const query = `SELECT name FROM sqlite_master WHERE type = 'table'`
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, &database.Error{OrigErr: err, Query: []byte(query)}
	}
	defer func() {
		if errClose := rows.Close(); errClose != nil {
			err = errors.Join(err, errClose)
		}
	}()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if name != "" {
			names = append(names, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &database.Error{OrigErr: err, Query: []byte(query)}
	}
	return names, nil
}
