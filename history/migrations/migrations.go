// Package migrations applies the schema for the run history database.
//
// Migration SQL lives next to this file and is embedded into the binary,
// so a semlint install needs no external migration assets. The package
// ships its own golang-migrate driver because the stock sqlite3 driver
// pulls in mattn/go-sqlite3, which collides with the CGO-free
// ncruces/go-sqlite3 driver the history store opens its connections
// with (both register as "sqlite3").
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var migrationFiles embed.FS

// RunMigrations brings the history database up to the current schema.
// A database that is already current is not an error.
func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationFiles, ".")
	if err != nil {
		return fmt.Errorf("load migration source: %w", err)
	}

	driver, err := newDriver(db)
	if err != nil {
		return fmt.Errorf("prepare migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("assemble migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
