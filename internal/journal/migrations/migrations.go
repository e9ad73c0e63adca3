// Package migrations holds the journal schema and applies it with
// golang-migrate from embedded SQL files.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var migrationFiles embed.FS

// ErrNoVersion means the database has never been migrated.
var ErrNoVersion = errors.New("journal has no schema version (needs migration)")

// Up applies every pending migration. An up-to-date database is not an error.
func Up(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}
	// Closing m would close db, which the caller owns.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Check reports whether db is exactly at the latest schema version.
func Check(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return ErrNoVersion
	}
	if err != nil {
		return fmt.Errorf("failed to get journal version: %w", err)
	}
	if dirty {
		return fmt.Errorf("journal is in dirty state at version %d (migration failed previously)", version)
	}

	latest, err := Latest()
	if err != nil {
		return err
	}
	switch {
	case version < latest:
		return fmt.Errorf("journal is at version %d but latest is %d", version, latest)
	case version > latest:
		return fmt.Errorf("journal version %d is newer than this binary supports (%d)", version, latest)
	}
	return nil
}

// Latest returns the highest migration version embedded in the binary.
func Latest() (uint, error) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return 0, fmt.Errorf("failed to read migration files: %w", err)
	}
	defer src.Close()

	version, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("no migrations embedded: %w", err)
	}
	for {
		next, err := src.Next(version)
		if errors.Is(err, os.ErrNotExist) {
			return version, nil
		}
		if err != nil {
			return 0, fmt.Errorf("walking migrations: %w", err)
		}
		version = next
	}
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
