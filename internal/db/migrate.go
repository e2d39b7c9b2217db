package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// newMigrate creates a migrate instance over the embedded migration files.
// The instance is not closed by callers because closing it would close the
// underlying DB connection.
func (db *DB) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}
	return migrate.NewWithInstance("iofs", src, "sqlite", driver)
}

// MigrateUp runs all pending migrations up to the latest version.
// Returns nil if the schema is already current.
func (db *DB) MigrateUp() error {
	m, err := db.newMigrate()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func (db *DB) MigrateDown() error {
	m, err := db.newMigrate()
	if err != nil {
		return err
	}
	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// MigrateVersion returns the current migration version and dirty state.
// Returns 0, false, nil if no migrations have been applied yet.
func (db *DB) MigrateVersion() (version uint, dirty bool, err error) {
	m, err := db.newMigrate()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = m.Version()
	if err != nil && errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// MigrateForce forces the migration version to a specific value. Only for
// recovering from a dirty migration state.
func (db *DB) MigrateForce(version int) error {
	m, err := db.newMigrate()
	if err != nil {
		return err
	}
	if err := m.Force(version); err != nil {
		return fmt.Errorf("force migration to version %d failed: %w", version, err)
	}
	return nil
}
