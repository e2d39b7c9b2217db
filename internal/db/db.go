// Package db implements sqlite-backed storage for customers, accounts,
// KPI records, reference ranges, and health trend snapshots.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type DB struct {
	*sql.DB
}

// OpenDB opens the database and applies connection pragmas without
// touching the schema. Used by the migrate CLI, which manages the schema
// itself.
func OpenDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL keeps concurrent API reads from blocking uploads; the busy
	// timeout covers short write contention instead of failing fast.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}
	return &DB{sqlDB}, nil
}

// NewDB opens the database and brings the schema up to the latest
// migration version.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// IsConflict reports whether err is a uniqueness-constraint violation.
// Copy-on-write override races and duplicate default seeding surface this
// way; callers map it to HTTP 409 rather than retrying.
func IsConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
