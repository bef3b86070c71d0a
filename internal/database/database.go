// Package database opens the local SQLite store shared by skyglass
// repositories and applies their schema migrations.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	appDir = "skyglass"
	dbFile = "state.db"
)

var pathOverride string

// SetPath overrides the default database path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// DefaultPath returns the database location under the user config dir.
func DefaultPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("database: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, dbFile), nil
}

// Open opens (creating if needed) the SQLite database at path. Writers
// wait on a busy lock instead of failing, since the dashboard and a CLI
// command may touch the file at the same time.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("database: failed to create directory %s: %w", dir, err)
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("database: failed to open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: failed to open %s: %w", path, err)
	}
	return db, nil
}

// Migrate applies the steps of a named schema that have not run yet.
// Step i is recorded as version i+1 in schema_versions, so steps must
// only ever be appended.
func Migrate(db *sql.DB, schema string, steps []string) error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS schema_versions (
            schema  TEXT    PRIMARY KEY,
            version INTEGER NOT NULL
        )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("database: %s: %w", schema, err)
	}

	var current int
	err := db.QueryRow(`SELECT version FROM schema_versions WHERE schema = ?`, schema).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("database: %s: reading version: %w", schema, err)
	}

	for i := current; i < len(steps); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("database: %s: %w", schema, err)
		}
		if _, err := tx.Exec(steps[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("database: %s: migration %d failed: %w", schema, i+1, err)
		}
		_, err = tx.Exec(`INSERT INTO schema_versions (schema, version) VALUES (?, ?)
            ON CONFLICT(schema) DO UPDATE SET version = excluded.version`, schema, i+1)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("database: %s: %w", schema, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("database: %s: %w", schema, err)
		}
	}
	return nil
}
