// Package db provides the sqlite-backed run-history store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// DB wraps the sqlite connection.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and applies
// migrations.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// modernc sqlite is single-writer; serialize access.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, path: path}
	if err := db.ApplyMigrations(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// OpenUserDB opens the default history database at ~/.patchlint/history.db.
func OpenUserDB() (*DB, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home: %w", err)
	}
	return Open(filepath.Join(home, ".patchlint", "history.db"))
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Exec forwards to the underlying connection.
func (db *DB) Exec(query string, args ...any) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// ApplyMigrations brings the schema up to SchemaVersion. Safe to call on
// an already-migrated database.
func (db *DB) ApplyMigrations(ctx context.Context) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			subject TEXT NOT NULL DEFAULT '',
			ok INTEGER NOT NULL,
			error_count INTEGER NOT NULL DEFAULT 0,
			checked_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("create runs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_runs_checked_at ON runs(checked_at)`); err != nil {
		return fmt.Errorf("create runs index: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO schema_migrations(version, applied_at) VALUES(?, ?)`,
		SchemaVersion, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

// GetSchemaVersion returns the highest applied schema version.
func (db *DB) GetSchemaVersion() (int, error) {
	var version int
	err := db.conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("query schema version: %w", err)
	}
	return version, nil
}

// ValidateSchema verifies the applied schema matches this build.
func (db *DB) ValidateSchema() error {
	version, err := db.GetSchemaVersion()
	if err != nil {
		return err
	}
	if version != SchemaVersion {
		return fmt.Errorf("schema version mismatch: have %d, want %d", version, SchemaVersion)
	}
	return nil
}
