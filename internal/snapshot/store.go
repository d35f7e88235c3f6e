// Package snapshot persists predictor SaveToJSON() blobs to a
// SQLite-backed table, keyed by a caller-supplied label. It is a
// host-side convenience only: the core predict.Predictor never
// depends on this package or on SQLite, per spec §1's non-goal that
// the library itself does not own persistence.
//
// Grounded on the teacher's migration runner
// (cmd/lvt/internal/migration/runner.go: goose + modernc.org/sqlite,
// SetDialect("sqlite3")) and its examples/todos/db_manager.go
// (sql.Open("sqlite", path), Ping-then-migrate idiom).
package snapshot

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a migrated SQLite database holding predictor snapshots.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// applies any pending goose migrations. path may be ":memory:" for
// ephemeral use (tests, short-lived CLI invocations).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping snapshot database: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply snapshot migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the snapshot blob under label.
func (s *Store) Save(ctx context.Context, label string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (label, data, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(label) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at
	`, label, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", label, err)
	}
	return nil
}

// Load returns the blob stored under label, or an error if label does
// not exist.
func (s *Store) Load(ctx context.Context, label string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE label = ?`, label).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", label, err)
	}
	return data, nil
}

// Labels lists all stored snapshot labels, most recently saved first.
func (s *Store) Labels(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT label FROM snapshots ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

// Delete removes the snapshot stored under label. Deleting an unknown
// label is a no-op.
func (s *Store) Delete(ctx context.Context, label string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE label = ?`, label)
	if err != nil {
		return fmt.Errorf("delete snapshot %q: %w", label, err)
	}
	return nil
}
