// Package history persists per-file conversion outcomes in SQLite so past
// runs can be inspected after the fact. Recording is best-effort from the
// caller's perspective; a history failure never fails a conversion.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Statuses recorded per file.
const (
	StatusDone   = "done"
	StatusFailed = "failed"
)

// Entry is one resolved conversion.
type Entry struct {
	ID         int64
	RunID      string
	Source     string
	Output     string
	Status     string
	Message    string
	Duration   time.Duration
	FinishedAt time.Time
}

// Store manages history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const schema = `
CREATE TABLE IF NOT EXISTS conversions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	source TEXT NOT NULL,
	output TEXT NOT NULL,
	status TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	finished_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversions_finished_at ON conversions(finished_at);
`

// Open initializes or connects to the history database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts one resolved conversion.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	finished := entry.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	return s.execWithRetry(ctx,
		`INSERT INTO conversions (run_id, source, output, status, message, duration_ms, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID, entry.Source, entry.Output, entry.Status, entry.Message,
		entry.Duration.Milliseconds(), finished.UTC().Format(time.RFC3339),
	)
}

// Recent returns the most recently finished conversions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, source, output, status, message, duration_ms, finished_at
		 FROM conversions ORDER BY finished_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var durationMS int64
		var finished string
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.Source, &entry.Output,
			&entry.Status, &entry.Message, &durationMS, &finished); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entry.Duration = time.Duration(durationMS) * time.Millisecond
		if ts, parseErr := time.Parse(time.RFC3339, finished); parseErr == nil {
			entry.FinishedAt = ts
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return entries, nil
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		_, lastErr = s.db.ExecContext(ctx, query, args...)
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == 5 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
