package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run records one lint/parse of a build file.
type Run struct {
	ID        string
	File      string
	OK        bool
	Message   string // first diagnostic on failure, empty on success
	Duration  time.Duration
	StartedAt time.Time
}

// Store is an append-only log of parse runs backed by SQLite. The
// watch daemon records every re-lint here so that past outcomes
// survive restarts.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the run history database at the
// given path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history path cannot be empty")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	s := &Store{
		db:     db,
		logger: slog.Default().With("component", "history"),
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		file TEXT NOT NULL,
		ok INTEGER NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		duration_us INTEGER NOT NULL,
		started_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_file ON runs(file);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record appends a run to the history. A missing id is assigned; a
// missing start time defaults to now.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	if run.File == "" {
		return "", fmt.Errorf("run file cannot be empty")
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, file, ok, message, duration_us, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.File, run.OK, run.Message,
		run.Duration.Microseconds(), run.StartedAt.Unix())
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}

	return run.ID, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file, ok, message, duration_us, started_at
		FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationUS, startedAt int64
		if err := rows.Scan(&r.ID, &r.File, &r.OK, &r.Message, &durationUS, &startedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Duration = time.Duration(durationUS) * time.Microsecond
		r.StartedAt = time.Unix(startedAt, 0)
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// Prune deletes runs older than the retention window and returns the
// number deleted. The watch daemon calls this on its sweep schedule.
func (s *Store) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).Unix()

	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("pruned run history", "deleted", deleted)
	}

	return deleted, nil
}
