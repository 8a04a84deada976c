package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Storage is the local ledger of sync runs and uploaded workouts.
type Storage struct {
	DB *sql.DB
}

// NewStorage opens the ledger at url. Plain paths and file: URLs use the
// embedded sqlite driver, anything else (libsql://, https://) goes to
// libsql.
func NewStorage(url string) (*Storage, error) {
	if url == "" {
		return nil, fmt.Errorf("ledger connection string is empty")
	}

	db, err := sql.Open(driverFor(url), url)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger %s: %w", url, err)
	}

	if err := initializeDB(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize ledger: %w", err)
	}

	return &Storage{DB: db}, nil
}

func driverFor(url string) string {
	if strings.HasPrefix(url, "file:") || !strings.Contains(url, "://") {
		return "sqlite"
	}
	return "libsql"
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func initializeDB(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS sync_runs (
            id TEXT PRIMARY KEY,
            command TEXT NOT NULL,
            started_at TEXT NOT NULL,
            finished_at TEXT,
            attempted INTEGER NOT NULL DEFAULT 0,
            succeeded INTEGER NOT NULL DEFAULT 0,
            failed INTEGER NOT NULL DEFAULT 0
        );

        CREATE TABLE IF NOT EXISTS uploads (
            id TEXT PRIMARY KEY,
            run_id TEXT,
            workout_id INTEGER NOT NULL,
            workout_name TEXT NOT NULL,
            week INTEGER NOT NULL,
            day TEXT NOT NULL,
            scheduled_date TEXT NOT NULL,
            scheduled INTEGER NOT NULL,
            uploaded_at TEXT NOT NULL,
            deleted_at TEXT,
            FOREIGN KEY (run_id) REFERENCES sync_runs(id) ON DELETE SET NULL
        );

        CREATE INDEX IF NOT EXISTS uploads_workout_id ON uploads (workout_id);
        CREATE INDEX IF NOT EXISTS uploads_week ON uploads (week);
    `)
	return err
}

// StartRun records the start of a batch command and returns its id.
func (s *Storage) StartRun(ctx context.Context, command string) (string, error) {
	runID := uuid.New().String()
	startedAt := time.Now().UTC().Format(time.RFC3339)

	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO sync_runs (id, command, started_at) VALUES (?, ?, ?)",
		runID, command, startedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return runID, nil
}

// FinishRun stores the final counts of a run.
func (s *Storage) FinishRun(ctx context.Context, runID string, attempted, succeeded, failed int) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE sync_runs
         SET finished_at = ?, attempted = ?, succeeded = ?, failed = ?
         WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), attempted, succeeded, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}
