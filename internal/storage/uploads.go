package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jpignata/garmin-training-plan/internal/models"
)

// RecordUpload adds an uploaded workout to the ledger. ID and UploadedAt
// are filled in when empty.
func (s *Storage) RecordUpload(ctx context.Context, rec models.UploadRecord) error {
	if rec.RunID != "" {
		ok, err := s.RunExists(ctx, rec.RunID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("run %s not found", rec.RunID)
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = time.Now().UTC()
	}

	var runID sql.NullString
	if rec.RunID != "" {
		runID = sql.NullString{String: rec.RunID, Valid: true}
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO uploads
        (id, run_id, workout_id, workout_name, week, day, scheduled_date, scheduled, uploaded_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		runID,
		rec.WorkoutID,
		rec.WorkoutName,
		rec.Week,
		rec.Day,
		rec.ScheduledDate,
		rec.Scheduled,
		rec.UploadedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record upload: %w", err)
	}
	return nil
}

// MarkDeleted flags every live upload of workoutID as deleted. Workouts
// the ledger never saw are ignored.
func (s *Storage) MarkDeleted(ctx context.Context, workoutID int64) error {
	_, err := s.DB.ExecContext(ctx,
		"UPDATE uploads SET deleted_at = ? WHERE workout_id = ? AND deleted_at IS NULL",
		time.Now().UTC().Format(time.RFC3339), workoutID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark workout %d deleted: %w", workoutID, err)
	}
	return nil
}

type UploadFilter struct {
	Week           int // 0 means every week
	IncludeDeleted bool
}

// ListUploads returns ledger entries ordered by scheduled date.
func (s *Storage) ListUploads(ctx context.Context, f UploadFilter) ([]models.UploadRecord, error) {
	query := `
        SELECT id, run_id, workout_id, workout_name, week, day, scheduled_date, scheduled, uploaded_at, deleted_at
        FROM uploads
        WHERE (? = 0 OR week = ?)`
	if !f.IncludeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY scheduled_date ASC, uploaded_at ASC"

	rows, err := s.DB.QueryContext(ctx, query, f.Week, f.Week)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	var records []models.UploadRecord
	for rows.Next() {
		var rec models.UploadRecord
		var runID, deletedAt sql.NullString
		var uploadedAt string
		if err := rows.Scan(
			&rec.ID, &runID, &rec.WorkoutID, &rec.WorkoutName, &rec.Week, &rec.Day,
			&rec.ScheduledDate, &rec.Scheduled, &uploadedAt, &deletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		rec.RunID = runID.String
		rec.UploadedAt, _ = time.Parse(time.RFC3339, uploadedAt)
		if deletedAt.Valid {
			rec.DeletedAt = new(time.Time)
			*rec.DeletedAt, _ = time.Parse(time.RFC3339, deletedAt.String)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListRuns returns the most recent runs first.
func (s *Storage) ListRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT id, command, started_at, finished_at, attempted, succeeded, failed
        FROM sync_runs
        ORDER BY started_at DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.SyncRun
	for rows.Next() {
		var run models.SyncRun
		var startedAt string
		var finishedAt sql.NullString
		if err := rows.Scan(&run.ID, &run.Command, &startedAt, &finishedAt, &run.Attempted, &run.Succeeded, &run.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		if finishedAt.Valid {
			run.FinishedAt = new(time.Time)
			*run.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt.String)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
