package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func (s *Storage) RunExists(ctx context.Context, runID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM sync_runs WHERE id = ?)",
		runID,
	).Scan(&exists)

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to check run existence: %w", err)
	}

	return exists, nil
}
