package storage

import (
	"context"
	"fmt"
	"time"
)

// RecordSyncRun inserts one sync-run audit row.
func (s *Store) RecordSyncRun(ctx context.Context, run SyncRun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_runs (id, user_id, started_at, upserted, deleted, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.UserID, run.StartedAt.UTC().Format(time.RFC3339),
		run.Upserted, run.Deleted, run.Status, run.Error,
	)
	return err
}

// RecentSyncRuns returns the user's most recent sync runs, newest first.
func (s *Store) RecentSyncRuns(ctx context.Context, userID string, limit int) ([]SyncRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, started_at, upserted, deleted, status, error
		FROM sync_runs WHERE user_id = ?
		ORDER BY started_at DESC LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []SyncRun
	for rows.Next() {
		var r SyncRun
		var startedAt string
		if err := rows.Scan(&r.ID, &r.UserID, &startedAt, &r.Upserted, &r.Deleted, &r.Status, &r.Error); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
		r.StartedAt = t
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
