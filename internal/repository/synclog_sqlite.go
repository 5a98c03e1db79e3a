package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stockflow-pos-api/internal/model"
)

// SQLiteSyncLogRepository implements SyncLogRepository on the local device
// database. It shares the single-writer SQLite handle owned by the device
// store.
type SQLiteSyncLogRepository struct {
	db *sql.DB
}

// NewSQLiteSyncLogRepository creates the sync log table if needed.
func NewSQLiteSyncLogRepository(db *sql.DB) (*SQLiteSyncLogRepository, error) {
	query := `
	CREATE TABLE IF NOT EXISTS sync_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trigger_source TEXT NOT NULL,
		synced INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		skipped_decrements INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		started_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sync_runs_started ON sync_runs(started_at);
	`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create sync_runs table: %w", err)
	}
	return &SQLiteSyncLogRepository{db: db}, nil
}

// InsertSyncRun records one completed sync pass.
func (r *SQLiteSyncLogRepository) InsertSyncRun(ctx context.Context, run *model.SyncRun) error {
	query := `
		INSERT INTO sync_runs (trigger_source, synced, errors, skipped_decrements, duration_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		run.Trigger, run.Synced, run.Errors, run.SkippedDecrements,
		run.DurationMs, run.StartedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		run.ID = id
	}
	return nil
}

// RecentSyncRuns returns the most recent runs, newest first.
func (r *SQLiteSyncLogRepository) RecentSyncRuns(ctx context.Context, limit int) ([]model.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, trigger_source, synced, errors, skipped_decrements, duration_ms, started_at
		FROM sync_runs
		ORDER BY id DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	defer rows.Close()

	runs := []model.SyncRun{}
	for rows.Next() {
		var run model.SyncRun
		var startedAt string
		if err := rows.Scan(&run.ID, &run.Trigger, &run.Synced, &run.Errors,
			&run.SkippedDecrements, &run.DurationMs, &startedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
			run.StartedAt = t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Ensure SQLiteSyncLogRepository implements SyncLogRepository
var _ SyncLogRepository = (*SQLiteSyncLogRepository)(nil)
