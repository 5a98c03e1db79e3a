package repository

import (
	"context"

	"stockflow-pos-api/internal/model"
)

// SyncLogRepository defines sync-run history access methods.
type SyncLogRepository interface {
	// InsertSyncRun records one completed sync pass.
	InsertSyncRun(ctx context.Context, run *model.SyncRun) error

	// RecentSyncRuns returns the most recent runs, newest first.
	RecentSyncRuns(ctx context.Context, limit int) ([]model.SyncRun, error)
}
