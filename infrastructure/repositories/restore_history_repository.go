// Package repositories contains SQL-backed implementations of the domain
// repository contracts.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sprestore/database"
	"sprestore/domain/contracts"
	"sprestore/domain/recyclebin"
	"sprestore/logging"
)

// SQLRestoreHistoryRepository stores restore runs in the local SQLite
// database.
type SQLRestoreHistoryRepository struct {
	db     *database.Database
	logger *logging.Logger
}

var _ contracts.RestoreHistoryRepository = (*SQLRestoreHistoryRepository)(nil)

// NewRestoreHistoryRepository creates a repository on the shared database.
func NewRestoreHistoryRepository(db *database.Database) *SQLRestoreHistoryRepository {
	return &SQLRestoreHistoryRepository{
		db:     db,
		logger: logging.Default().WithComponent("restore_history_repository"),
	}
}

// RecordRun inserts a new pending run.
func (r *SQLRestoreHistoryRepository) RecordRun(ctx context.Context, run *recyclebin.RestoreRun) error {
	_, err := r.db.Write().ExecContext(ctx, `
		INSERT INTO restore_runs (
			run_id, site_id, item_id, item_name, deleted_from,
			expected_folder, acknowledged, outcome, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.SiteID, run.ItemID, run.ItemName, run.DeletedFrom,
		run.ExpectedFolder, boolToInt(run.Acknowledged), recyclebin.RunPending,
		run.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record restore run %s: %w", run.RunID, err)
	}
	r.logger.Database("Recorded restore run", "run_id", run.RunID, "item_id", run.ItemID)
	return nil
}

// CompleteRun updates the run's outcome fields.
func (r *SQLRestoreHistoryRepository) CompleteRun(ctx context.Context, run *recyclebin.RestoreRun) error {
	finished := time.Now().UTC()
	if run.FinishedAt != nil {
		finished = run.FinishedAt.UTC()
	}
	res, err := r.db.Write().ExecContext(ctx, `
		UPDATE restore_runs
		SET outcome = ?, attempts = ?, located_path = ?, local_path = ?,
		    acknowledged = ?, finished_at = ?
		WHERE run_id = ?`,
		run.Outcome, run.Attempts, run.LocatedPath, run.LocalPath,
		boolToInt(run.Acknowledged), finished.Format(time.RFC3339), run.RunID,
	)
	if err != nil {
		return fmt.Errorf("complete restore run %s: %w", run.RunID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("complete restore run %s: run not found", run.RunID)
	}
	return nil
}

// RecentRuns returns the most recent runs for a site, newest first.
func (r *SQLRestoreHistoryRepository) RecentRuns(ctx context.Context, siteID string, limit int) ([]*recyclebin.RestoreRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Read().QueryContext(ctx, `
		SELECT run_id, site_id, item_id, item_name, deleted_from,
		       expected_folder, acknowledged, outcome, attempts,
		       located_path, local_path, started_at, finished_at
		FROM restore_runs
		WHERE site_id = ?
		ORDER BY started_at DESC
		LIMIT ?`, siteID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent runs for site %s: %w", siteID, err)
	}
	defer rows.Close()

	var runs []*recyclebin.RestoreRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (*recyclebin.RestoreRun, error) {
	var (
		run          recyclebin.RestoreRun
		acknowledged int
		startedAt    string
		finishedAt   sql.NullString
	)
	if err := rows.Scan(
		&run.RunID, &run.SiteID, &run.ItemID, &run.ItemName, &run.DeletedFrom,
		&run.ExpectedFolder, &acknowledged, &run.Outcome, &run.Attempts,
		&run.LocatedPath, &run.LocalPath, &startedAt, &finishedAt,
	); err != nil {
		return nil, fmt.Errorf("scan restore run: %w", err)
	}
	run.Acknowledged = acknowledged != 0
	if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
		run.StartedAt = t
	}
	if finishedAt.Valid {
		if t, err := time.Parse(time.RFC3339, finishedAt.String); err == nil {
			run.FinishedAt = &t
		}
	}
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
