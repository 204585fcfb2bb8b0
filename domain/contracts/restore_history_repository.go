// Package contracts defines repository interfaces implemented by the
// infrastructure layer.
package contracts

import (
	"context"

	"sprestore/domain/recyclebin"
)

// RestoreHistoryRepository persists restore-and-locate runs.
type RestoreHistoryRepository interface {
	// RecordRun inserts a new pending run.
	RecordRun(ctx context.Context, run *recyclebin.RestoreRun) error

	// CompleteRun updates the run's outcome fields once the locate loop and
	// download have finished.
	CompleteRun(ctx context.Context, run *recyclebin.RestoreRun) error

	// RecentRuns returns the most recent runs for a site, newest first.
	RecentRuns(ctx context.Context, siteID string, limit int) ([]*recyclebin.RestoreRun, error)
}
