package recyclebin

import "time"

// Run outcome values recorded in history.
const (
	RunPending   = "pending"
	RunFound     = "found"
	RunExhausted = "exhausted"
	RunCancelled = "cancelled"
)

// RestoreRun is the persisted record of one restore-and-locate run for a
// single recycle-bin entry.
type RestoreRun struct {
	RunID          string
	SiteID         string
	ItemID         string
	ItemName       string
	DeletedFrom    string
	ExpectedFolder string
	Acknowledged   bool
	Outcome        string // pending, found, exhausted, cancelled
	Attempts       int
	LocatedPath    string // drive-relative path the item reappeared at
	LocalPath      string // local download destination, empty if not downloaded
	StartedAt      time.Time
	FinishedAt     *time.Time
}
