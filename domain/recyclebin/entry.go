// Package recyclebin holds the domain model for site recycle-bin entries
// and restore submissions.
package recyclebin

import "time"

// Entry is an immutable snapshot of a recycle-bin item, fetched once from
// the bin listing. ID is unique within the site's recycle bin.
type Entry struct {
	ID          string
	Name        string
	Size        int64
	DeletedAt   time.Time
	DeletedBy   string // Display name, empty if unknown
	DeletedFrom string // Coarse site-relative path recorded at delete time
	WebURL      string
}

// RestoreOutcome reports how the bulk restore endpoint acknowledged a
// submission. AcknowledgedIDs is always a subset of RequestedIDs, and the
// relationship is advisory only: the restore runs asynchronously, so an ID
// missing from the acknowledgement does not mean the restore failed.
type RestoreOutcome struct {
	RequestedIDs    []string
	AcknowledgedIDs []string
}

// Acknowledged reports whether id was echoed back by the restore endpoint.
func (o *RestoreOutcome) Acknowledged(id string) bool {
	for _, a := range o.AcknowledgedIDs {
		if a == id {
			return true
		}
	}
	return false
}
