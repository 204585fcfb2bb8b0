// Package drive holds the domain model for drive items and the pure
// decision logic used while reconciling a restored item's location:
// deriving the expected folder from recycle-bin metadata, matching
// restored-and-possibly-renamed candidates, and ranking them.
package drive

import "time"

// Item is a drive item as seen by the location probes. Every probe call
// produces fresh Items; they are never cached across reconciliation
// attempts because the backend's state is still converging.
type Item struct {
	ID           string    // Graph drive item ID
	Name         string    // File or folder leaf name
	Size         int64     // Size in bytes, 0 if not reported
	LastModified time.Time // Zero value if the backend omitted it
	ParentPath   string    // Parent reference path, e.g. "/drive/root:/Shared Documents/Finance"
	WebURL       string
}

// RestoredPath returns the best human-readable "folder/name" location for
// a located item, decoding the Graph parent reference prefix when present.
func (i *Item) RestoredPath() string {
	folder := ParentFolderPath(i.ParentPath)
	if folder == "" {
		return i.Name
	}
	return folder + "/" + i.Name
}
