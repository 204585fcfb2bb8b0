package graphclient

import (
	"net/url"
	"strings"
	"time"

	"sprestore/domain/drive"
	"sprestore/domain/recyclebin"
)

// escapeDrivePath encodes a drive-relative path for use inside a Graph
// "root:/<path>" segment, escaping each segment but preserving separators.
func escapeDrivePath(parts ...string) string {
	var segs []string
	for _, p := range parts {
		if p == "" {
			continue
		}
		for _, seg := range strings.Split(strings.Trim(p, "/"), "/") {
			segs = append(segs, url.PathEscape(seg))
		}
	}
	return strings.Join(segs, "/")
}

// parseGraphTime parses Graph's RFC3339 timestamps, returning the zero value
// for absent or malformed input so a missing timestamp just ranks last.
func parseGraphTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func mapDriveItem(api driveItemAPI) *drive.Item {
	item := &drive.Item{
		ID:           api.ID,
		Name:         api.Name,
		Size:         api.Size,
		LastModified: parseGraphTime(api.LastModifiedDateTime),
		WebURL:       api.WebURL,
	}
	if api.ParentReference != nil {
		item.ParentPath = api.ParentReference.Path
	}
	return item
}

func mapDriveItems(apis []driveItemAPI) []*drive.Item {
	items := make([]*drive.Item, 0, len(apis))
	for _, a := range apis {
		items = append(items, mapDriveItem(a))
	}
	return items
}

func mapRecycleBinEntry(api recycleBinItemAPI) *recyclebin.Entry {
	entry := &recyclebin.Entry{
		ID:          api.ID,
		Name:        api.Name,
		Size:        api.Size,
		DeletedAt:   parseGraphTime(api.DeletedDateTime),
		DeletedFrom: api.DeletedFromLocation,
		WebURL:      api.WebURL,
	}
	if api.DeletedBy != nil {
		if api.DeletedBy.User != nil && api.DeletedBy.User.DisplayName != "" {
			entry.DeletedBy = api.DeletedBy.User.DisplayName
		} else {
			entry.DeletedBy = api.DeletedBy.DisplayName
		}
	}
	return entry
}
