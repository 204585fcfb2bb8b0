package drive

import (
	"net/url"
	"sort"
	"strings"
)

// MatchesRestoredName reports whether a candidate name can be the restored
// form of want. SharePoint may rename on restore when the original path is
// occupied ("report.xlsx" -> "report (1).xlsx"), so the candidate matches on
// exact equality or on sharing the original name's stem as a prefix. The
// collision-naming convention is backend behavior, not a contract; keep this
// rule isolated here so it can change without touching the locate loop.
func MatchesRestoredName(candidate, want string) bool {
	if candidate == "" || want == "" {
		return false
	}
	if candidate == want {
		return true
	}
	stem := want
	if idx := strings.LastIndex(want, "."); idx > 0 {
		stem = want[:idx]
	}
	return strings.HasPrefix(candidate, stem)
}

// Rank selects the single best candidate from a probe result set.
//
// Candidates whose parent path contains the expected folder (compared
// case-insensitively and tolerant of URL encoding) are preferred over the
// rest; within the chosen partition the most recently modified item wins,
// with item ID as the deterministic tie-break. Returns nil for an empty set.
func Rank(candidates []*Item, expectedFolder string) *Item {
	if len(candidates) == 0 {
		return nil
	}

	pool := candidates
	if expectedFolder != "" {
		var near []*Item
		for _, c := range candidates {
			if parentContainsFolder(c.ParentPath, expectedFolder) {
				near = append(near, c)
			}
		}
		if len(near) > 0 {
			pool = near
		}
	}

	best := make([]*Item, len(pool))
	copy(best, pool)
	sort.SliceStable(best, func(i, j int) bool {
		if !best[i].LastModified.Equal(best[j].LastModified) {
			return best[i].LastModified.After(best[j].LastModified)
		}
		return best[i].ID < best[j].ID
	})
	return best[0]
}

// parentContainsFolder checks folder proximity against a raw Graph parent
// reference path, which may be URL-encoded ("Shared%20Documents").
func parentContainsFolder(parentRef, folder string) bool {
	if parentRef == "" {
		return false
	}
	ref := strings.ToLower(parentRef)
	want := strings.ToLower(folder)

	if strings.Contains(ref, want) {
		return true
	}
	if decoded, err := url.PathUnescape(ref); err == nil && strings.Contains(decoded, want) {
		return true
	}
	// Also try the encoded form of the expected folder against the raw ref.
	return strings.Contains(ref, strings.ReplaceAll(want, " ", "%20"))
}
