package drive

import (
	"net/url"
	"strings"
)

// DefaultLibraryRoot is the well-known document library root segment that
// SharePoint uses for the default library of a site. Recycle-bin metadata
// records paths relative to the site collection, so this token marks where
// the drive-relative portion of the path begins.
const DefaultLibraryRoot = "Shared Documents"

// graphRootPrefix is the parent reference prefix Graph uses for
// drive-root-relative paths.
const graphRootPrefix = "/drive/root:"

// DeriveFolderPath converts the coarse "deleted from" location recorded on a
// recycle-bin entry into a best-guess drive-relative folder path.
//
//	"sites/Contoso/Shared Documents/Finance" -> "Shared Documents/Finance"
//
// The LAST occurrence of the library root wins so that a site name which
// happens to contain the same token does not truncate the real path. When no
// library root is present, a leading "sites/<name>/" prefix is stripped;
// otherwise the trimmed input is returned as-is. An empty result means
// "no folder hint" and is a valid outcome, not an error.
func DeriveFolderPath(deletedFrom string) string {
	p := strings.Trim(strings.TrimSpace(deletedFrom), "/")
	if p == "" {
		return ""
	}

	if idx := strings.LastIndex(p, DefaultLibraryRoot); idx >= 0 {
		return p[idx:]
	}

	// Fallback: strip a leading "sites/<site>/" segment pair.
	if rest, ok := strings.CutPrefix(p, "sites/"); ok {
		if _, remainder, found := strings.Cut(rest, "/"); found && remainder != "" {
			return remainder
		}
	}

	return p
}

// ParentFolderPath extracts the drive-relative folder path from a Graph
// parent reference path, URL-decoding it. Returns "" when the reference does
// not point under the drive root.
func ParentFolderPath(parentRef string) string {
	if parentRef == "" {
		return ""
	}
	rest, ok := strings.CutPrefix(parentRef, graphRootPrefix)
	if !ok {
		return ""
	}
	rest = strings.TrimPrefix(rest, "/")
	if decoded, err := url.PathUnescape(rest); err == nil {
		return decoded
	}
	return rest
}
