// Package transfer streams located drive items to local files.
package transfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sprestore/domain/drive"
	"sprestore/logging"
)

// ContentOpener opens the byte stream of a drive item. Satisfied by
// graphclient.Client.
type ContentOpener interface {
	OpenContent(ctx context.Context, siteID, itemID string) (io.ReadCloser, error)
}

// Downloader writes drive item content to a local directory.
type Downloader struct {
	content ContentOpener
	logger  *logging.Logger
}

// NewDownloader creates a downloader on the given content source.
func NewDownloader(content ContentOpener) *Downloader {
	return &Downloader{
		content: content,
		logger:  logging.Default().WithComponent("downloader"),
	}
}

// Download streams the item's content into outDir and returns the local
// path. The content is written to a hidden temp file first and renamed into
// place so an interrupted transfer never leaves a truncated file under the
// final name.
func (d *Downloader) Download(ctx context.Context, siteID string, item *drive.Item, outDir string) (string, error) {
	name := item.Name
	if name == "" {
		name = "download_" + item.ID
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	body, err := d.content.OpenContent(ctx, siteID, item.ID)
	if err != nil {
		return "", fmt.Errorf("open content: %w", err)
	}
	defer body.Close()

	local := filepath.Join(outDir, name)
	tmp, err := os.CreateTemp(outDir, "."+name+".tmp")
	if err != nil {
		return "", fmt.Errorf("create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("write content: %w", err)
	}

	if err := os.Rename(tmpName, local); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("finalize download: %w", err)
	}

	d.logger.Info("Downloaded restored item",
		"item_id", item.ID,
		"local_path", local,
		"bytes", written)
	return local, nil
}
