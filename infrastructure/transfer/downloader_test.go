package transfer

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprestore/domain/drive"
)

type fakeContent struct {
	body string
	err  error
}

func (f *fakeContent) OpenContent(ctx context.Context, siteID, itemID string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func TestDownload_WritesFileUnderItemName(t *testing.T) {
	outDir := t.TempDir()
	d := NewDownloader(&fakeContent{body: "spreadsheet bytes"})

	local, err := d.Download(context.Background(), "site-1", &drive.Item{ID: "item-1", Name: "report.xlsx"}, outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "report.xlsx"), local)

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "spreadsheet bytes", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDownload_FallbackNameWhenItemNameEmpty(t *testing.T) {
	outDir := t.TempDir()
	d := NewDownloader(&fakeContent{body: "x"})

	local, err := d.Download(context.Background(), "site-1", &drive.Item{ID: "item-9"}, outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "download_item-9"), local)
}

func TestDownload_OpenFailure(t *testing.T) {
	d := NewDownloader(&fakeContent{err: errors.New("connection reset")})

	_, err := d.Download(context.Background(), "site-1", &drive.Item{ID: "item-1", Name: "a.txt"}, t.TempDir())
	assert.Error(t, err)
}
