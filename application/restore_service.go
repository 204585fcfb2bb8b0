package application

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"sprestore/domain/contracts"
	"sprestore/domain/drive"
	"sprestore/domain/recyclebin"
	"sprestore/logging"
)

// RecycleBinClient is the recycle-bin surface the restore service uses.
// Satisfied by graphclient.Client.
type RecycleBinClient interface {
	ListRecycleBinItems(ctx context.Context, siteID string, pageSize int) ([]*recyclebin.Entry, error)
	RestoreRecycleBinItems(ctx context.Context, siteID string, ids []string) (*recyclebin.RestoreOutcome, error)
}

// ItemDownloader transfers a located item to local storage. Satisfied by
// transfer.Downloader.
type ItemDownloader interface {
	Download(ctx context.Context, siteID string, item *drive.Item, outDir string) (string, error)
}

// ItemReport is the per-entry result of a restore-and-fetch invocation.
type ItemReport struct {
	Entry          *recyclebin.Entry
	RunID          string
	ExpectedFolder string // derived folder hint, empty when underivable
	Locate         *LocateResult
	LocalPath      string // set when the download succeeded
	DownloadErr    error  // set when locate succeeded but the transfer failed
}

// RestoreService submits recycle-bin restores and reconciles each restored
// entry's location before downloading it.
type RestoreService struct {
	bin        RecycleBinClient
	locator    *LocateService
	downloader ItemDownloader
	history    contracts.RestoreHistoryRepository
	outDir     string
	logger     *logging.Logger
}

// NewRestoreService creates the restore orchestrator. history may be nil
// when run-history persistence is disabled.
func NewRestoreService(
	bin RecycleBinClient,
	locator *LocateService,
	downloader ItemDownloader,
	history contracts.RestoreHistoryRepository,
	outDir string,
) *RestoreService {
	if outDir == "" {
		outDir = "."
	}
	return &RestoreService{
		bin:        bin,
		locator:    locator,
		downloader: downloader,
		history:    history,
		outDir:     outDir,
		logger:     logging.Default().WithComponent("restore_service"),
	}
}

// ListRecycleBin fetches the site recycle bin once.
func (s *RestoreService) ListRecycleBin(ctx context.Context, siteID string, pageSize int) ([]*recyclebin.Entry, error) {
	return s.bin.ListRecycleBinItems(ctx, siteID, pageSize)
}

// SubmitRestore submits one bulk restore for the given entries. Submission
// happens exactly once per invocation; a partial or empty acknowledgement is
// advisory and logged, never an error.
func (s *RestoreService) SubmitRestore(ctx context.Context, siteID string, ids []string) (*recyclebin.RestoreOutcome, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no recycle-bin entry ids to restore")
	}

	outcome, err := s.bin.RestoreRecycleBinItems(ctx, siteID, ids)
	if err != nil {
		return nil, fmt.Errorf("restore submission: %w", err)
	}

	for _, id := range ids {
		if !outcome.Acknowledged(id) {
			s.logger.Warn("Restore acknowledgement missing id (restore may still proceed)",
				"site_id", siteID, "item_id", id)
		}
	}
	s.logger.Restore("Restore submitted", siteID)
	return outcome, nil
}

// RestoreAndFetch runs the full flow for the selected entries: one bulk
// restore submission, then a fully independent reconcile-and-download pass
// per entry. The per-entry passes share no state; a failure or exhaustion on
// one entry never aborts the others.
func (s *RestoreService) RestoreAndFetch(ctx context.Context, siteID string, entries []*recyclebin.Entry) ([]*ItemReport, error) {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}

	outcome, err := s.SubmitRestore(ctx, siteID, ids)
	if err != nil {
		return nil, err
	}

	reports := make([]*ItemReport, 0, len(entries))
	for _, entry := range entries {
		reports = append(reports, s.reconcileEntry(ctx, siteID, entry, outcome))
	}
	return reports, nil
}

// reconcileEntry locates one restored entry and downloads it. The expected
// folder is derived exactly once and reused for every probe attempt.
func (s *RestoreService) reconcileEntry(ctx context.Context, siteID string, entry *recyclebin.Entry, outcome *recyclebin.RestoreOutcome) *ItemReport {
	report := &ItemReport{
		Entry:          entry,
		RunID:          xid.New().String(),
		ExpectedFolder: drive.DeriveFolderPath(entry.DeletedFrom),
	}
	logger := s.logger.WithRun(report.RunID)

	run := &recyclebin.RestoreRun{
		RunID:          report.RunID,
		SiteID:         siteID,
		ItemID:         entry.ID,
		ItemName:       entry.Name,
		DeletedFrom:    entry.DeletedFrom,
		ExpectedFolder: report.ExpectedFolder,
		Acknowledged:   outcome.Acknowledged(entry.ID),
		Outcome:        recyclebin.RunPending,
		StartedAt:      time.Now().UTC(),
	}
	s.recordRun(ctx, logger, run)

	logger.Info("Reconciling restored item",
		"site_id", siteID,
		"item_id", entry.ID,
		"name", entry.Name,
		"expected_folder", report.ExpectedFolder)

	report.Locate = s.locator.Locate(ctx, siteID, report.ExpectedFolder, entry.Name)
	run.Attempts = report.Locate.Attempts

	switch report.Locate.Outcome {
	case LocateFound:
		run.Outcome = recyclebin.RunFound
		run.LocatedPath = report.Locate.Item.RestoredPath()

		local, err := s.downloader.Download(ctx, siteID, report.Locate.Item, s.outDir)
		if err != nil {
			// The locate result stands; only the transfer failed.
			report.DownloadErr = err
			logger.Warn("Download failed after successful locate",
				"item_id", report.Locate.Item.ID, "error", err.Error())
		} else {
			report.LocalPath = local
			run.LocalPath = local
		}
	case LocateCancelled:
		run.Outcome = recyclebin.RunCancelled
	default:
		run.Outcome = recyclebin.RunExhausted
	}

	s.completeRun(ctx, logger, run)
	return report
}

// History persistence is supplementary: failures are logged, never fatal to
// the restore flow.
func (s *RestoreService) recordRun(ctx context.Context, logger *logging.Logger, run *recyclebin.RestoreRun) {
	if s.history == nil {
		return
	}
	if err := s.history.RecordRun(ctx, run); err != nil {
		logger.Warn("Failed to record restore run", "error", err.Error())
	}
}

func (s *RestoreService) completeRun(ctx context.Context, logger *logging.Logger, run *recyclebin.RestoreRun) {
	if s.history == nil {
		return
	}
	// Outcome must be recorded even when the run itself was cancelled.
	if err := s.history.CompleteRun(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("Failed to update restore run", "error", err.Error())
	}
}
