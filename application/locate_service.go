// Package application wires the domain logic to the Graph client: restore
// submission, restored-item reconciliation, and download orchestration.
package application

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"sprestore/domain/drive"
	"sprestore/infrastructure/graphclient"
	"sprestore/logging"
)

// LocateOutcome is the terminal state of a reconciliation run.
type LocateOutcome string

const (
	LocateFound     LocateOutcome = "found"
	LocateExhausted LocateOutcome = "exhausted"
	LocateCancelled LocateOutcome = "cancelled"
)

// LocateResult is the outcome of one reconciliation run. Item is set only
// when Outcome is LocateFound.
type LocateResult struct {
	Outcome  LocateOutcome
	Item     *drive.Item
	Attempts int
}

// ItemLocator is the read-only probe surface the reconciliation loop uses.
// Satisfied by graphclient.Client.
type ItemLocator interface {
	GetItemByPath(ctx context.Context, siteID, folderPath, name string) (*drive.Item, error)
	ListChildren(ctx context.Context, siteID, folderPath string) ([]*drive.Item, error)
	SearchItems(ctx context.Context, siteID, name string) ([]*drive.Item, error)
}

var _ ItemLocator = (graphclient.Client)(nil)

// LocateService reconciles a restored item's location against its expected
// folder and name. The backend restores asynchronously, so the item may not
// be visible yet, or may reappear under a collision-renamed name; the service
// probes with three strategies in strict authority order until the item is
// confirmed present or the attempt budget runs out.
type LocateService struct {
	probes      ItemLocator
	maxAttempts int
	delay       time.Duration
	logger      *logging.Logger
}

// NewLocateService creates a locate service with the given retry policy.
func NewLocateService(probes ItemLocator, maxAttempts int, delay time.Duration) *LocateService {
	if maxAttempts <= 0 {
		maxAttempts = 6
	}
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &LocateService{
		probes:      probes,
		maxAttempts: maxAttempts,
		delay:       delay,
		logger:      logging.Default().WithComponent("locate_service"),
	}
}

// errNotVisibleYet drives the retry loop: all three strategies missed on
// this attempt.
var errNotVisibleYet = errors.New("restored item not visible yet")

// Locate runs the reconciliation loop. folderPath is the expected folder
// derived once from the recycle-bin metadata (empty means "no folder hint",
// which skips the path-scoped probes and leans on search). The loop runs
// strictly sequentially, sleeping a fixed delay between attempts, and aborts
// promptly with LocateCancelled when ctx is cancelled.
func (s *LocateService) Locate(ctx context.Context, siteID, folderPath, name string) *LocateResult {
	result := &LocateResult{Outcome: LocateExhausted}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.delay), uint64(s.maxAttempts-1)),
		ctx,
	)

	attempt := func() error {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		result.Attempts++
		if item := s.probeOnce(ctx, siteID, folderPath, name, result.Attempts); item != nil {
			result.Outcome = LocateFound
			result.Item = item
			return nil
		}
		return errNotVisibleYet
	}

	if err := backoff.Retry(attempt, policy); err != nil {
		if ctx.Err() != nil {
			result.Outcome = LocateCancelled
		}
		s.logger.Warn("Locate did not confirm restored item",
			"site_id", siteID,
			"name", name,
			"expected_folder", folderPath,
			"attempts", result.Attempts,
			"outcome", string(result.Outcome))
		return result
	}

	s.logger.Info("Located restored item",
		"site_id", siteID,
		"name", result.Item.Name,
		"item_id", result.Item.ID,
		"attempts", result.Attempts)
	return result
}

// probeOnce runs the three strategies for a single attempt, in priority
// order with short-circuiting:
//
//  1. exact path — authoritative when it answers; avoids false positives
//     from same-named files elsewhere.
//  2. folder listing — catches collision renames in the expected folder.
//  3. drive-wide search — broadest and noisiest, used last, with
//     folder-proximity ranking to suppress false matches.
//
// Probe errors are demoted to misses: transient read failures are routine
// inside the consistency window and must degrade to the next strategy, never
// abort the attempt.
func (s *LocateService) probeOnce(ctx context.Context, siteID, folderPath, name string, attempt int) *drive.Item {
	if folderPath != "" {
		item, err := s.probes.GetItemByPath(ctx, siteID, folderPath, name)
		if err != nil {
			s.logger.Debug("Exact-path probe miss", "attempt", attempt, "error", err.Error())
		} else if item != nil {
			return item
		}

		children, err := s.probes.ListChildren(ctx, siteID, folderPath)
		if err != nil {
			s.logger.Debug("Folder-listing probe miss", "attempt", attempt, "error", err.Error())
		} else if len(children) > 0 {
			var candidates []*drive.Item
			for _, c := range children {
				if drive.MatchesRestoredName(c.Name, name) {
					candidates = append(candidates, c)
				}
			}
			if best := drive.Rank(candidates, folderPath); best != nil {
				return best
			}
		}
	}

	results, err := s.probes.SearchItems(ctx, siteID, name)
	if err != nil {
		s.logger.Debug("Search probe miss", "attempt", attempt, "error", err.Error())
		return nil
	}
	return drive.Rank(results, folderPath)
}
