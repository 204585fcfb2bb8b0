// Package graphclient wraps the Microsoft Graph REST surface used for
// recycle-bin restore and restored-item reconciliation. The caller supplies
// a ready bearer token; this package never acquires or refreshes credentials.
package graphclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"sprestore/domain/drive"
	"sprestore/domain/recyclebin"
	"sprestore/logging"
)

// Team is a joined team offered for interactive site selection.
type Team struct {
	ID          string
	DisplayName string
	Description string
}

// Channel is listed for selection context only; the restore itself is scoped
// to the team's root site.
type Channel struct {
	ID             string
	DisplayName    string
	MembershipType string
}

// Site identifies the SharePoint site whose drive and recycle bin are used.
type Site struct {
	ID     string
	WebURL string
}

// StatusError is a non-success response from a Graph write endpoint,
// surfaced verbatim (status plus body) to the caller.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graph: %s %s: %s", e.Status, e.URL, e.Body)
}

// Client abstracts the Graph operations the restore flow needs. The three
// item-location probes (GetItemByPath, ListChildren, SearchItems) are
// read-only and idempotent; callers may re-issue them freely while the
// backend converges after an asynchronous restore.
type Client interface {
	// Selection context
	ListJoinedTeams(ctx context.Context) ([]*Team, error)
	ListChannels(ctx context.Context, teamID string) ([]*Channel, error)
	ResolveTeamSite(ctx context.Context, teamID string) (*Site, error)

	// Recycle bin
	ListRecycleBinItems(ctx context.Context, siteID string, pageSize int) ([]*recyclebin.Entry, error)
	RestoreRecycleBinItems(ctx context.Context, siteID string, ids []string) (*recyclebin.RestoreOutcome, error)

	// Location probes
	GetItemByPath(ctx context.Context, siteID, folderPath, name string) (*drive.Item, error)
	ListChildren(ctx context.Context, siteID, folderPath string) ([]*drive.Item, error)
	SearchItems(ctx context.Context, siteID, name string) ([]*drive.Item, error)

	// Content
	OpenContent(ctx context.Context, siteID, itemID string) (io.ReadCloser, error)
}

// Config holds client endpoints and timeouts. The beta endpoint is required
// because the site recycle-bin API is only exposed there.
type Config struct {
	BaseURL         string        // v1.0 endpoint
	BetaURL         string        // beta endpoint (recycle bin)
	Token           string        // opaque bearer token
	Timeout         time.Duration // metadata and listing calls
	DownloadTimeout time.Duration // content streaming calls
}

// ClientImpl talks to Graph over plain HTTP with the supplied bearer token.
type ClientImpl struct {
	cfg        Config
	httpMeta   *http.Client
	httpStream *http.Client
	logger     *logging.Logger
}

var _ Client = (*ClientImpl)(nil)

// NewClient creates a Graph client from configuration.
func NewClient(cfg Config) *ClientImpl {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = 120 * time.Second
	}
	return &ClientImpl{
		cfg:        cfg,
		httpMeta:   &http.Client{Timeout: cfg.Timeout},
		httpStream: &http.Client{Timeout: cfg.DownloadTimeout},
		logger:     logging.Default().WithComponent("graph_client"),
	}
}

// do issues a request with the bearer credential attached. The token is
// treated as an opaque header value and never logged.
func (c *ClientImpl) do(ctx context.Context, client *http.Client, method, rawURL string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return client.Do(req)
}

// getJSON performs a GET and decodes the body into out, converting any
// non-2xx status into a StatusError.
func (c *ClientImpl) getJSON(ctx context.Context, rawURL string, out any) error {
	c.logger.Graph("GET", "url", rawURL)
	resp, err := c.do(ctx, c.httpMeta, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp, rawURL)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", rawURL, err)
	}
	return nil
}

func newStatusError(resp *http.Response, rawURL string) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		URL:        rawURL,
		Body:       string(body),
	}
}

// getPaged follows @odata.nextLink continuation cursors until the collection
// is exhausted.
func getPaged[T any](ctx context.Context, c *ClientImpl, rawURL string) ([]T, error) {
	var all []T
	for rawURL != "" {
		var page listEnvelope[T]
		if err := c.getJSON(ctx, rawURL, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Value...)
		rawURL = page.NextLink
	}
	return all, nil
}

// ListJoinedTeams returns all teams the token's user is a member of.
func (c *ClientImpl) ListJoinedTeams(ctx context.Context) ([]*Team, error) {
	rows, err := getPaged[teamAPI](ctx, c, c.cfg.BaseURL+"/me/joinedTeams")
	if err != nil {
		return nil, fmt.Errorf("list joined teams: %w", err)
	}
	teams := make([]*Team, 0, len(rows))
	for _, r := range rows {
		teams = append(teams, &Team{ID: r.ID, DisplayName: r.DisplayName, Description: r.Description})
	}
	return teams, nil
}

// ListChannels returns the channels of a team.
func (c *ClientImpl) ListChannels(ctx context.Context, teamID string) ([]*Channel, error) {
	u := fmt.Sprintf("%s/teams/%s/channels?$select=id,displayName,membershipType", c.cfg.BaseURL, url.PathEscape(teamID))
	rows, err := getPaged[channelAPI](ctx, c, u)
	if err != nil {
		return nil, fmt.Errorf("list channels for team %s: %w", teamID, err)
	}
	channels := make([]*Channel, 0, len(rows))
	for _, r := range rows {
		channels = append(channels, &Channel{ID: r.ID, DisplayName: r.DisplayName, MembershipType: r.MembershipType})
	}
	return channels, nil
}

// ResolveTeamSite resolves a team's group to its root SharePoint site.
func (c *ClientImpl) ResolveTeamSite(ctx context.Context, teamID string) (*Site, error) {
	u := fmt.Sprintf("%s/groups/%s/sites/root", c.cfg.BaseURL, url.PathEscape(teamID))
	var site siteAPI
	if err := c.getJSON(ctx, u, &site); err != nil {
		return nil, fmt.Errorf("resolve site for team %s: %w", teamID, err)
	}
	if site.ID == "" {
		return nil, fmt.Errorf("resolve site for team %s: response missing site id", teamID)
	}
	return &Site{ID: site.ID, WebURL: site.WebURL}, nil
}

// ListRecycleBinItems pages through the site recycle bin (beta endpoint).
func (c *ClientImpl) ListRecycleBinItems(ctx context.Context, siteID string, pageSize int) ([]*recyclebin.Entry, error) {
	if pageSize <= 0 {
		pageSize = 200
	}
	u := fmt.Sprintf("%s/sites/%s/recycleBin/items?$top=%d", c.cfg.BetaURL, url.PathEscape(siteID), pageSize)
	rows, err := getPaged[recycleBinItemAPI](ctx, c, u)
	if err != nil {
		return nil, fmt.Errorf("list recycle bin for site %s: %w", siteID, err)
	}
	entries := make([]*recyclebin.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, mapRecycleBinEntry(r))
	}
	return entries, nil
}

// restoreAccepted lists the statuses the batch restore endpoint may return on
// success. 207 is the documented partial-success status for multi-item
// batches and is not an error.
var restoreAccepted = map[int]bool{
	http.StatusOK:          true,
	http.StatusCreated:     true,
	http.StatusAccepted:    true,
	http.StatusNoContent:   true,
	http.StatusMultiStatus: true,
}

// RestoreRecycleBinItems submits one bulk restore for the given entry ids.
// The returned outcome's acknowledged set is advisory: the restore runs
// asynchronously and the endpoint may omit ids it will still restore.
func (c *ClientImpl) RestoreRecycleBinItems(ctx context.Context, siteID string, ids []string) (*recyclebin.RestoreOutcome, error) {
	u := fmt.Sprintf("%s/sites/%s/recycleBin/items/restore", c.cfg.BetaURL, url.PathEscape(siteID))

	body, err := json.Marshal(restoreRequestAPI{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("encode restore request: %w", err)
	}

	c.logger.Graph("POST", "url", u, "ids", len(ids))
	resp, err := c.do(ctx, c.httpMeta, http.MethodPost, u, body)
	if err != nil {
		return nil, fmt.Errorf("submit restore: %w", err)
	}
	defer resp.Body.Close()

	if !restoreAccepted[resp.StatusCode] {
		return nil, newStatusError(resp, u)
	}

	outcome := &recyclebin.RestoreOutcome{RequestedIDs: ids}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return outcome, nil
	}
	var ack restoreResponseAPI
	if err := json.Unmarshal(raw, &ack); err != nil {
		// An unparsable acknowledgement is advisory noise, not a failure.
		c.logger.Warn("Unparsable restore acknowledgement body", "site_id", siteID, "error", err.Error())
		return outcome, nil
	}
	for _, v := range ack.Value {
		if v.ID != "" {
			outcome.AcknowledgedIDs = append(outcome.AcknowledgedIDs, v.ID)
		}
	}
	return outcome, nil
}

// GetItemByPath resolves an item at its exact expected drive path. A missing
// folder path or name cannot form a path and yields no item.
func (c *ClientImpl) GetItemByPath(ctx context.Context, siteID, folderPath, name string) (*drive.Item, error) {
	if folderPath == "" || name == "" {
		return nil, nil
	}
	u := fmt.Sprintf("%s/sites/%s/drive/root:/%s", c.cfg.BaseURL, url.PathEscape(siteID), escapeDrivePath(folderPath, name))
	var item driveItemAPI
	if err := c.getJSON(ctx, u, &item); err != nil {
		return nil, fmt.Errorf("get item by path %q: %w", folderPath+"/"+name, err)
	}
	return mapDriveItem(item), nil
}

// ListChildren lists the immediate children of a drive folder.
func (c *ClientImpl) ListChildren(ctx context.Context, siteID, folderPath string) ([]*drive.Item, error) {
	if folderPath == "" {
		return nil, nil
	}
	u := fmt.Sprintf("%s/sites/%s/drive/root:/%s:/children", c.cfg.BaseURL, url.PathEscape(siteID), escapeDrivePath(folderPath))
	rows, err := getPaged[driveItemAPI](ctx, c, u)
	if err != nil {
		return nil, fmt.Errorf("list children of %q: %w", folderPath, err)
	}
	return mapDriveItems(rows), nil
}

// SearchItems searches the whole site drive by name. Broad and potentially
// noisy; callers rank the results by folder proximity.
func (c *ClientImpl) SearchItems(ctx context.Context, siteID, name string) ([]*drive.Item, error) {
	if name == "" {
		return nil, nil
	}
	u := fmt.Sprintf("%s/sites/%s/drive/root/search(q='%s')", c.cfg.BaseURL, url.PathEscape(siteID), url.PathEscape(name))
	rows, err := getPaged[driveItemAPI](ctx, c, u)
	if err != nil {
		return nil, fmt.Errorf("search drive for %q: %w", name, err)
	}
	return mapDriveItems(rows), nil
}

// OpenContent opens the content stream of a drive item. The caller owns the
// returned reader and must close it.
func (c *ClientImpl) OpenContent(ctx context.Context, siteID, itemID string) (io.ReadCloser, error) {
	u := fmt.Sprintf("%s/sites/%s/drive/items/%s/content", c.cfg.BaseURL, url.PathEscape(siteID), url.PathEscape(itemID))
	c.logger.Graph("GET (content)", "url", u)
	resp, err := c.do(ctx, c.httpStream, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("open content for item %s: %w", itemID, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, newStatusError(resp, u)
	}
	return resp.Body, nil
}
