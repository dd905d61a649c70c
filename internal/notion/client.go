// Package notion implements the remote task store capability against the
// Notion API.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/genflow/prbridge/internal/config"
	"github.com/genflow/prbridge/internal/fault"
	"github.com/genflow/prbridge/internal/metrics"
	"github.com/genflow/prbridge/internal/status"
	"github.com/genflow/prbridge/internal/taskid"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.notion.com/v1"

	// notionVersion pins the data-source API surface this client speaks.
	notionVersion = "2025-09-03"

	// LinksProperty is the files property holding PR links on a task page.
	LinksProperty = "PR links"
)

// LookupResult identifies the page backing a task identifier.
type LookupResult struct {
	PageID string
}

// StatusResult reports a status write (or its dry-run equivalent).
type StatusResult struct {
	PageID    string
	NewStatus status.Status
}

// LinksResult reports the link list as written (or as it would be written).
type LinksResult struct {
	PageID string
	Links  []string
}

// TaskStore is the capability surface the webhook pipeline depends on.
type TaskStore interface {
	Lookup(ctx context.Context, identifier string) (LookupResult, error)
	SetStatus(ctx context.Context, pageID string, s status.Status) (StatusResult, error)
	SetLinks(ctx context.Context, pageID string, urls []string) (LinksResult, error)
}

// Client implements TaskStore over the Notion REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	databaseID string
	taskIDProp string
	statusProp string
	dryRun     bool
	log        *zap.SugaredLogger

	mu           sync.Mutex
	dataSourceID string
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Notion task store client.
func New(cfg config.NotionConfig, log *zap.SugaredLogger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		token:      cfg.Token,
		databaseID: cfg.DatabaseID,
		taskIDProp: cfg.TaskIDProperty,
		statusProp: cfg.StatusProperty,
		dryRun:     cfg.DryRun,
		log:        log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// dataSource resolves the database's data source ID, once per client.
// Queries run against the data source, not the database, so this discovery
// step must precede the first lookup.
func (c *Client) dataSource(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dataSourceID != "" {
		return c.dataSourceID, nil
	}

	var db databaseResponse
	if err := c.do(ctx, http.MethodGet, "/databases/"+c.databaseID, nil, &db); err != nil {
		return "", err
	}
	if len(db.DataSources) == 0 {
		return "", fault.Newf(fault.KindRemote, "database %s has no data sources", c.databaseID)
	}

	c.dataSourceID = db.DataSources[0].ID
	c.log.Debugw("resolved notion data source",
		"database_id", c.databaseID, "data_source_id", c.dataSourceID)
	return c.dataSourceID, nil
}

// Lookup resolves a task identifier to its page ID by filtering the data
// source on the numeric part of the identifier.
func (c *Client) Lookup(ctx context.Context, identifier string) (LookupResult, error) {
	number, err := taskid.Number(identifier)
	if err != nil {
		return LookupResult{}, fault.Wrap(fault.KindInternal, "parsing task identifier", err)
	}

	dataSourceID, err := c.dataSource(ctx)
	if err != nil {
		return LookupResult{}, err
	}

	var resp queryResponse
	req := queryRequest{
		Filter: queryFilter{
			Property: c.taskIDProp,
			UniqueID: uniqueIDFilter{Equals: number},
		},
	}
	if err := c.do(ctx, http.MethodPost, "/data_sources/"+dataSourceID+"/query", req, &resp); err != nil {
		return LookupResult{}, err
	}

	if len(resp.Results) == 0 {
		return LookupResult{}, fault.Newf(fault.KindRemote, "no task found for identifier %s", identifier).
			With("identifier", identifier)
	}

	c.log.Debugw("resolved task identifier",
		"identifier", identifier, "page_id", resp.Results[0].ID)
	return LookupResult{PageID: resp.Results[0].ID}, nil
}

// SetStatus writes the status property. In dry-run mode no request is issued
// and the would-be result is returned unchanged.
func (c *Client) SetStatus(ctx context.Context, pageID string, s status.Status) (StatusResult, error) {
	if c.dryRun {
		metrics.DryRunSkip()
		c.log.Infow("[dry-run] skipping status update", "page_id", pageID, "status", s)
		return StatusResult{PageID: pageID, NewStatus: s}, nil
	}

	req := pageUpdateRequest{
		Properties: map[string]any{
			c.statusProp: map[string]any{
				"status": map[string]any{"name": string(s)},
			},
		},
	}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, req, nil); err != nil {
		return StatusResult{}, err
	}

	return StatusResult{PageID: pageID, NewStatus: s}, nil
}

// SetLinks merges urls into the page's PR links property: existing links
// keep their order, genuinely new URLs are appended, and the whole property
// is replaced in one write. The API has no partial append, so links added by
// another writer between the fetch and the write are lost; there is no
// revision token to guard against that.
func (c *Client) SetLinks(ctx context.Context, pageID string, urls []string) (LinksResult, error) {
	if c.dryRun {
		metrics.DryRunSkip()
		deduped := dedupe(urls)
		c.log.Infow("[dry-run] skipping link update", "page_id", pageID, "links", deduped)
		return LinksResult{PageID: pageID, Links: deduped}, nil
	}

	var page pageResponse
	if err := c.do(ctx, http.MethodGet, "/pages/"+pageID, nil, &page); err != nil {
		return LinksResult{}, err
	}

	existing := page.Properties[LinksProperty].Files
	existingURLs := make([]string, 0, len(existing))
	seen := make(map[string]struct{}, len(existing))
	for _, f := range existing {
		if url := f.url(); url != "" {
			existingURLs = append(existingURLs, url)
			seen[url] = struct{}{}
		}
	}

	var toAdd []string
	for _, url := range urls {
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		toAdd = append(toAdd, url)
	}

	if len(toAdd) == 0 {
		return LinksResult{PageID: pageID, Links: existingURLs}, nil
	}

	files := append([]fileAttachment(nil), existing...)
	for _, url := range toAdd {
		files = append(files, fileAttachment{
			Type:     "external",
			Name:     url,
			External: &externalFile{URL: url},
		})
	}

	req := pageUpdateRequest{
		Properties: map[string]any{
			LinksProperty: map[string]any{"files": files},
		},
	}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, req, nil); err != nil {
		return LinksResult{}, err
	}

	c.log.Debugw("updated pr links", "page_id", pageID, "added", toAdd)
	return LinksResult{PageID: pageID, Links: append(existingURLs, toAdd...)}, nil
}

// do issues one API request and decodes the response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	metrics.NotionRequest()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fault.Wrap(fault.KindInternal, "encoding notion request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fault.Wrap(fault.KindInternal, "building notion request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fault.Wrap(fault.KindRemote, "calling notion API", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fault.Wrap(fault.KindRemote, "reading notion response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		reason := fmt.Sprintf("notion API returned status %d", resp.StatusCode)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			reason = apiErr.Message
		}
		return fault.New(fault.KindRemote, reason).With("status", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fault.Wrap(fault.KindRemote, "decoding notion response", err)
		}
	}

	return nil
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, url := range urls {
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		out = append(out, url)
	}
	return out
}
