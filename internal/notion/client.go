// Package notion is a minimal client for the Notion REST API, covering the
// calls the highlights sync needs: querying the database, creating rows,
// and reading and appending page content.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com"
	defaultVersion = "2022-06-28"

	defaultTimeout     = 30 * time.Second
	maxRetries         = 3
	initialRetryDelay  = 1 * time.Second
	maxRetryDelay      = 30 * time.Second
	retryBackoffFactor = 2

	// The API rejects children arrays longer than this
	maxBlocksPerAppend = 100
	queryPageSize      = 100
)

// Config carries the credentials and database target for a client. It is
// passed in explicitly; the package holds no process-wide state.
type Config struct {
	Token      string
	DatabaseID string
	Version    string // Notion-Version header, defaults when empty
	BaseURL    string // overridable for tests
}

// Client interfaces with the Notion REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	version    string
	databaseID string
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	version := cfg.Version
	if version == "" {
		version = defaultVersion
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:    baseURL,
		token:      cfg.Token,
		version:    version,
		databaseID: cfg.DatabaseID,
	}
}

// Page is one row of the Notion highlights database.
type Page struct {
	ID             string
	Title          string
	Author         string
	HighlightCount int
}

// CreatePageParams describes a new database row for a book.
type CreatePageParams struct {
	Title          string
	Author         string
	Date           time.Time
	HighlightCount int
}

// QueryPages lists every row of the highlights database, following
// pagination cursors until exhausted.
func (c *Client) QueryPages(ctx context.Context) ([]Page, error) {
	var pages []Page
	var cursor string

	for {
		resp, err := c.queryDatabase(ctx, cursor)
		if err != nil {
			return nil, err
		}

		for _, result := range resp.Results {
			pages = append(pages, result.toPage())
		}

		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			break
		}
		cursor = *resp.NextCursor
	}

	return pages, nil
}

// CreatePage inserts a database row for a book and returns the new page.
func (c *Client) CreatePage(ctx context.Context, params CreatePageParams) (*Page, error) {
	properties := map[string]any{
		"Title": map[string]any{
			"title": textRuns(params.Title),
		},
		"Author": map[string]any{
			"rich_text": textRuns(params.Author),
		},
		"Number of Highlights": map[string]any{
			"number": params.HighlightCount,
		},
	}
	if !params.Date.IsZero() {
		properties["Date"] = map[string]any{
			"date": map[string]any{"start": params.Date.Format("2006-01-02")},
		}
	}

	payload := map[string]any{
		"parent":     map[string]any{"database_id": c.databaseID},
		"properties": properties,
	}

	var result pageResult
	endpoint := fmt.Sprintf("%s/v1/pages", c.baseURL)
	if err := c.doJSON(ctx, http.MethodPost, endpoint, payload, &result); err != nil {
		return nil, fmt.Errorf("create page for %q: %w", params.Title, err)
	}

	page := result.toPage()
	return &page, nil
}

// GetPage fetches a single page row.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	var result pageResult
	endpoint := fmt.Sprintf("%s/v1/pages/%s", c.baseURL, pageID)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}

	page := result.toPage()
	return &page, nil
}

// ListBlockChildren returns every child block of a page or block,
// following pagination cursors until exhausted.
func (c *Client) ListBlockChildren(ctx context.Context, blockID string) ([]Block, error) {
	var blocks []Block
	var cursor string

	for {
		endpoint := fmt.Sprintf("%s/v1/blocks/%s/children?page_size=%d", c.baseURL, blockID, queryPageSize)
		if cursor != "" {
			endpoint += "&start_cursor=" + url.QueryEscape(cursor)
		}

		var resp childrenResponse
		if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
			return nil, err
		}

		blocks = append(blocks, resp.Results...)

		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			break
		}
		cursor = *resp.NextCursor
	}

	return blocks, nil
}

// AppendBlockChildren appends blocks to a page, batched to the API limit.
func (c *Client) AppendBlockChildren(ctx context.Context, blockID string, blocks []Block) error {
	endpoint := fmt.Sprintf("%s/v1/blocks/%s/children", c.baseURL, blockID)

	for start := 0; start < len(blocks); start += maxBlocksPerAppend {
		end := start + maxBlocksPerAppend
		if end > len(blocks) {
			end = len(blocks)
		}

		payload := map[string]any{"children": blocks[start:end]}
		if err := c.doJSON(ctx, http.MethodPatch, endpoint, payload, nil); err != nil {
			return err
		}
	}

	return nil
}

// IncrementHighlightCount adds delta to the page's Number of Highlights
// property and returns the new total.
func (c *Client) IncrementHighlightCount(ctx context.Context, pageID string, delta int) (int, error) {
	page, err := c.GetPage(ctx, pageID)
	if err != nil {
		return 0, err
	}

	total := page.HighlightCount + delta
	payload := map[string]any{
		"properties": map[string]any{
			"Number of Highlights": map[string]any{"number": total},
		},
	}

	endpoint := fmt.Sprintf("%s/v1/pages/%s", c.baseURL, pageID)
	if err := c.doJSON(ctx, http.MethodPatch, endpoint, payload, nil); err != nil {
		return 0, err
	}

	return total, nil
}

// Response and property shapes

type queryResponse struct {
	Results    []pageResult `json:"results"`
	NextCursor *string      `json:"next_cursor"`
	HasMore    bool         `json:"has_more"`
}

type childrenResponse struct {
	Results    []Block `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

type pageResult struct {
	ID         string         `json:"id"`
	Properties pageProperties `json:"properties"`
}

type pageProperties struct {
	Title          titleProperty    `json:"Title"`
	Author         richTextProperty `json:"Author"`
	HighlightCount numberProperty   `json:"Number of Highlights"`
}

type titleProperty struct {
	Title []RichText `json:"title"`
}

type richTextProperty struct {
	RichText []RichText `json:"rich_text"`
}

type numberProperty struct {
	Number *float64 `json:"number"`
}

func (r pageResult) toPage() Page {
	page := Page{
		ID:     r.ID,
		Title:  plainText(r.Properties.Title.Title),
		Author: plainText(r.Properties.Author.RichText),
	}
	if r.Properties.HighlightCount.Number != nil {
		page.HighlightCount = int(*r.Properties.HighlightCount.Number)
	}
	return page
}

func plainText(runs []RichText) string {
	var buf bytes.Buffer
	for _, rt := range runs {
		if rt.PlainText != "" {
			buf.WriteString(rt.PlainText)
			continue
		}
		if rt.Text != nil {
			buf.WriteString(rt.Text.Content)
		}
	}
	return buf.String()
}

func (c *Client) queryDatabase(ctx context.Context, cursor string) (*queryResponse, error) {
	payload := map[string]any{"page_size": queryPageSize}
	if cursor != "" {
		payload["start_cursor"] = cursor
	}

	var resp queryResponse
	endpoint := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, c.databaseID)
	if err := c.doJSON(ctx, http.MethodPost, endpoint, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doJSON performs a request with retry on rate limits and server errors.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, payload, out any) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := calculateRetryDelay(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		lastErr = c.doRequest(ctx, method, endpoint, payload, out)
		if lastErr == nil {
			return nil
		}

		if !isRetryableError(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= 500:
		return &ServerError{StatusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func calculateRetryDelay(attempt int) time.Duration {
	delay := initialRetryDelay
	for i := 0; i < attempt; i++ {
		delay *= time.Duration(retryBackoffFactor)
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

func isRetryableError(err error) bool {
	if err == ErrRateLimited {
		return true
	}
	if _, ok := err.(*ServerError); ok {
		return true
	}
	return false
}
