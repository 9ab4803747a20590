package stopreports

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// stampLayout is the timestamp format the API expects in its URL path.
const stampLayout = "2006-01-02T15:04:05Z"

// Client is an HTTP client for the StopReports API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	chunk      time.Duration
}

// NewClient creates a StopReports client. The chunk duration bounds how
// much of the range a single request asks for; zero falls back to 24h.
func NewClient(baseURL, subscriptionKey string, timeout, chunk time.Duration) *Client {
	if chunk <= 0 {
		chunk = 24 * time.Hour
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		key:        subscriptionKey,
		chunk:      chunk,
	}
}

// FetchRange retrieves every stop report between start and end. The API
// limits how wide a single report window may be, so the range is walked
// in chunks and the pages concatenated. Chunks with no reports are
// fine; any HTTP or decode failure aborts the whole fetch.
func (c *Client) FetchRange(ctx context.Context, start, end time.Time) ([]StopReport, error) {
	var all []StopReport
	for cur := start; cur.Before(end); {
		next := cur.Add(c.chunk)
		if next.After(end) {
			next = end
		}
		page, err := c.fetchChunk(ctx, cur, next)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		cur = next
	}
	return all, nil
}

func (c *Client) fetchChunk(ctx context.Context, start, end time.Time) ([]StopReport, error) {
	u := fmt.Sprintf("%s%s/%s?subscription-key=%s",
		c.baseURL,
		start.UTC().Format(stampLayout),
		end.UTC().Format(stampLayout),
		url.QueryEscape(c.key))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stop reports %s/%s: %w",
			start.UTC().Format(stampLayout), end.UTC().Format(stampLayout), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from stop reports API", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodeReports(body)
}

// ReadFile loads stop reports from a local JSON dump. Both the API
// envelope and a bare row array are accepted.
func ReadFile(path string) ([]StopReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeReports(data)
}

func decodeReports(data []byte) ([]StopReport, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Result.StopReports != nil {
		return env.Result.StopReports, nil
	}
	var rows []StopReport
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode stop reports: %w", err)
	}
	return rows, nil
}
