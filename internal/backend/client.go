// Package backend is the HTTP client for the memory-layer API the adapter
// fronts. Adapted tools and resources forward through it at request time;
// backend errors pass through unmodified so callers see what the backend
// said.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the memory-layer backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a backend client. timeout bounds each forwarded request.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do forwards one request to the backend and returns the response body and
// status code. Non-2xx responses are not an error here; the body is returned
// as-is for the caller to relay.
func (c *Client) Do(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build backend request: %w", err)
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read backend response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}

// Get fetches a backend path.
func (c *Client) Get(ctx context.Context, path string) ([]byte, int, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post sends a JSON body to a backend path.
func (c *Client) Post(ctx context.Context, path string, body []byte) ([]byte, int, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// HealthCheck verifies the backend is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	body, status, err := c.Get(ctx, "/")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("backend health: status %d: %s", status, string(body))
	}
	return nil
}
