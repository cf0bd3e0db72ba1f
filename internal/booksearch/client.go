// Package booksearch queries the Google Books volumes API.
package booksearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/efreitasn/bookswap/internal/domain"
)

// Volume is one item of a volumes response, passed through untouched.
type Volume = json.RawMessage

type volumesResponse struct {
	Items []Volume `json:"items"`
}

// Client calls the volumes endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a Client for baseURL with a per-request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Search returns the volumes matching query. An upstream response without
// items yields an empty slice. Transport and status failures are reported
// as domain.ErrSearchUnavailable.
func (c *Client) Search(ctx context.Context, query string) ([]Volume, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse books api url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build books request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: upstream status %d", domain.ErrSearchUnavailable, resp.StatusCode)
	}

	var body volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrSearchUnavailable, err)
	}
	if body.Items == nil {
		return []Volume{}, nil
	}
	return body.Items, nil
}
