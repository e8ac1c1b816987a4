// Package web fetches pages and feeds from the public website.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	BaseURL = "https://www.ncaa.com"
)

// Client fetches site documents for the scrapers and the news feed.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
}

// New creates a client against the production site.
func New() *Client {
	return NewWithBaseURL(BaseURL)
}

// NewWithBaseURL creates a client against a specific host.
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter:   rate.NewLimiter(rate.Every(200*time.Millisecond), 2),
		baseURL:   baseURL,
		userAgent: "Mozilla/5.0 (compatible; FortunaBot/1.0)",
	}
}

// FetchPage fetches path (leading slash included, e.g.
// "/rankings/football/fbs/associated-press") and parses it as HTML.
func (c *Client) FetchPage(ctx context.Context, path string) (*html.Node, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing page %s: %w", path, err)
	}
	return doc, nil
}

// FetchBytes fetches path without parsing, for RSS feeds.
func (c *Client) FetchBytes(ctx context.Context, path string) ([]byte, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("site error: status=%d, path=%s", resp.StatusCode, path)
	}
	return resp.Body, nil
}
