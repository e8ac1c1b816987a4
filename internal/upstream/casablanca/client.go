// Package casablanca fetches documents from the legacy static-JSON host.
package casablanca

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	BaseURL = "https://data.ncaa.com/casablanca"
)

// ErrNotFound marks a document the host does not have. Dates with no games
// and game files that have not been published yet both come back 404.
var ErrNotFound = errors.New("document not found")

// Client fetches static JSON documents.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
}

// New creates a client against the production host.
func New() *Client {
	return NewWithBaseURL(BaseURL)
}

// NewWithBaseURL creates a client against a specific host.
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter:   rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
		baseURL:   baseURL,
		userAgent: "Mozilla/5.0 (compatible; FortunaBot/1.0)",
	}
}

// FetchJSON returns the document at path, e.g.
// "scoreboard/football/fbs/2023/05/scoreboard.json".
func (c *Client) FetchJSON(ctx context.Context, path string) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("legacy API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON at %s", path)
	}
	return data, nil
}

// GamePath returns the path of one game-center file, e.g.
// GamePath("6305900", "boxscore") -> "game/6305900/boxscore.json".
func GamePath(gameID, file string) string {
	return fmt.Sprintf("game/%s/%s.json", gameID, file)
}

// SchedulePath returns the path of a month's schedule document.
func SchedulePath(sport, division string, year, month int) string {
	return fmt.Sprintf("schedule/%s/%s/%d/%02d/schedule.json", sport, division, year, month)
}
