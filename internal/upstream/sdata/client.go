// Package sdata talks to the upstream GraphQL persisted-query API and owns
// hash discovery for it.
package sdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	BaseURL = "https://sdataprod.ncaa.com/"
)

// Client executes persisted queries. Queries are GETs carrying the operation
// name, JSON variables and the persistedQuery extension with a sha256 hash.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
}

// New creates a client against the production endpoint.
func New() *Client {
	return NewWithBaseURL(BaseURL)
}

// NewWithBaseURL creates a client against a specific endpoint.
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		// The upstream throttles bursts; 5 req/sec keeps probes polite.
		limiter:   rate.NewLimiter(rate.Every(200*time.Millisecond), 2),
		baseURL:   baseURL,
		userAgent: "Mozilla/5.0 (compatible; FortunaBot/1.0)",
	}
}

// PersistedQuery executes one persisted query by hash. A response whose data
// is empty, or whose only failure is PersistedQueryNotFound, comes back as an
// empty payload with a nil error so hash discovery can move to the next
// candidate; transport and upstream failures are errors.
func (c *Client) PersistedQuery(ctx context.Context, operation, hash string, variables map[string]interface{}) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	vars, err := json.Marshal(variables)
	if err != nil {
		return nil, fmt.Errorf("marshaling variables: %w", err)
	}
	ext, err := json.Marshal(map[string]interface{}{
		"persistedQuery": map[string]interface{}{
			"version":    1,
			"sha256Hash": hash,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling extensions: %w", err)
	}

	q := url.Values{}
	q.Set("operationName", operation)
	q.Set("variables", string(vars))
	q.Set("extensions", string(ext))

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+q.Encode(), nil)
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

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("graphql API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	for _, e := range envelope.Errors {
		if e.Message == "PersistedQueryNotFound" {
			return nil, nil
		}
	}
	if len(envelope.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", envelope.Errors[0].Message)
	}
	if emptyPayload(envelope.Data) {
		return nil, nil
	}
	return envelope.Data, nil
}

func emptyPayload(data json.RawMessage) bool {
	switch string(bytes.TrimSpace(data)) {
	case "", "null", "{}", "[]":
		return true
	}
	return false
}
