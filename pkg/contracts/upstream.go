// Package contracts defines the upstream collaborator interfaces the
// request-resolution core consumes. Implementations live under
// internal/upstream; tests substitute fakes.
package contracts

import (
	"context"
	"encoding/json"

	"golang.org/x/net/html"
)

// GraphQLClient executes persisted queries against the new upstream API.
// Implementations must distinguish "empty but valid" (empty payload, nil
// error) from transport failure.
type GraphQLClient interface {
	PersistedQuery(ctx context.Context, operation, hash string, variables map[string]interface{}) (json.RawMessage, error)
}

// StaticJSONClient fetches documents from the legacy static-JSON host.
type StaticJSONClient interface {
	FetchJSON(ctx context.Context, path string) (json.RawMessage, error)
}

// SiteFetcher retrieves documents from the public website: parsed HTML
// pages for scraping and raw bytes for feeds.
type SiteFetcher interface {
	FetchPage(ctx context.Context, path string) (*html.Node, error)
	FetchBytes(ctx context.Context, path string) ([]byte, error)
}
