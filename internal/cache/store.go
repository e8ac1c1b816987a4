// Package cache implements the request-resolution layer: a two-tier TTL
// store behind a single-flight resolver. Route handlers go through the
// Resolver for every upstream fetch and never touch the store directly.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Class selects one of the two freshness tiers.
type Class string

const (
	// Fast covers live data: scoreboards and game detail.
	Fast Class = "fast"
	// Slow covers stats, rankings, standings, schedules, brackets and news.
	Slow Class = "slow"
)

const (
	fastTTL = 45 * time.Second
	slowTTL = 30 * time.Minute
)

// TTL returns the expiry duration for the class.
func (c Class) TTL() time.Duration {
	if c == Slow {
		return slowTTL
	}
	return fastTTL
}

// Entry is one cached value. Entries are replaced wholesale on refresh,
// never mutated in place.
type Entry struct {
	Value    json.RawMessage `json:"value"`
	StoredAt time.Time       `json:"storedAt"`
	Class    Class           `json:"class"`
}

// Expired reports whether the entry is past its TTL at the given instant.
func (e Entry) Expired(now time.Time) bool {
	return now.Sub(e.StoredAt) > e.Class.TTL()
}

// Store is a key-value backend for cache entries. Get treats expired
// entries as misses.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry) error
	Delete(ctx context.Context, key string) error
}
