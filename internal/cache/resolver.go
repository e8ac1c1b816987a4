package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/metrics"
)

// FetchFunc performs one upstream fetch. Implementations must distinguish
// "empty but valid" (payload, nil error) from transport failure.
type FetchFunc func(ctx context.Context) (json.RawMessage, error)

// Options describe how one logical resource is cached.
type Options struct {
	Class Class

	// EquivalentKeys are alternate keys naming the same logical resource,
	// such as the request's URL path alongside the computed canonical key.
	// A successful fetch populates every key with one shared StoredAt.
	EquivalentKeys []string
}

// UpstreamFetchError wraps a failed upstream fetch. Failures are never
// cached, so the next request for the key retries naturally.
type UpstreamFetchError struct {
	Key string
	Err error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("upstream fetch for %s: %v", e.Key, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// Resolver is the single entry point for cached upstream data. It holds the
// process-wide store and the in-flight fetch registry; nothing else writes
// to either.
type Resolver struct {
	store  Store
	flight singleflight.Group
}

// NewResolver creates a resolver on the given store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the cached value for key, or runs fetch exactly once no
// matter how many callers arrive concurrently. On success the value is
// stored under key and every equivalent key before any waiter sees it; on
// failure nothing is cached and every waiter receives the same error.
func (r *Resolver) Resolve(ctx context.Context, key string, opts Options, fetch FetchFunc) (json.RawMessage, error) {
	if entry, ok, err := r.store.Get(ctx, key); err != nil {
		log.Printf("[cache] read %s: %v", key, err)
	} else if ok {
		metrics.CacheHits.WithLabelValues(string(entry.Class)).Inc()
		return entry.Value, nil
	}
	metrics.CacheMisses.WithLabelValues(string(opts.Class)).Inc()

	value, err, shared := r.flight.Do(key, func() (interface{}, error) {
		// The fetch outlives any single caller: a disconnected client must
		// not cancel work other waiters share.
		fctx := context.WithoutCancel(ctx)

		// A racing caller may have stored the value between our miss and
		// winning the flight.
		if entry, ok, err := r.store.Get(fctx, key); err == nil && ok {
			return entry.Value, nil
		}

		payload, err := fetch(fctx)
		if err != nil {
			return nil, &UpstreamFetchError{Key: key, Err: err}
		}
		r.storeAll(fctx, key, opts, payload)
		return payload, nil
	})
	if shared {
		metrics.SingleflightShared.Inc()
	}
	if err != nil {
		return nil, err
	}
	return value.(json.RawMessage), nil
}

// Invalidate removes a key ahead of its TTL.
func (r *Resolver) Invalidate(ctx context.Context, key string) error {
	return r.store.Delete(ctx, key)
}

func (r *Resolver) storeAll(ctx context.Context, key string, opts Options, payload json.RawMessage) {
	entry := Entry{
		Value:    payload,
		StoredAt: time.Now(),
		Class:    opts.Class,
	}
	if err := r.store.Set(ctx, key, entry); err != nil {
		log.Printf("[cache] write %s: %v", key, err)
	}
	for _, k := range opts.EquivalentKeys {
		if k == key {
			continue
		}
		if err := r.store.Set(ctx, k, entry); err != nil {
			log.Printf("[cache] write %s: %v", k, err)
		}
	}
}
