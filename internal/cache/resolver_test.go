package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/cache"
)

func TestResolveSingleFlight(t *testing.T) {
	store := cache.NewMemoryStore()
	r := cache.NewResolver(store)

	var fetches atomic.Int32
	fetch := func(ctx context.Context) (json.RawMessage, error) {
		fetches.Add(1)
		time.Sleep(50 * time.Millisecond)
		return json.RawMessage(`{"games":[{"game":{"gameID":"1"}}]}`), nil
	}

	const callers = 8
	results := make([]json.RawMessage, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.Resolve(context.Background(),
				"scoreboard/football/fbs/2025/07", cache.Options{Class: cache.Fast}, fetch)
		}(i)
	}
	wg.Wait()

	if n := fetches.Load(); n != 1 {
		t.Fatalf("upstream fetches = %d, want 1", n)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if string(results[i]) != string(results[0]) {
			t.Errorf("caller %d saw a different result", i)
		}
	}
}

func TestResolveCacheHitSkipsFetch(t *testing.T) {
	store := cache.NewMemoryStore()
	r := cache.NewResolver(store)
	ctx := context.Background()

	payload := json.RawMessage(`{"updated":"now"}`)
	if _, err := r.Resolve(ctx, "k", cache.Options{Class: cache.Slow}, func(context.Context) (json.RawMessage, error) {
		return payload, nil
	}); err != nil {
		t.Fatalf("prime: %v", err)
	}

	got, err := r.Resolve(ctx, "k", cache.Options{Class: cache.Slow}, func(context.Context) (json.RawMessage, error) {
		t.Error("fetch ran despite a live cache entry")
		return nil, errors.New("unreachable")
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("got %s, want %s", got, payload)
	}
}

func TestResolveEquivalentKeys(t *testing.T) {
	store := cache.NewMemoryStore()
	r := cache.NewResolver(store)
	ctx := context.Background()

	payload := json.RawMessage(`{"games":[]}`)
	opts := cache.Options{
		Class:          cache.Fast,
		EquivalentKeys: []string{"scoreboard/football/fbs/2025/17"},
	}
	if _, err := r.Resolve(ctx, "scoreboard/football/fbs/2025/playoffs", opts, func(context.Context) (json.RawMessage, error) {
		return payload, nil
	}); err != nil {
		t.Fatalf("prime: %v", err)
	}

	for _, key := range []string{"scoreboard/football/fbs/2025/playoffs", "scoreboard/football/fbs/2025/17"} {
		got, err := r.Resolve(ctx, key, cache.Options{Class: cache.Fast}, func(context.Context) (json.RawMessage, error) {
			return nil, errors.New("fetch ran for an equivalent key")
		})
		if err != nil {
			t.Fatalf("Resolve(%s): %v", key, err)
		}
		if string(got) != string(payload) {
			t.Errorf("Resolve(%s) = %s, want %s", key, got, payload)
		}
	}

	entryA, okA, _ := store.Get(ctx, "scoreboard/football/fbs/2025/playoffs")
	entryB, okB, _ := store.Get(ctx, "scoreboard/football/fbs/2025/17")
	if !okA || !okB {
		t.Fatal("expected both keys stored")
	}
	if !entryA.StoredAt.Equal(entryB.StoredAt) {
		t.Error("equivalent keys do not share one TTL clock")
	}
}

func TestResolveFailureNotCached(t *testing.T) {
	store := cache.NewMemoryStore()
	r := cache.NewResolver(store)
	ctx := context.Background()

	boom := errors.New("upstream down")
	var fetches atomic.Int32

	_, err := r.Resolve(ctx, "k", cache.Options{Class: cache.Fast}, func(context.Context) (json.RawMessage, error) {
		fetches.Add(1)
		return nil, boom
	})
	var fetchErr *cache.UpstreamFetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want UpstreamFetchError", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error does not wrap the fetch failure: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("failed fetch populated the cache")
	}

	got, err := r.Resolve(ctx, "k", cache.Options{Class: cache.Fast}, func(context.Context) (json.RawMessage, error) {
		fetches.Add(1)
		return json.RawMessage(`{"ok":true}`), nil
	})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if string(got) != `{"ok":true}` {
		t.Errorf("retry = %s", got)
	}
	if n := fetches.Load(); n != 2 {
		t.Errorf("fetches = %d, want 2 (one failure, one retry)", n)
	}
}

func TestResolveSharesFailureWithWaiters(t *testing.T) {
	store := cache.NewMemoryStore()
	r := cache.NewResolver(store)

	ready := make(chan struct{})
	release := make(chan struct{})
	var fetches atomic.Int32

	fetch := func(ctx context.Context) (json.RawMessage, error) {
		if fetches.Add(1) == 1 {
			close(ready)
		}
		<-release
		return nil, errors.New("upstream down")
	}

	var wg sync.WaitGroup
	errs := make([]error, 4)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = r.Resolve(context.Background(), "k", cache.Options{Class: cache.Fast}, fetch)
	}()
	<-ready

	for i := 1; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.Resolve(context.Background(), "k", cache.Options{Class: cache.Fast}, fetch)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := fetches.Load(); n != 1 {
		t.Fatalf("fetches = %d, want 1", n)
	}
	for i, err := range errs {
		if err == nil || err.Error() != errs[0].Error() {
			t.Errorf("caller %d outcome differs: %v vs %v", i, err, errs[0])
		}
	}
}

func TestResolveDetachesFetchFromCaller(t *testing.T) {
	store := cache.NewMemoryStore()
	r := cache.NewResolver(store)

	ctx, cancel := context.WithCancel(context.Background())
	payload := json.RawMessage(`{"ok":true}`)

	got, err := r.Resolve(ctx, "k", cache.Options{Class: cache.Fast}, func(fctx context.Context) (json.RawMessage, error) {
		cancel()
		select {
		case <-fctx.Done():
			return nil, fctx.Err()
		default:
		}
		return payload, nil
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("got %s", got)
	}

	if _, ok, _ := store.Get(context.Background(), "k"); !ok {
		t.Error("fetch result not cached after caller disconnect")
	}
}

func TestInvalidate(t *testing.T) {
	store := cache.NewMemoryStore()
	r := cache.NewResolver(store)
	ctx := context.Background()

	var fetches atomic.Int32
	fetch := func(context.Context) (json.RawMessage, error) {
		fetches.Add(1)
		return json.RawMessage(`{}`), nil
	}

	if _, err := r.Resolve(ctx, "k", cache.Options{Class: cache.Slow}, fetch); err != nil {
		t.Fatalf("prime: %v", err)
	}
	if err := r.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := r.Resolve(ctx, "k", cache.Options{Class: cache.Slow}, fetch); err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if n := fetches.Load(); n != 2 {
		t.Errorf("fetches = %d, want 2", n)
	}
}
