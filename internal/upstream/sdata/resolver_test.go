package sdata_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/sources"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/upstream/sdata"
)

func TestResolveHashProbesInOrder(t *testing.T) {
	// Football scoreboard carries three candidates; the first comes back
	// empty and the second is usable, so the third must never be fetched.
	candidates := sources.HashCandidates("football", sources.QueryScoreboard)
	if len(candidates) < 3 {
		t.Fatalf("test needs 3+ candidates, have %d", len(candidates))
	}

	usable := json.RawMessage(`{"scoreboard":{"__typename":"Scoreboard","contests":[]}}`)
	var attempted []string
	fetch := func(ctx context.Context, hash string) (json.RawMessage, error) {
		attempted = append(attempted, hash)
		switch hash {
		case candidates[0]:
			return nil, nil
		case candidates[1]:
			return usable, nil
		default:
			t.Fatalf("probed %s after a usable candidate", hash)
			return nil, nil
		}
	}

	hash, payload, err := sdata.ResolveHash(context.Background(), "football", sources.QueryScoreboard, fetch)
	if err != nil {
		t.Fatalf("ResolveHash: %v", err)
	}
	if hash != candidates[1] {
		t.Errorf("hash = %s, want candidates[1]", hash)
	}
	if string(payload) != string(usable) {
		t.Errorf("payload = %s", payload)
	}
	if len(attempted) != 2 {
		t.Errorf("attempted %d candidates, want 2", len(attempted))
	}
}

func TestResolveHashExhaustion(t *testing.T) {
	candidates := sources.HashCandidates("basketball-men", sources.QueryScoreboard)

	fetch := func(ctx context.Context, hash string) (json.RawMessage, error) {
		return nil, nil
	}

	_, _, err := sdata.ResolveHash(context.Background(), "basketball-men", sources.QueryScoreboard, fetch)
	var exhausted *sdata.HashDiscoveryExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error = %v, want HashDiscoveryExhaustedError", err)
	}
	if exhausted.Sport != "basketball-men" || exhausted.Kind != sources.QueryScoreboard {
		t.Errorf("error identifies %s/%s", exhausted.Sport, exhausted.Kind)
	}
	if len(exhausted.Attempted) != len(candidates) {
		t.Errorf("Attempted lists %d hashes, want %d", len(exhausted.Attempted), len(candidates))
	}
}

func TestResolveHashStopsOnTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	probes := 0
	fetch := func(ctx context.Context, hash string) (json.RawMessage, error) {
		probes++
		return nil, boom
	}

	_, _, err := sdata.ResolveHash(context.Background(), "football", sources.QueryScoreboard, fetch)
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped transport failure", err)
	}
	if probes != 1 {
		t.Errorf("probes = %d, want 1; transport errors must not burn candidates", probes)
	}
}

func TestResolveHashRejectsMistypedPayload(t *testing.T) {
	candidates := sources.HashCandidates("football", sources.QueryScoreboard)
	mistyped := json.RawMessage(`{"boxscore":{"__typename":"Boxscore"}}`)
	usable := json.RawMessage(`{"scoreboard":{"__typename":"Scoreboard"}}`)

	fetch := func(ctx context.Context, hash string) (json.RawMessage, error) {
		if hash == candidates[0] {
			return mistyped, nil
		}
		return usable, nil
	}

	hash, _, err := sdata.ResolveHash(context.Background(), "football", sources.QueryScoreboard, fetch)
	if err != nil {
		t.Fatalf("ResolveHash: %v", err)
	}
	if hash != candidates[1] {
		t.Errorf("hash = %s, want candidates[1]; a mistyped payload is not usable", hash)
	}
}

func TestUsable(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		kind    sources.QueryKind
		want    bool
	}{
		{"typed root", `{"__typename":"Scoreboard","contests":[]}`, sources.QueryScoreboard, true},
		{"typed nested object", `{"scoreboard":{"__typename":"Scoreboard"}}`, sources.QueryScoreboard, true},
		{"typed list element", `{"games":[{"__typename":"Championship"}]}`, sources.QueryBracket, true},
		{"wrong typename", `{"__typename":"Boxscore"}`, sources.QueryScoreboard, false},
		{"empty object", `{}`, sources.QueryScoreboard, false},
		{"null", `null`, sources.QueryScoreboard, false},
		{"empty bytes", ``, sources.QueryScoreboard, false},
		{"untagged", `{"contests":[]}`, sources.QueryScoreboard, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sdata.Usable(json.RawMessage(tt.payload), tt.kind); got != tt.want {
				t.Errorf("Usable(%s) = %v, want %v", tt.payload, got, tt.want)
			}
		})
	}
}
