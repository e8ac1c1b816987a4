package scoreboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/cache"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/scoreboard"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/sources"
)

type fakeGraphQL func(ctx context.Context, operation, hash string, variables map[string]interface{}) (json.RawMessage, error)

func (f fakeGraphQL) PersistedQuery(ctx context.Context, operation, hash string, variables map[string]interface{}) (json.RawMessage, error) {
	return f(ctx, operation, hash, variables)
}

type fakeLegacy func(ctx context.Context, path string) (json.RawMessage, error)

func (f fakeLegacy) FetchJSON(ctx context.Context, path string) (json.RawMessage, error) {
	return f(ctx, path)
}

func contestPayload(contestID int64) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(
		`{"scoreboard":{"__typename":"Scoreboard","contests":[{"contestId":%d,"gameState":"F","teams":[]}]}}`,
		contestID))
}

func TestGetLegacySeasonPassesThrough(t *testing.T) {
	store := cache.NewMemoryStore()
	resolver := cache.NewResolver(store)

	legacyDoc := json.RawMessage(`{"inputMD5Sum":"abc","games":[]}`)
	var gotPath string
	legacy := fakeLegacy(func(ctx context.Context, path string) (json.RawMessage, error) {
		gotPath = path
		return legacyDoc, nil
	})
	graphql := fakeGraphQL(func(ctx context.Context, operation, hash string, variables map[string]interface{}) (json.RawMessage, error) {
		t.Error("graphql used for a legacy season")
		return nil, nil
	})

	svc := scoreboard.NewService(resolver, graphql, legacy)
	got, err := svc.Get(context.Background(), sources.Request{Sport: "football", Division: "fbs", Year: 2023, Week: 5})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotPath != "scoreboard/football/fbs/2023/05/scoreboard.json" {
		t.Errorf("path = %q", gotPath)
	}
	if string(got) != string(legacyDoc) {
		t.Errorf("payload = %s", got)
	}
}

func TestGetNormalizesGraphQLSeason(t *testing.T) {
	store := cache.NewMemoryStore()
	resolver := cache.NewResolver(store)

	graphql := fakeGraphQL(func(ctx context.Context, operation, hash string, variables map[string]interface{}) (json.RawMessage, error) {
		if operation != "scoreboard" {
			t.Errorf("operation = %q", operation)
		}
		if variables["sportCode"] != "MFB" {
			t.Errorf("sportCode = %v", variables["sportCode"])
		}
		return contestPayload(42), nil
	})
	legacy := fakeLegacy(func(ctx context.Context, path string) (json.RawMessage, error) {
		t.Error("legacy used for a graphql season")
		return nil, nil
	})

	svc := scoreboard.NewService(resolver, graphql, legacy)
	got, err := svc.Get(context.Background(), sources.Request{Sport: "football", Division: "fbs", Year: 2024, Week: 5})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	var sb struct {
		Games []struct {
			Game struct {
				GameID    string `json:"gameID"`
				GameState string `json:"gameState"`
				Week      int    `json:"week"`
			} `json:"game"`
		} `json:"games"`
	}
	if err := json.Unmarshal(got, &sb); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(sb.Games) != 1 {
		t.Fatalf("games = %d, want 1", len(sb.Games))
	}
	if sb.Games[0].Game.GameID != "42" || sb.Games[0].Game.GameState != "final" {
		t.Errorf("game = %+v", sb.Games[0].Game)
	}
	if sb.Games[0].Game.Week != 5 {
		t.Errorf("week tag = %d, want 5", sb.Games[0].Game.Week)
	}
}

func TestPlayoffsToleratesFailedWeek(t *testing.T) {
	store := cache.NewMemoryStore()
	resolver := cache.NewResolver(store)

	graphql := fakeGraphQL(func(ctx context.Context, operation, hash string, variables map[string]interface{}) (json.RawMessage, error) {
		week := variables["week"].(int)
		if week == 18 {
			return nil, errors.New("upstream down")
		}
		return contestPayload(int64(6300000 + week)), nil
	})
	legacy := fakeLegacy(func(ctx context.Context, path string) (json.RawMessage, error) {
		t.Error("legacy used for playoffs")
		return nil, nil
	})

	svc := scoreboard.NewService(resolver, graphql, legacy)
	got, err := svc.Get(context.Background(),
		sources.Request{Sport: "football", Division: "fbs", Year: 2025, Week: 16},
		"/scoreboard/football/fbs/2025/16")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	var sb struct {
		Games []struct {
			Game struct {
				GameID string `json:"gameID"`
				Week   int    `json:"week"`
			} `json:"game"`
		} `json:"games"`
		MissingWeeks []int `json:"missingWeeks"`
	}
	if err := json.Unmarshal(got, &sb); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if len(sb.Games) != 4 {
		t.Fatalf("games = %d, want 4 (weeks 16,17,19,20)", len(sb.Games))
	}
	gotWeeks := map[int]bool{}
	for _, g := range sb.Games {
		gotWeeks[g.Game.Week] = true
	}
	for _, want := range []int{16, 17, 19, 20} {
		if !gotWeeks[want] {
			t.Errorf("week %d missing from combined games", want)
		}
	}
	if len(sb.MissingWeeks) != 1 || sb.MissingWeeks[0] != 18 {
		t.Errorf("missingWeeks = %v, want [18]", sb.MissingWeeks)
	}

	ctx := context.Background()
	if _, ok, _ := store.Get(ctx, "scoreboard/football/fbs/2025/playoffs"); !ok {
		t.Error("combined response not cached under the playoffs key")
	}
	if _, ok, _ := store.Get(ctx, "/scoreboard/football/fbs/2025/16"); !ok {
		t.Error("combined response not cached under the equivalent URL key")
	}
	if _, ok, _ := store.Get(ctx, "scoreboard/football/fbs/2025/18"); ok {
		t.Error("failed week cached")
	}
	if _, ok, _ := store.Get(ctx, "scoreboard/football/fbs/2025/17"); !ok {
		t.Error("successful week not cached under its own key")
	}
}

func TestGetDegradesOnHashExhaustion(t *testing.T) {
	store := cache.NewMemoryStore()
	resolver := cache.NewResolver(store)

	probes := 0
	graphql := fakeGraphQL(func(ctx context.Context, operation, hash string, variables map[string]interface{}) (json.RawMessage, error) {
		probes++
		return nil, nil // every hash comes back empty
	})
	legacy := fakeLegacy(func(ctx context.Context, path string) (json.RawMessage, error) {
		return nil, errors.New("unused")
	})

	svc := scoreboard.NewService(resolver, graphql, legacy)
	req := sources.Request{Sport: "football", Division: "fbs", Year: 2024, Week: 5}

	got, err := svc.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var sb struct {
		Games []json.RawMessage `json:"games"`
	}
	if err := json.Unmarshal(got, &sb); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(sb.Games) != 0 {
		t.Errorf("games = %d, want 0", len(sb.Games))
	}

	if _, ok, _ := store.Get(context.Background(), "scoreboard/football/fbs/2024/05"); ok {
		t.Fatal("degraded response cached")
	}

	firstRound := probes
	if _, err := svc.Get(context.Background(), req); err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if probes <= firstRound {
		t.Error("second request did not re-probe the candidates")
	}
}

func TestGetRejectsUnknownSport(t *testing.T) {
	store := cache.NewMemoryStore()
	resolver := cache.NewResolver(store)
	svc := scoreboard.NewService(resolver,
		fakeGraphQL(func(context.Context, string, string, map[string]interface{}) (json.RawMessage, error) {
			return nil, nil
		}),
		fakeLegacy(func(context.Context, string) (json.RawMessage, error) {
			return nil, nil
		}))

	_, err := svc.Get(context.Background(), sources.Request{Sport: "curling", Division: "d1"})
	var unsupported *sources.UnsupportedSourceError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error = %v, want UnsupportedSourceError", err)
	}
}
