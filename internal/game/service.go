// Package game serves game center documents: summary, box score, play by
// play, scoring summary, team stats. Documents come from the static host
// first; games that only exist in the new API fall back to its persisted
// queries.
package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/cache"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/sources"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/upstream/casablanca"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/upstream/sdata"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/contracts"
)

// File names one game center document.
type File string

const (
	FileSummary        File = "summary"
	FileBoxScore       File = "boxscore"
	FilePlayByPlay     File = "play-by-play"
	FileScoringSummary File = "scoring-summary"
	FileTeamStats      File = "team-stats"
)

// legacyNames maps a file to its name under the static host.
var legacyNames = map[File]string{
	FileSummary:        "gameInfo",
	FileBoxScore:       "boxscore",
	FilePlayByPlay:     "pbp",
	FileScoringSummary: "scoringSummary",
	FileTeamStats:      "teamStats",
}

// queryKinds maps a file to its persisted query. The summary has no query;
// it exists only on the static host.
var queryKinds = map[File]sources.QueryKind{
	FileBoxScore:       sources.QueryBoxScore,
	FilePlayByPlay:     sources.QueryPlayByPlay,
	FileScoringSummary: sources.QueryScoringSummary,
	FileTeamStats:      sources.QueryTeamStats,
}

// Service resolves game center documents through the shared cache.
type Service struct {
	resolver *cache.Resolver
	graphql  contracts.GraphQLClient
	legacy   contracts.StaticJSONClient
	now      func() time.Time
}

// NewService creates a game service on the shared resolver.
func NewService(resolver *cache.Resolver, graphql contracts.GraphQLClient, legacy contracts.StaticJSONClient) *Service {
	return &Service{
		resolver: resolver,
		graphql:  graphql,
		legacy:   legacy,
		now:      time.Now,
	}
}

// Get resolves one game document. urlKeys are the caller's equivalent cache
// keys. Unknown files and unknown games surface as casablanca.ErrNotFound;
// hash exhaustion on the fallback degrades to an empty document without
// caching the miss.
func (s *Service) Get(ctx context.Context, gameID string, file File, urlKeys ...string) (json.RawMessage, error) {
	if _, ok := legacyNames[file]; !ok {
		return nil, fmt.Errorf("unknown game file %q: %w", file, casablanca.ErrNotFound)
	}

	key := fmt.Sprintf("game/%s/%s", gameID, file)
	opts := cache.Options{Class: cache.Fast, EquivalentKeys: urlKeys}
	payload, err := s.resolver.Resolve(ctx, key, opts, func(ctx context.Context) (json.RawMessage, error) {
		return s.fetch(ctx, gameID, file)
	})
	if err != nil {
		var exhausted *sdata.HashDiscoveryExhaustedError
		if errors.As(err, &exhausted) {
			log.Printf("[game] %s: %v", key, err)
			return json.RawMessage(`{}`), nil
		}
		return nil, err
	}
	return payload, nil
}

func (s *Service) fetch(ctx context.Context, gameID string, file File) (json.RawMessage, error) {
	data, err := s.legacy.FetchJSON(ctx, casablanca.GamePath(gameID, legacyNames[file]))
	if err == nil {
		metrics.UpstreamFetches.WithLabelValues(string(sources.LegacyJSON), "ok").Inc()
		return data, nil
	}
	if !errors.Is(err, casablanca.ErrNotFound) {
		metrics.UpstreamFetches.WithLabelValues(string(sources.LegacyJSON), "error").Inc()
		return nil, err
	}

	kind, ok := queryKinds[file]
	if !ok {
		return nil, err
	}
	contestID, convErr := strconv.ParseInt(gameID, 10, 64)
	if convErr != nil {
		return nil, err
	}
	return s.fetchGraphQL(ctx, contestID, kind)
}

// fetchGraphQL serves games the static host never published. Game queries
// are keyed by contest, not sport, so hash candidates come from the default
// table.
func (s *Service) fetchGraphQL(ctx context.Context, contestID int64, kind sources.QueryKind) (json.RawMessage, error) {
	variables := map[string]interface{}{"contestId": contestID}
	_, payload, err := sdata.ResolveHash(ctx, "", kind, func(ctx context.Context, hash string) (json.RawMessage, error) {
		return s.graphql.PersistedQuery(ctx, kind.Operation(), hash, variables)
	})
	if err != nil {
		metrics.UpstreamFetches.WithLabelValues(string(sources.GraphQLNew), "error").Inc()
		return nil, err
	}
	metrics.UpstreamFetches.WithLabelValues(string(sources.GraphQLNew), "ok").Inc()
	return payload, nil
}
