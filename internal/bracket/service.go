package bracket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/cache"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/scrape"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/sources"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/upstream/sdata"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/models"
)

// Service assembles merged bracket responses. Structure and games resolve
// through their own cache entries, so a championship query outage never
// invalidates the scraped structure.
type Service struct {
	resolver *cache.Resolver
	graphql  contracts.GraphQLClient
	site     contracts.SiteFetcher
	now      func() time.Time
}

// NewService creates a bracket service on the shared resolver.
func NewService(resolver *cache.Resolver, graphql contracts.GraphQLClient, site contracts.SiteFetcher) *Service {
	return &Service{
		resolver: resolver,
		graphql:  graphql,
		site:     site,
		now:      time.Now,
	}
}

// Get resolves one merged bracket. urlKeys are the caller's equivalent cache
// keys, typically the request path. When every hash candidate for the
// championship query comes up empty the response degrades to the structure
// alone, and the miss is not cached so the next request probes again.
func (s *Service) Get(ctx context.Context, sport, division string, year int, urlKeys ...string) (json.RawMessage, error) {
	structureDesc, gamesDesc, err := sources.SelectBracket(sport, division, year, s.now())
	if err != nil {
		return nil, err
	}

	key := mergedKey(structureDesc)
	opts := cache.Options{Class: cache.Slow, EquivalentKeys: urlKeys}
	payload, err := s.resolver.Resolve(ctx, key, opts, func(ctx context.Context) (json.RawMessage, error) {
		structure, err := s.structure(ctx, structureDesc)
		if err != nil {
			return nil, err
		}
		games, err := s.games(ctx, gamesDesc)
		if err != nil {
			return nil, err
		}
		return json.Marshal(Merge(structure, games))
	})
	if err != nil {
		var exhausted *sdata.HashDiscoveryExhaustedError
		if errors.As(err, &exhausted) {
			log.Printf("[bracket] %s: %v", key, err)
			structure, serr := s.structure(ctx, structureDesc)
			if serr != nil {
				return nil, serr
			}
			return json.Marshal(Merge(structure, nil))
		}
		return nil, err
	}
	return payload, nil
}

func (s *Service) structure(ctx context.Context, d sources.Descriptor) (models.BracketStructure, error) {
	payload, err := s.resolver.Resolve(ctx, d.Key(), cache.Options{Class: cache.Slow}, func(ctx context.Context) (json.RawMessage, error) {
		return s.fetchStructure(ctx, d)
	})
	if err != nil {
		return models.BracketStructure{}, err
	}

	var structure models.BracketStructure
	if err := json.Unmarshal(payload, &structure); err != nil {
		return models.BracketStructure{}, fmt.Errorf("decoding bracket structure: %w", err)
	}
	return structure, nil
}

func (s *Service) fetchStructure(ctx context.Context, d sources.Descriptor) (json.RawMessage, error) {
	doc, err := s.site.FetchPage(ctx, bracketPath(d))
	if err != nil {
		metrics.UpstreamFetches.WithLabelValues(string(sources.HTMLScrape), "error").Inc()
		return nil, err
	}
	metrics.UpstreamFetches.WithLabelValues(string(sources.HTMLScrape), "ok").Inc()

	structure, err := scrape.ParseBracketStructure(doc, d.Sport, d.Season)
	if err != nil {
		return nil, err
	}
	return json.Marshal(structure)
}

func (s *Service) games(ctx context.Context, d sources.Descriptor) ([]models.GameRecord, error) {
	payload, err := s.resolver.Resolve(ctx, d.Key(), cache.Options{Class: cache.Slow}, func(ctx context.Context) (json.RawMessage, error) {
		return s.fetchGames(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	var games []models.GameRecord
	if err := json.Unmarshal(payload, &games); err != nil {
		return nil, fmt.Errorf("decoding bracket games: %w", err)
	}
	return games, nil
}

func (s *Service) fetchGames(ctx context.Context, d sources.Descriptor) (json.RawMessage, error) {
	variables := map[string]interface{}{
		"sportCode":  sdata.SportCode(d.Sport),
		"division":   sdata.DivisionCode(d.Division),
		"seasonYear": d.Season,
	}
	_, payload, err := sdata.ResolveHash(ctx, d.Sport, d.Query, func(ctx context.Context, hash string) (json.RawMessage, error) {
		return s.graphql.PersistedQuery(ctx, d.Query.Operation(), hash, variables)
	})
	if err != nil {
		metrics.UpstreamFetches.WithLabelValues(string(sources.GraphQLNew), "error").Inc()
		return nil, err
	}
	metrics.UpstreamFetches.WithLabelValues(string(sources.GraphQLNew), "ok").Inc()

	games, err := parseGames(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(games)
}

func mergedKey(d sources.Descriptor) string {
	return fmt.Sprintf("bracket/%s/%s/%d", d.Sport, d.Division, d.Season)
}

func bracketPath(d sources.Descriptor) string {
	return fmt.Sprintf("/brackets/%s/%s/%d", d.Sport, d.Division, d.Season)
}
