package scoreboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/cache"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/sources"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/upstream/sdata"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/models"
)

// Service serves legacy-shaped scoreboards from whichever upstream the
// selector picks. Handlers and the live poller are its only callers.
type Service struct {
	resolver *cache.Resolver
	graphql  contracts.GraphQLClient
	legacy   contracts.StaticJSONClient
	now      func() time.Time
}

// NewService creates a scoreboard service on the shared resolver.
func NewService(resolver *cache.Resolver, graphql contracts.GraphQLClient, legacy contracts.StaticJSONClient) *Service {
	return &Service{
		resolver: resolver,
		graphql:  graphql,
		legacy:   legacy,
		now:      time.Now,
	}
}

// Get resolves one scoreboard request to legacy-shaped JSON. urlKeys are the
// caller's equivalent cache keys, typically the request path.
func (s *Service) Get(ctx context.Context, req sources.Request, urlKeys ...string) (json.RawMessage, error) {
	d, err := sources.Select(req, s.now())
	if err != nil {
		return nil, err
	}
	if len(d.CombinedWeeks) > 0 {
		return s.playoffs(ctx, d, urlKeys)
	}
	return s.single(ctx, d, urlKeys)
}

func (s *Service) single(ctx context.Context, d sources.Descriptor, urlKeys []string) (json.RawMessage, error) {
	opts := cache.Options{Class: cache.Fast, EquivalentKeys: urlKeys}
	payload, err := s.resolver.Resolve(ctx, d.Key(), opts, func(ctx context.Context) (json.RawMessage, error) {
		return s.fetch(ctx, d)
	})
	if err != nil {
		var exhausted *sdata.HashDiscoveryExhaustedError
		if errors.As(err, &exhausted) {
			// Degrade to empty data. The miss was not cached, so the next
			// request probes the candidates again.
			log.Printf("[scoreboard] %s: %v", d.Key(), err)
			return s.empty()
		}
		return nil, err
	}
	return payload, nil
}

// playoffs assembles football weeks 16-20 into one response under the parent
// playoffs key. Each week resolves through its own cache entry, so one
// failed week never blocks the others; failures surface in missingWeeks.
func (s *Service) playoffs(ctx context.Context, parent sources.Descriptor, urlKeys []string) (json.RawMessage, error) {
	opts := cache.Options{Class: cache.Fast, EquivalentKeys: urlKeys}
	return s.resolver.Resolve(ctx, parent.Key(), opts, func(ctx context.Context) (json.RawMessage, error) {
		combined := models.Scoreboard{
			Updated: legacyTimestamp(s.now()),
			Games:   []models.GameWrapper{},
		}
		for _, wd := range parent.Weeks() {
			games, err := s.week(ctx, wd)
			if err != nil {
				log.Printf("[scoreboard] %s %s week %d: %v", wd.Sport, wd.Division, wd.Week, err)
				combined.MissingWeeks = append(combined.MissingWeeks, wd.Week)
				continue
			}
			combined.Games = append(combined.Games, games...)
		}
		return json.Marshal(combined)
	})
}

func (s *Service) week(ctx context.Context, wd sources.Descriptor) ([]models.GameWrapper, error) {
	payload, err := s.resolver.Resolve(ctx, wd.Key(), cache.Options{Class: cache.Fast}, func(ctx context.Context) (json.RawMessage, error) {
		return s.fetch(ctx, wd)
	})
	if err != nil {
		return nil, err
	}

	var sb models.Scoreboard
	if err := json.Unmarshal(payload, &sb); err != nil {
		return nil, fmt.Errorf("decoding week payload: %w", err)
	}
	return sb.Games, nil
}

func (s *Service) fetch(ctx context.Context, d sources.Descriptor) (json.RawMessage, error) {
	switch d.Kind {
	case sources.GraphQLNew:
		return s.fetchGraphQL(ctx, d)
	case sources.LegacyJSON:
		return s.fetchLegacy(ctx, d)
	default:
		return nil, fmt.Errorf("no scoreboard fetch for source %s", d.Kind)
	}
}

func (s *Service) fetchLegacy(ctx context.Context, d sources.Descriptor) (json.RawMessage, error) {
	data, err := s.legacy.FetchJSON(ctx, legacyPath(d))
	if err != nil {
		metrics.UpstreamFetches.WithLabelValues(string(sources.LegacyJSON), "error").Inc()
		return nil, err
	}
	metrics.UpstreamFetches.WithLabelValues(string(sources.LegacyJSON), "ok").Inc()
	return data, nil
}

func (s *Service) fetchGraphQL(ctx context.Context, d sources.Descriptor) (json.RawMessage, error) {
	variables := scoreboardVariables(d)
	_, payload, err := sdata.ResolveHash(ctx, d.Sport, d.Query, func(ctx context.Context, hash string) (json.RawMessage, error) {
		return s.graphql.PersistedQuery(ctx, d.Query.Operation(), hash, variables)
	})
	if err != nil {
		metrics.UpstreamFetches.WithLabelValues(string(sources.GraphQLNew), "error").Inc()
		return nil, err
	}
	metrics.UpstreamFetches.WithLabelValues(string(sources.GraphQLNew), "ok").Inc()

	sb, err := Normalize(payload, s.now())
	if err != nil {
		return nil, err
	}
	if d.Week > 0 {
		for i := range sb.Games {
			sb.Games[i].Game.Week = d.Week
		}
	}
	return json.Marshal(sb)
}

func (s *Service) empty() (json.RawMessage, error) {
	sb := models.Scoreboard{
		Updated: legacyTimestamp(s.now()),
		Games:   []models.GameWrapper{},
	}
	return json.Marshal(sb)
}

func legacyPath(d sources.Descriptor) string {
	if d.Week > 0 {
		return fmt.Sprintf("scoreboard/%s/%s/%d/%02d/scoreboard.json", d.Sport, d.Division, d.Season, d.Week)
	}
	return fmt.Sprintf("scoreboard/%s/%s/%s/scoreboard.json", d.Sport, d.Division, d.Date.Format("2006/01/02"))
}

func scoreboardVariables(d sources.Descriptor) map[string]interface{} {
	vars := map[string]interface{}{
		"sportCode":  sdata.SportCode(d.Sport),
		"division":   sdata.DivisionCode(d.Division),
		"seasonYear": d.Season,
	}
	if d.Week > 0 {
		vars["week"] = d.Week
	} else if !d.Date.IsZero() {
		vars["contestDate"] = d.Date.Format("01/02/2006")
	}
	return vars
}
