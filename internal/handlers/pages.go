package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/cache"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/feeds"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/scrape"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/sources"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/upstream/casablanca"
	"github.com/go-chi/chi/v5"
	"golang.org/x/net/html"
)

// GetSitePage serves a scraped table page. Stats, rankings and history
// routes mirror the website's own URL layout, so the request path doubles
// as the fetch path and the cache key.
func (h *Handler) GetSitePage(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	payload, err := h.resolver.Resolve(r.Context(), path, cache.Options{Class: cache.Slow}, func(ctx context.Context) (json.RawMessage, error) {
		doc, err := h.fetchPage(ctx, path)
		if err != nil {
			return nil, err
		}
		table, err := scrape.ParseTable(doc)
		if err != nil {
			return nil, err
		}
		return json.Marshal(table)
	})
	if err != nil {
		respondDataError(w, err)
		return
	}
	respondRaw(w, http.StatusOK, payload)
}

// GetStandings serves conference standings scraped from the website.
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	sport := chi.URLParam(r, "sport")
	path := r.URL.Path

	payload, err := h.resolver.Resolve(r.Context(), path, cache.Options{Class: cache.Slow}, func(ctx context.Context) (json.RawMessage, error) {
		doc, err := h.fetchPage(ctx, path)
		if err != nil {
			return nil, err
		}
		standings, err := scrape.ParseStandings(doc, sport)
		if err != nil {
			return nil, err
		}
		return json.Marshal(standings)
	})
	if err != nil {
		respondDataError(w, err)
		return
	}
	respondRaw(w, http.StatusOK, payload)
}

// GetSchedule serves the legacy month schedule document.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	year, err := urlInt(r, "year")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid year", err)
		return
	}
	month, err := urlInt(r, "month")
	if err != nil || month < 1 || month > 12 {
		respondError(w, http.StatusBadRequest, "invalid month", err)
		return
	}

	path := casablanca.SchedulePath(chi.URLParam(r, "sport"), chi.URLParam(r, "division"), year, month)
	opts := cache.Options{Class: cache.Slow, EquivalentKeys: []string{r.URL.Path}}

	payload, err := h.resolver.Resolve(r.Context(), path, opts, func(ctx context.Context) (json.RawMessage, error) {
		data, err := h.legacy.FetchJSON(ctx, path)
		if err != nil {
			metrics.UpstreamFetches.WithLabelValues(string(sources.LegacyJSON), "error").Inc()
			return nil, err
		}
		metrics.UpstreamFetches.WithLabelValues(string(sources.LegacyJSON), "ok").Inc()
		return data, nil
	})
	if err != nil {
		respondDataError(w, err)
		return
	}
	respondRaw(w, http.StatusOK, payload)
}

// GetNews serves a sport's RSS headlines as JSON.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	path := fmt.Sprintf("/news/%s/rss.xml", chi.URLParam(r, "sport"))
	opts := cache.Options{Class: cache.Slow, EquivalentKeys: []string{r.URL.Path}}

	payload, err := h.resolver.Resolve(r.Context(), path, opts, func(ctx context.Context) (json.RawMessage, error) {
		data, err := h.site.FetchBytes(ctx, path)
		if err != nil {
			metrics.UpstreamFetches.WithLabelValues(string(sources.HTMLScrape), "error").Inc()
			return nil, err
		}
		metrics.UpstreamFetches.WithLabelValues(string(sources.HTMLScrape), "ok").Inc()
		feed, err := feeds.ParseRSS(data)
		if err != nil {
			return nil, err
		}
		return json.Marshal(feed)
	})
	if err != nil {
		respondDataError(w, err)
		return
	}
	respondRaw(w, http.StatusOK, payload)
}

func (h *Handler) fetchPage(ctx context.Context, path string) (*html.Node, error) {
	doc, err := h.site.FetchPage(ctx, path)
	if err != nil {
		metrics.UpstreamFetches.WithLabelValues(string(sources.HTMLScrape), "error").Inc()
		return nil, err
	}
	metrics.UpstreamFetches.WithLabelValues(string(sources.HTMLScrape), "ok").Inc()
	return doc, nil
}
