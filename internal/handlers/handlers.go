package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/bracket"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/cache"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/game"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/live"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/scoreboard"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/sources"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/upstream/casablanca"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/models"
	"github.com/go-chi/chi/v5"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	scores   *scoreboard.Service
	games    *game.Service
	brackets *bracket.Service
	resolver *cache.Resolver
	site     contracts.SiteFetcher
	legacy   contracts.StaticJSONClient
	store    cache.Store
	hub      *live.Hub
}

// NewHandler creates a new handler with dependencies
func NewHandler(scores *scoreboard.Service, games *game.Service, brackets *bracket.Service, resolver *cache.Resolver, site contracts.SiteFetcher, legacy contracts.StaticJSONClient, store cache.Store, hub *live.Hub) *Handler {
	return &Handler{
		scores:   scores,
		games:    games,
		brackets: brackets,
		resolver: resolver,
		site:     site,
		legacy:   legacy,
		store:    store,
		hub:      hub,
	}
}

// HealthCheck returns the health status of the service
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "ncaa-data-service",
		"sports":    sources.SupportedSports(),
	}
	if h.hub != nil {
		payload["live_clients"] = h.hub.ClientCount()
	}
	if s, ok := h.store.(interface{ Len() int }); ok {
		payload["cache_entries"] = s.Len()
	}

	respondJSON(w, http.StatusOK, payload)
}

// GetScoreboard serves the current week or day for a sport and division.
func (h *Handler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	req := sources.Request{
		Sport:    chi.URLParam(r, "sport"),
		Division: chi.URLParam(r, "division"),
	}
	h.serveScoreboard(w, r, req)
}

// GetScoreboardWeek serves one football week.
func (h *Handler) GetScoreboardWeek(w http.ResponseWriter, r *http.Request) {
	year, err := urlInt(r, "year")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid year", err)
		return
	}
	week, err := urlInt(r, "week")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid week", err)
		return
	}

	req := sources.Request{
		Sport:    chi.URLParam(r, "sport"),
		Division: chi.URLParam(r, "division"),
		Year:     year,
		Week:     week,
	}
	h.serveScoreboard(w, r, req)
}

// GetScoreboardDay serves one calendar day for a daily sport.
func (h *Handler) GetScoreboardDay(w http.ResponseWriter, r *http.Request) {
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
	day, err := urlInt(r, "day")
	if err != nil || day < 1 || day > 31 {
		respondError(w, http.StatusBadRequest, "invalid day", err)
		return
	}

	req := sources.Request{
		Sport:    chi.URLParam(r, "sport"),
		Division: chi.URLParam(r, "division"),
		Year:     year,
		Month:    month,
		Day:      day,
	}
	h.serveScoreboard(w, r, req)
}

func (h *Handler) serveScoreboard(w http.ResponseWriter, r *http.Request, req sources.Request) {
	payload, err := h.scores.Get(r.Context(), req, r.URL.Path)
	if err != nil {
		respondDataError(w, err)
		return
	}
	respondRaw(w, http.StatusOK, payload)
}

// GetGameFile serves one game center document. The returned handler is bound
// to a single file kind so every route registers its own instance.
func (h *Handler) GetGameFile(file game.File) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.games.Get(r.Context(), chi.URLParam(r, "gameID"), file, r.URL.Path)
		if err != nil {
			respondDataError(w, err)
			return
		}
		respondRaw(w, http.StatusOK, payload)
	}
}

// GetBracket serves the merged tournament bracket for a season.
func (h *Handler) GetBracket(w http.ResponseWriter, r *http.Request) {
	year, err := urlInt(r, "year")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid year", err)
		return
	}

	payload, err := h.brackets.Get(r.Context(), chi.URLParam(r, "sport"), chi.URLParam(r, "division"), year, r.URL.Path)
	if err != nil {
		respondDataError(w, err)
		return
	}
	respondRaw(w, http.StatusOK, payload)
}

// Helper functions

func urlInt(r *http.Request, param string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, param))
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}

// respondRaw writes an already-encoded upstream payload as-is, so legacy
// documents pass through byte for byte.
func respondRaw(w http.ResponseWriter, status int, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(payload); err != nil {
		fmt.Printf("error writing response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil {
		fmt.Printf("error: %s - %v\n", message, err)
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		fmt.Printf("error encoding error response: %v\n", err)
	}
}

// respondDataError maps resolution failures onto HTTP statuses. Unknown
// sports and out-of-range calendars are the caller's fault, documents the
// hosts never had are 404, and anything that failed in flight is a 502.
// ErrNotFound is checked before the fetch wrapper because the resolver
// wraps whatever the upstream client returned.
func respondDataError(w http.ResponseWriter, err error) {
	var unsupported *sources.UnsupportedSourceError
	var upstream *cache.UpstreamFetchError

	switch {
	case errors.As(err, &unsupported):
		respondError(w, http.StatusBadRequest, unsupported.Error(), nil)
	case errors.Is(err, casablanca.ErrNotFound):
		respondError(w, http.StatusNotFound, "document not found upstream", err)
	case errors.As(err, &upstream):
		respondError(w, http.StatusBadGateway, "upstream fetch failed", err)
	default:
		respondError(w, http.StatusInternalServerError, "internal error", err)
	}
}
