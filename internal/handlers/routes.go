package handlers

import (
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/game"
	"github.com/go-chi/chi/v5"
)

// Routes mounts every data route on r. Health, metrics and the header-key
// guard are wired by the caller so they stay outside the guarded group.
// Stats, rankings, standings and history take whatever page path the
// website itself uses below the division segment.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/scoreboard/{sport}/{division}", h.GetScoreboard)
	r.Get("/scoreboard/{sport}/{division}/{year}/{week}", h.GetScoreboardWeek)
	r.Get("/scoreboard/{sport}/{division}/{year}/{month}/{day}", h.GetScoreboardDay)

	r.Get("/game/{gameID}", h.GetGameFile(game.FileSummary))
	r.Get("/game/{gameID}/boxscore", h.GetGameFile(game.FileBoxScore))
	r.Get("/game/{gameID}/play-by-play", h.GetGameFile(game.FilePlayByPlay))
	r.Get("/game/{gameID}/scoring-summary", h.GetGameFile(game.FileScoringSummary))
	r.Get("/game/{gameID}/team-stats", h.GetGameFile(game.FileTeamStats))

	r.Get("/stats/{sport}/{division}/*", h.GetSitePage)
	r.Get("/rankings/{sport}/{division}", h.GetSitePage)
	r.Get("/rankings/{sport}/{division}/*", h.GetSitePage)
	r.Get("/standings/{sport}/{division}", h.GetStandings)
	r.Get("/standings/{sport}/{division}/*", h.GetStandings)
	r.Get("/history/{sport}/*", h.GetSitePage)

	r.Get("/schedule/{sport}/{division}/{year}/{month}", h.GetSchedule)
	r.Get("/brackets/{sport}/{division}/{year}", h.GetBracket)
	r.Get("/news/{sport}", h.GetNews)

	r.Get("/live", h.HandleLive)
}
