// Package scoreboard resolves scoreboard requests end to end: source
// selection, cached single-flight fetching, normalization of the GraphQL
// shape back into the legacy one, and playoff week combining.
package scoreboard

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/season"
	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/models"
)

// gqlScoreboard mirrors the persisted scoreboard payload. Only the fields
// the legacy shape needs are declared.
type gqlScoreboard struct {
	Scoreboard struct {
		Contests []gqlContest `json:"contests"`
	} `json:"scoreboard"`
}

type gqlContest struct {
	ContestID      int64     `json:"contestId"`
	URL            string    `json:"url"`
	GameState      string    `json:"gameState"`
	StartDate      string    `json:"startDate"`
	StartTimeEpoch int64     `json:"startTimeEpoch"`
	CurrentPeriod  string    `json:"currentPeriod"`
	ContestClock   string    `json:"contestClock"`
	FinalMessage   string    `json:"finalMessage"`
	Round          string    `json:"round"`
	BracketID      string    `json:"bracketId"`
	Title          string    `json:"title"`
	Broadcaster    string    `json:"broadcaster"`
	Teams          []gqlTeam `json:"teams"`
}

type gqlTeam struct {
	IsHome    bool   `json:"isHome"`
	Score     *int   `json:"score"` // null before tip-off; 0 is a real score
	IsWinner  bool   `json:"isWinner"`
	Seed      int    `json:"seed"`
	TeamID    int64  `json:"teamId"`
	Rank      int    `json:"rank"`
	Record    string `json:"record"`
	NameShort string `json:"nameShort"`
	Name6Char string `json:"name6Char"`
	SeoName   string `json:"seoName"`
	NameFull  string `json:"nameFull"`

	Conferences []struct {
		Name string `json:"name"`
		Seo  string `json:"seo"`
	} `json:"conferences"`
}

// Normalize converts a GraphQL scoreboard payload into the legacy shape,
// field by field. The inputMD5Sum is computed over the raw payload the way
// the legacy host stamps its input files.
func Normalize(payload json.RawMessage, now time.Time) (models.Scoreboard, error) {
	var src gqlScoreboard
	if err := json.Unmarshal(payload, &src); err != nil {
		return models.Scoreboard{}, fmt.Errorf("decoding graphql scoreboard: %w", err)
	}

	out := models.Scoreboard{
		InputMD5Sum: fmt.Sprintf("%x", md5.Sum(payload)),
		Updated:     legacyTimestamp(now),
		Games:       make([]models.GameWrapper, 0, len(src.Scoreboard.Contests)),
	}
	for _, contest := range src.Scoreboard.Contests {
		out.Games = append(out.Games, models.GameWrapper{Game: normalizeContest(contest)})
	}
	return out, nil
}

func normalizeContest(c gqlContest) models.Game {
	g := models.Game{
		GameID:         strconv.FormatInt(c.ContestID, 10),
		Title:          c.Title,
		URL:            c.URL,
		Network:        c.Broadcaster,
		StartDate:      c.StartDate,
		StartTimeEpoch: c.StartTimeEpoch,
		GameState:      legacyGameState(c.GameState),
		CurrentPeriod:  c.CurrentPeriod,
		ContestClock:   c.ContestClock,
		FinalMessage:   c.FinalMessage,
		BracketRound:   c.Round,
		BracketID:      c.BracketID,
	}
	if g.URL == "" && c.ContestID != 0 {
		g.URL = "/game/" + g.GameID
	}
	if c.StartTimeEpoch > 0 {
		start := time.Unix(c.StartTimeEpoch, 0).In(season.Eastern())
		g.StartDate = start.Format("01-02-2006")
		g.StartTime = start.Format("3:04PM") + " ET"
	}
	for _, team := range c.Teams {
		if team.IsHome {
			g.Home = normalizeTeam(team)
		} else {
			g.Away = normalizeTeam(team)
		}
	}
	return g
}

func normalizeTeam(t gqlTeam) models.Team {
	side := models.Team{
		Names: models.TeamNames{
			Char6: t.Name6Char,
			Short: t.NameShort,
			Seo:   t.SeoName,
			Full:  t.NameFull,
		},
		Winner:      t.IsWinner,
		Description: t.Record,
	}
	if t.Score != nil {
		side.Score = strconv.Itoa(*t.Score)
	}
	if t.TeamID != 0 {
		side.TeamID = strconv.FormatInt(t.TeamID, 10)
	}
	if t.Seed > 0 {
		side.Seed = strconv.Itoa(t.Seed)
	}
	if t.Rank > 0 {
		side.Rank = strconv.Itoa(t.Rank)
	}
	for _, conf := range t.Conferences {
		side.Conferences = append(side.Conferences, models.Conference{
			ConferenceName: conf.Name,
			ConferenceSeo:  conf.Seo,
		})
	}
	return side
}

// legacyGameState maps the GraphQL state codes onto the legacy strings.
// Values that are already legacy-shaped pass through lowercased.
func legacyGameState(state string) string {
	switch state {
	case "P":
		return "pre"
	case "I":
		return "live"
	case "F":
		return "final"
	}
	return strings.ToLower(state)
}

func legacyTimestamp(now time.Time) string {
	return now.In(season.Eastern()).Format("01-02-2006 15:04:05")
}
