package bracket

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/models"
)

// gqlChampionship mirrors the persisted championship payload. Only the
// fields the bracket response needs are declared.
type gqlChampionship struct {
	Championship struct {
		BracketID string         `json:"bracketId"`
		Games     []gqlChampGame `json:"games"`
	} `json:"championship"`
}

type gqlChampGame struct {
	ContestID int64          `json:"contestId"`
	StartDate string         `json:"startDate"`
	GameState string         `json:"gameState"`
	Round     string         `json:"round"`
	Teams     []gqlChampTeam `json:"teams"`
}

type gqlChampTeam struct {
	NameShort string `json:"nameShort"`
	Seed      int    `json:"seed"`
	Score     *int   `json:"score"` // null before tip-off; 0 is a real score
	IsWinner  bool   `json:"isWinner"`
}

// parseGames converts a championship payload into game records. An empty
// games list is a legitimate pre-tournament result, not an error.
func parseGames(payload json.RawMessage) ([]models.GameRecord, error) {
	var src gqlChampionship
	if err := json.Unmarshal(payload, &src); err != nil {
		return nil, fmt.Errorf("decoding championship payload: %w", err)
	}

	games := make([]models.GameRecord, 0, len(src.Championship.Games))
	for _, game := range src.Championship.Games {
		games = append(games, normalizeGame(game))
	}
	return games, nil
}

func normalizeGame(g gqlChampGame) models.GameRecord {
	record := models.GameRecord{
		GameID:       strconv.FormatInt(g.ContestID, 10),
		StartDate:    g.StartDate,
		GameState:    legacyGameState(g.GameState),
		BracketRound: g.Round,
		Teams:        make([]models.BracketTeam, 0, len(g.Teams)),
	}
	for _, team := range g.Teams {
		t := models.BracketTeam{
			Name:   team.NameShort,
			Seed:   team.Seed,
			Winner: team.IsWinner,
		}
		if team.Score != nil {
			t.Score = *team.Score
		}
		record.Teams = append(record.Teams, t)
	}
	return record
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
