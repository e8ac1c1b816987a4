// Package bracket builds championship bracket responses. Structure comes
// from the scraped bracket page, games from the championship query; the two
// arrive independently and are merged here.
package bracket

import (
	"log"
	"strings"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/models"
)

// Merge places championship games into the rounds of a bracket structure.
// A game names its round; exact matches win, and a normalized comparison
// covers label drift between the two sources. Games matching no round are
// dropped with a warning so one stray record never fails the bracket. Zero
// games is the valid "not yet played" state: every round comes back with an
// empty games list.
func Merge(structure models.BracketStructure, games []models.GameRecord) models.BracketStructure {
	merged := structure
	merged.Rounds = make([]models.BracketRound, len(structure.Rounds))
	index := make(map[string]int, len(structure.Rounds))
	for i, round := range structure.Rounds {
		merged.Rounds[i] = models.BracketRound{Name: round.Name, Games: []models.GameRecord{}}
		key := normalizeRound(round.Name)
		if _, ok := index[key]; !ok {
			index[key] = i
		}
	}

	for _, game := range games {
		i, ok := roundIndex(merged.Rounds, index, game.BracketRound)
		if !ok {
			log.Printf("[bracket] game %s matches no round %q, dropped", game.GameID, game.BracketRound)
			continue
		}
		merged.Rounds[i].Games = append(merged.Rounds[i].Games, game)
	}
	return merged
}

func roundIndex(rounds []models.BracketRound, index map[string]int, name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	for i, round := range rounds {
		if round.Name == name {
			return i, true
		}
	}
	i, ok := index[normalizeRound(name)]
	return i, ok
}

// normalizeRound lowercases and collapses whitespace so "FIRST ROUND" and
// "First Round" compare equal.
func normalizeRound(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
