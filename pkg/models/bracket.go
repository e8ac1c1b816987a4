package models

// BracketStructure describes a championship bracket independent of any game
// results: rounds, regions, bracket size. Built from the HTML bracket page.
type BracketStructure struct {
	Sport     string         `json:"sport"`
	Title     string         `json:"title"`
	Year      int            `json:"year"`
	BracketID string         `json:"bracketId"`
	Regions   []string       `json:"regions"`
	Rounds    []BracketRound `json:"rounds"`
}

// BracketRound is one round of a bracket. Games is populated by the merger;
// an empty slice is the valid "not yet played" state, never an error.
type BracketRound struct {
	Name  string       `json:"name"`
	Games []GameRecord `json:"games"`
}

// GameRecord is a championship game from the GraphQL championship query,
// independent of bracket structure.
type GameRecord struct {
	GameID       string        `json:"gameId"`
	StartDate    string        `json:"startDate"`
	GameState    string        `json:"gameState"`
	BracketRound string        `json:"bracketRound,omitempty"`
	Teams        []BracketTeam `json:"teams"`
}

// BracketTeam is one side of a championship game.
type BracketTeam struct {
	Name   string `json:"name"`
	Seed   int    `json:"seed,omitempty"`
	Score  int    `json:"score"`
	Winner bool   `json:"winner"`
}
