package models

// Scoreboard is the legacy data.ncaa.com scoreboard shape. Existing consumers
// depend on this exact layout, so the GraphQL era is normalized back into it.
type Scoreboard struct {
	InputMD5Sum  string        `json:"inputMD5Sum,omitempty"`
	Updated      string        `json:"updated_at,omitempty"`
	Games        []GameWrapper `json:"games"`
	MissingWeeks []int         `json:"missingWeeks,omitempty"` // playoff weeks that failed upstream
}

// GameWrapper matches the legacy nesting: every game sits under a "game" key.
type GameWrapper struct {
	Game Game `json:"game"`
}

// Game is a single contest in the legacy scoreboard shape.
type Game struct {
	GameID         string `json:"gameID"`
	Away           Team   `json:"away"`
	Home           Team   `json:"home"`
	Title          string `json:"title,omitempty"`
	URL            string `json:"url,omitempty"` // "/game/6308654"
	Network        string `json:"network,omitempty"`
	StartDate      string `json:"startDate"` // "01-20-2025"
	StartTime      string `json:"startTime"` // "7:30PM ET"
	StartTimeEpoch int64  `json:"startTimeEpoch"`
	GameState      string `json:"gameState"` // "pre", "live", "final"
	CurrentPeriod  string `json:"currentPeriod,omitempty"`
	ContestClock   string `json:"contestClock,omitempty"`
	FinalMessage   string `json:"finalMessage,omitempty"`
	BracketRound   string `json:"bracketRound,omitempty"`
	BracketID      string `json:"bracketId,omitempty"`
	Week           int    `json:"week,omitempty"` // football only
}

// Team is one side of a contest.
type Team struct {
	Score       string       `json:"score"`
	Names       TeamNames    `json:"names"`
	Winner      bool         `json:"winner"`
	TeamID      string       `json:"teamId,omitempty"`
	Seed        string       `json:"seed,omitempty"`
	Description string       `json:"description,omitempty"` // "(11-2)"
	Rank        string       `json:"rank,omitempty"`
	Conferences []Conference `json:"conferences,omitempty"`
}

// TeamNames carries the name variants the legacy shape exposes.
type TeamNames struct {
	Char6 string `json:"char6"`
	Short string `json:"short"`
	Seo   string `json:"seo"`
	Full  string `json:"full"`
}

// Conference identifies a team's conference membership.
type Conference struct {
	ConferenceName string `json:"conferenceName"`
	ConferenceSeo  string `json:"conferenceSeo"`
}
