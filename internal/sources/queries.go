package sources

// QueryKind names one GraphQL persisted query.
type QueryKind string

const (
	QueryScoreboard     QueryKind = "scoreboard"
	QueryBoxScore       QueryKind = "boxscore"
	QueryPlayByPlay     QueryKind = "play-by-play"
	QueryScoringSummary QueryKind = "scoring-summary"
	QueryTeamStats      QueryKind = "team-stats"
	QueryBracket        QueryKind = "bracket"
)

// queryMeta ties a persisted query to the operation name sent upstream and
// the __typename the response payload must carry to count as usable.
type queryMeta struct {
	operation string
	typename  string
}

var queryTable = map[QueryKind]queryMeta{
	QueryScoreboard:     {operation: "scoreboard", typename: "Scoreboard"},
	QueryBoxScore:       {operation: "contestBoxscore", typename: "Boxscore"},
	QueryPlayByPlay:     {operation: "contestPlayByPlay", typename: "PlayByPlay"},
	QueryScoringSummary: {operation: "contestScoringSummary", typename: "ScoringSummary"},
	QueryTeamStats:      {operation: "contestTeamStats", typename: "TeamStats"},
	QueryBracket:        {operation: "championshipGames", typename: "Championship"},
}

// Operation returns the operation name sent with the persisted query.
func (k QueryKind) Operation() string {
	return queryTable[k].operation
}

// Typename returns the discriminator value expected on the payload root.
func (k QueryKind) Typename() string {
	return queryTable[k].typename
}
