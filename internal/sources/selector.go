// Package sources decides which upstream mechanism serves a logical request
// and carries the static persisted-query configuration for the GraphQL API.
package sources

import (
	"fmt"
	"sort"
	"time"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/internal/season"
)

// Kind identifies one of the three upstream mechanisms.
type Kind string

const (
	GraphQLNew Kind = "graphql-new"
	LegacyJSON Kind = "legacy-json"
	HTMLScrape Kind = "html-scrape"
)

// Resource names the logical resource a descriptor addresses. It is the
// leading segment of the canonical cache key.
type Resource string

const (
	ResourceScoreboard       Resource = "scoreboard"
	ResourceBracketStructure Resource = "bracket-structure"
	ResourceBracketGames     Resource = "bracket-games"
)

// Descriptor is the immutable fetch plan for one logical request. It is
// produced once by the selector and never mutated afterwards.
type Descriptor struct {
	Resource Resource
	Kind     Kind
	Sport    string
	Division string
	Season   int
	Week     int       // week-based sports
	Date     time.Time // daily sports, midnight UTC
	Query    QueryKind // set when Kind is GraphQLNew

	// CombinedWeeks is set when a single logical response merges several
	// upstream weeks (football playoffs). Downstream fetches each week
	// independently and concatenates the results.
	CombinedWeeks []int
}

// Key returns the canonical cache key for the descriptor.
func (d Descriptor) Key() string {
	base := fmt.Sprintf("%s/%s/%s", d.Resource, d.Sport, d.Division)
	switch {
	case len(d.CombinedWeeks) > 0:
		return fmt.Sprintf("%s/%d/playoffs", base, d.Season)
	case d.Week > 0:
		return fmt.Sprintf("%s/%d/%02d", base, d.Season, d.Week)
	case !d.Date.IsZero():
		return fmt.Sprintf("%s/%s", base, d.Date.Format("2006/01/02"))
	default:
		return fmt.Sprintf("%s/%d", base, d.Season)
	}
}

// Weeks expands a combined-week descriptor into one single-week descriptor
// per playoff week.
func (d Descriptor) Weeks() []Descriptor {
	out := make([]Descriptor, 0, len(d.CombinedWeeks))
	for _, w := range d.CombinedWeeks {
		wd := d
		wd.Week = w
		wd.CombinedWeeks = nil
		out = append(out, wd)
	}
	return out
}

// UnsupportedSourceError reports a sport/division/date combination that no
// upstream source serves. Handlers map it to a 400.
type UnsupportedSourceError struct {
	Sport    string
	Division string
	Reason   string
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("no upstream source for %s/%s: %s", e.Sport, e.Division, e.Reason)
}

// profile captures how one sport's seasons are addressed upstream.
type profile struct {
	weekly     bool
	newAPIFrom int // first season year served by the GraphQL API
	divisions  []string
}

var allDivisions = []string{"d1", "d2", "d3"}

// Seasons before the per-sport cutoff are only available as legacy static
// JSON. Football moved to the GraphQL API with the 2024 playoff expansion;
// daily sports followed for 2025.
var profiles = map[string]profile{
	"football":         {weekly: true, newAPIFrom: 2024, divisions: []string{"fbs", "fcs", "d2", "d3"}},
	"basketball-men":   {newAPIFrom: 2025, divisions: allDivisions},
	"basketball-women": {newAPIFrom: 2025, divisions: allDivisions},
	"baseball":         {newAPIFrom: 2025, divisions: allDivisions},
	"softball":         {newAPIFrom: 2025, divisions: allDivisions},
	"icehockey-men":    {newAPIFrom: 2025, divisions: []string{"d1", "d3"}},
	"icehockey-women":  {newAPIFrom: 2025, divisions: []string{"d1", "d3"}},
	"soccer-men":       {newAPIFrom: 2025, divisions: allDivisions},
	"soccer-women":     {newAPIFrom: 2025, divisions: allDivisions},
	"volleyball-men":   {newAPIFrom: 2025, divisions: []string{"d1", "d3"}},
	"volleyball-women": {newAPIFrom: 2025, divisions: allDivisions},
	"lacrosse-men":     {newAPIFrom: 2025, divisions: allDivisions},
	"lacrosse-women":   {newAPIFrom: 2025, divisions: allDivisions},
	"fieldhockey":      {newAPIFrom: 2025, divisions: allDivisions},
}

// Request identifies one logical scoreboard resource. Zero values select the
// current season, week or day.
type Request struct {
	Sport    string
	Division string
	Year     int
	Week     int
	Month    int
	Day      int
}

// Select returns the fetch plan for a scoreboard request. The rule table is
// keyed by sport and by whether the season falls on or after the sport's
// GraphQL cutoff; football playoff weeks 16-20 come back as one combined
// descriptor so downstream merges all five weeks into a single response.
func Select(req Request, now time.Time) (Descriptor, error) {
	p, err := lookupProfile(req.Sport, req.Division)
	if err != nil {
		return Descriptor{}, err
	}
	now = now.In(season.Eastern())

	if p.weekly {
		return selectWeekly(req, p, now)
	}
	return selectDaily(req, p, now)
}

func selectWeekly(req Request, p profile, now time.Time) (Descriptor, error) {
	year := req.Year
	if year == 0 {
		year = season.Year(now)
	}
	week := req.Week
	if week == 0 {
		week = season.FootballWeek(now)
	}
	if week < 1 || week > season.LastPlayoffWeek {
		return Descriptor{}, &UnsupportedSourceError{
			Sport:    req.Sport,
			Division: req.Division,
			Reason:   fmt.Sprintf("week %d out of range", week),
		}
	}

	d := Descriptor{
		Resource: ResourceScoreboard,
		Kind:     LegacyJSON,
		Sport:    req.Sport,
		Division: req.Division,
		Season:   year,
		Week:     week,
	}
	if year >= p.newAPIFrom {
		d.Kind = GraphQLNew
		d.Query = QueryScoreboard
		if season.IsPlayoffWeek(week) {
			d.Week = 0
			d.CombinedWeeks = playoffWeeks()
		}
	}
	return d, nil
}

func selectDaily(req Request, p profile, now time.Time) (Descriptor, error) {
	year, month, day := req.Year, time.Month(req.Month), req.Day
	if year == 0 {
		year, month, day = now.Date()
	}
	if month < time.January || month > time.December {
		return Descriptor{}, &UnsupportedSourceError{
			Sport:    req.Sport,
			Division: req.Division,
			Reason:   fmt.Sprintf("month %d out of range", month),
		}
	}
	if day < 1 || day > 31 {
		return Descriptor{}, &UnsupportedSourceError{
			Sport:    req.Sport,
			Division: req.Division,
			Reason:   fmt.Sprintf("day %d out of range", day),
		}
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	d := Descriptor{
		Resource: ResourceScoreboard,
		Kind:     LegacyJSON,
		Sport:    req.Sport,
		Division: req.Division,
		Season:   season.Year(date),
		Date:     date,
	}
	if d.Season >= p.newAPIFrom {
		d.Kind = GraphQLNew
		d.Query = QueryScoreboard
	}
	return d, nil
}

// SelectBracket returns the two-part plan for a championship bracket: the
// tournament structure scraped from HTML and the championship games from the
// GraphQL API. The two are fetched independently and merged downstream.
func SelectBracket(sport, division string, year int, now time.Time) (structure, games Descriptor, err error) {
	if _, err := lookupProfile(sport, division); err != nil {
		return Descriptor{}, Descriptor{}, err
	}
	if year == 0 {
		year = season.Year(now.In(season.Eastern()))
	}

	structure = Descriptor{
		Resource: ResourceBracketStructure,
		Kind:     HTMLScrape,
		Sport:    sport,
		Division: division,
		Season:   year,
	}
	games = Descriptor{
		Resource: ResourceBracketGames,
		Kind:     GraphQLNew,
		Sport:    sport,
		Division: division,
		Season:   year,
		Query:    QueryBracket,
	}
	return structure, games, nil
}

// SupportedSports returns the sport keys the selector knows, for validation
// and health reporting.
func SupportedSports() []string {
	keys := make([]string, 0, len(profiles))
	for key := range profiles {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func lookupProfile(sport, division string) (profile, error) {
	p, ok := profiles[sport]
	if !ok {
		return profile{}, &UnsupportedSourceError{Sport: sport, Division: division, Reason: "unknown sport"}
	}
	for _, d := range p.divisions {
		if d == division {
			return p, nil
		}
	}
	return profile{}, &UnsupportedSourceError{Sport: sport, Division: division, Reason: "division not offered"}
}

func playoffWeeks() []int {
	weeks := make([]int, 0, season.LastPlayoffWeek-season.FirstPlayoffWeek+1)
	for w := season.FirstPlayoffWeek; w <= season.LastPlayoffWeek; w++ {
		weeks = append(weeks, w)
	}
	return weeks
}
