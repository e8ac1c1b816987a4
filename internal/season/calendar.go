// Package season maps calendar dates onto NCAA season years and week numbers.
package season

import "time"

// Football playoff weeks. Requests inside this range are served as one
// combined playoffs resource downstream.
const (
	FirstPlayoffWeek = 16
	LastPlayoffWeek  = 20
)

// Eastern is the schedule's home timezone. Day boundaries, display
// timestamps and the current week all roll over on US Eastern time.
func Eastern() *time.Location {
	return eastern
}

var eastern = loadEastern()

func loadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}

// Year returns the NCAA season year for a date. Seasons span two calendar
// years: January through July belong to the prior year's season, August
// through December to the current one. Jan 2026 is season 2025.
func Year(t time.Time) int {
	if t.Month() <= time.July {
		return t.Year() - 1
	}
	return t.Year()
}

// FootballWeek returns the football week number for a date, clamped to
// [1, 20]. Week 1 starts the Sunday before Labor Day; weeks run Sunday
// through Saturday. Opening games played before the anchor clamp to week 1,
// and bowl and playoff dates in December and January land in weeks 16-20.
func FootballWeek(t time.Time) int {
	anchor := weekAnchor(Year(t))
	days := int(t.Sub(anchor).Hours() / 24)

	week := days/7 + 1
	if week < 1 {
		week = 1
	}
	if week > LastPlayoffWeek {
		week = LastPlayoffWeek
	}
	return week
}

// IsPlayoffWeek reports whether a football week falls in the playoff range.
func IsPlayoffWeek(week int) bool {
	return week >= FirstPlayoffWeek && week <= LastPlayoffWeek
}

// weekAnchor returns the Sunday before Labor Day of the given season year,
// at midnight UTC.
func weekAnchor(year int) time.Time {
	// First Monday of September.
	d := time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, -1)
}
