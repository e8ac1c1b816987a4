package models

// Table is a scraped ncaa.com data table (stats, rankings, history pages).
type Table struct {
	Title   string              `json:"title,omitempty"`
	Updated string              `json:"updated,omitempty"`
	Columns []string            `json:"columns"`
	Data    []map[string]string `json:"data"`
}

// StandingsGroup is one conference block of a standings page.
type StandingsGroup struct {
	Conference string              `json:"conference"`
	Columns    []string            `json:"columns"`
	Data       []map[string]string `json:"data"`
}

// Standings is the full standings page response.
type Standings struct {
	Sport   string           `json:"sport"`
	Title   string           `json:"title,omitempty"`
	Updated string           `json:"updated,omitempty"`
	Groups  []StandingsGroup `json:"standings"`
}
