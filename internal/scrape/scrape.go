// Package scrape extracts structured data from www.ncaa.com pages: stat and
// ranking tables, conference standings, and championship bracket structure.
// The resolution core treats these parsers as collaborators; it hands in a
// parsed document and caches whatever JSON they produce.
package scrape

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/models"
)

// ParseTable reads the first data table of a stats, rankings, or history
// page. Header cells become column names; each body row becomes one
// column-keyed entry.
func ParseTable(doc *html.Node) (models.Table, error) {
	table := findFirst(doc, "table")
	if table == nil {
		return models.Table{}, fmt.Errorf("no table in document")
	}

	columns, data := parseRows(table)
	return models.Table{
		Title:   pageTitle(doc),
		Updated: updatedStamp(doc),
		Columns: columns,
		Data:    data,
	}, nil
}

// ParseStandings reads a standings page into per-conference groups. The page
// interleaves conference headings with their tables, so the walk tracks the
// most recent heading and attributes each table to it.
func ParseStandings(doc *html.Node, sport string) (models.Standings, error) {
	out := models.Standings{
		Sport:   sport,
		Title:   pageTitle(doc),
		Updated: updatedStamp(doc),
		Groups:  []models.StandingsGroup{},
	}

	conference := ""
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case hasClass(n, "standings-conference"):
				conference = text(n)
				return
			case n.Data == "table":
				columns, data := parseRows(n)
				out.Groups = append(out.Groups, models.StandingsGroup{
					Conference: conference,
					Columns:    columns,
					Data:       data,
				})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(out.Groups) == 0 {
		return models.Standings{}, fmt.Errorf("no standings tables in document")
	}
	return out, nil
}

// ParseBracketStructure reads the rounds and regions of a championship
// bracket page. Game results never come from here; the bracket service
// merges those in from the championship query.
func ParseBracketStructure(doc *html.Node, sport string, year int) (models.BracketStructure, error) {
	out := models.BracketStructure{
		Sport:   sport,
		Title:   pageTitle(doc),
		Year:    year,
		Regions: []string{},
		Rounds:  []models.BracketRound{},
	}

	if root := findClass(doc, "bracket"); root != nil {
		out.BracketID = attr(root, "data-bracket-id")
	}
	for _, name := range classTexts(doc, "region-name") {
		out.Regions = append(out.Regions, name)
	}
	for _, name := range classTexts(doc, "round-name") {
		out.Rounds = append(out.Rounds, models.BracketRound{Name: name, Games: []models.GameRecord{}})
	}

	if len(out.Rounds) == 0 {
		return models.BracketStructure{}, fmt.Errorf("no rounds in bracket document")
	}
	return out, nil
}

// parseRows turns a table element into column names and column-keyed rows.
// The first all-header row names the columns; rows without data cells are
// skipped. Cells beyond the named columns get positional names so no data
// is silently dropped.
func parseRows(table *html.Node) ([]string, []map[string]string) {
	columns := []string{}
	data := []map[string]string{}

	for _, row := range findAll(table, "tr") {
		if ths := findAll(row, "th"); len(ths) > 0 {
			if len(columns) == 0 {
				for _, th := range ths {
					columns = append(columns, text(th))
				}
			}
			continue
		}

		tds := findAll(row, "td")
		if len(tds) == 0 {
			continue
		}
		entry := make(map[string]string, len(tds))
		for i, td := range tds {
			entry[columnName(columns, i)] = text(td)
		}
		data = append(data, entry)
	}
	return columns, data
}

func columnName(columns []string, i int) string {
	if i < len(columns) && columns[i] != "" {
		return columns[i]
	}
	return fmt.Sprintf("col%d", i+1)
}

func pageTitle(doc *html.Node) string {
	if h1 := findFirst(doc, "h1"); h1 != nil {
		return text(h1)
	}
	if title := findFirst(doc, "title"); title != nil {
		return text(title)
	}
	return ""
}

// updatedStamp returns the "Updated" line ncaa.com prints above its tables,
// identified by any class containing "updated".
func updatedStamp(doc *html.Node) string {
	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && strings.Contains(attr(n, "class"), "updated") {
			found = text(n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m := findFirst(c, tag); m != nil {
			return m
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

func findClass(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, name) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m := findClass(c, name); m != nil {
			return m
		}
	}
	return nil
}

// classTexts collects the text of every node carrying the class, in document
// order, dropping duplicates. Bracket pages repeat round labels per region.
func classTexts(n *html.Node, name string) []string {
	var out []string
	seen := map[string]bool{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, name) {
			if t := text(n); t != "" && !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func hasClass(n *html.Node, name string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == name {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// text concatenates the text nodes under n, collapsing runs of whitespace
// the way a browser renders them.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
