// Package feeds parses ncaa.com RSS news feeds into the headline response
// shape.
package feeds

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/ncaa-data-service/pkg/models"
)

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// ParseRSS converts raw feed bytes into the feed shape. Titles arrive as
// CDATA; the decoder unwraps them. Timestamps are normalized to RFC1123Z
// when they parse and passed through verbatim when they do not.
func ParseRSS(data []byte) (models.Feed, error) {
	var src rssFeed
	if err := xml.Unmarshal(data, &src); err != nil {
		return models.Feed{}, fmt.Errorf("decoding feed: %w", err)
	}

	feed := models.Feed{
		Title:   strings.TrimSpace(src.Channel.Title),
		Link:    src.Channel.Link,
		Updated: normalizeDate(src.Channel.LastBuildDate),
		Items:   make([]models.FeedItem, 0, len(src.Channel.Items)),
	}
	for _, item := range src.Channel.Items {
		feed.Items = append(feed.Items, models.FeedItem{
			Title:       strings.TrimSpace(item.Title),
			Link:        item.Link,
			Description: strings.TrimSpace(item.Description),
			Published:   normalizeDate(item.PubDate),
		})
	}
	return feed, nil
}

// ncaa.com publishes RFC1123Z; the rest of the list covers variants other
// publishers of the same feeds have used.
var dateFormats = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

func normalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t.Format(time.RFC1123Z)
		}
	}
	return value
}
