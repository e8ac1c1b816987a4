package models

// Feed is a parsed ncaa.com RSS news feed.
type Feed struct {
	Title   string     `json:"title"`
	Link    string     `json:"link,omitempty"`
	Updated string     `json:"updated,omitempty"`
	Items   []FeedItem `json:"items"`
}

// FeedItem is one headline in a feed.
type FeedItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description,omitempty"`
	Published   string `json:"published,omitempty"`
}
