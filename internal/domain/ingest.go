package domain

import (
	"fmt"
	"time"
)

// CollectorItem mirrors the loosely-shaped JSON produced by the upstream
// collectors. Field names vary per platform (Reddit uses num_comments and
// subreddit, YouTube uses channel), so every known alias is decoded and
// Normalize picks the first populated one.
type CollectorItem struct {
	ItemID      string `json:"item_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	PostURL     string `json:"post_url"`
	StoryURL    string `json:"story_url"`
	Author      string `json:"author"`
	Platform    string `json:"platform"`

	Published     string `json:"published"`
	PublishedDate string `json:"published_date"`

	Source    string `json:"source"`
	Channel   string `json:"channel"`
	Subreddit string `json:"subreddit"`

	Score       int `json:"score"`
	Comments    int `json:"comments"`
	NumComments int `json:"num_comments"`
	Views       int `json:"views"`
	Upvotes     int `json:"upvotes"`

	Topics   []string       `json:"topics"`
	Metadata map[string]any `json:"metadata"`
}

// Normalize converts a collector item into a ContentRecord, substituting
// documented defaults for anything missing. It never fails: unparseable dates
// leave PublishedAt nil and downstream scoring treats that as unknown
// freshness.
func (c *CollectorItem) Normalize() ContentRecord {
	rec := ContentRecord{
		ItemID:   c.ItemID,
		SourceID: firstNonEmpty(c.Source, c.Channel, c.Subreddit, "unknown"),
		URL:      firstNonEmpty(c.URL, c.PostURL, c.StoryURL),
		Title:    c.Title,
		Content:  firstNonEmpty(c.Content, c.Description),
		Author:   c.Author,
		Platform: firstNonEmpty(c.Platform, "unknown"),
		Topics:   c.Topics,
		Score:    c.Score,
		Comments: maxInt(c.Comments, c.NumComments),
		Views:    c.Views,
		Upvotes:  c.Upvotes,
		Metadata: c.Metadata,
	}

	if rec.ItemID == "" {
		rec.ItemID = fmt.Sprintf("%s:%s", rec.SourceID, rec.URL)
	}

	if ts, ok := ParseDate(firstNonEmpty(c.PublishedDate, c.Published)); ok {
		rec.PublishedAt = &ts
	}

	return rec
}

// Date layouts accepted from collectors, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 or YYYY-MM-DD timestamp. The second return
// value is false when the input is empty or matches no known layout.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
