// Package domain holds the core data types shared by the scoring pipeline.
package domain

import (
	"strings"
	"time"
)

// ContentRecord is the unit of work: one piece of collected content as handed
// over by an upstream collector (RSS, YouTube, Reddit, HackerNews).
type ContentRecord struct {
	// Core identifiers
	ItemID   string `json:"item_id"`
	SourceID string `json:"source_id"`
	URL      string `json:"url"`

	// Content
	Title    string `json:"title"`
	Content  string `json:"content"`
	Author   string `json:"author,omitempty"`
	Platform string `json:"platform,omitempty"`

	// PublishedAt is nil when the collector could not determine a date.
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// Topics assigned by the upstream collector.
	Topics []string `json:"topics,omitempty"`

	// Engagement metrics. Absent metrics default to zero.
	Score    int `json:"score,omitempty"`
	Comments int `json:"comments,omitempty"`
	Views    int `json:"views,omitempty"`
	Upvotes  int `json:"upvotes,omitempty"`

	// Metadata carries source-specific extras (stars, subscriber counts, ...).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// MetaFloat returns the named metadata value as a float64, or def when the key
// is absent or not numeric.
func (r *ContentRecord) MetaFloat(key string, def float64) float64 {
	v, ok := r.Metadata[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}

// MetaInt returns the named metadata value as an int, or def when the key is
// absent or not numeric. JSON decoding produces float64 for all numbers, so
// that case is handled explicitly.
func (r *ContentRecord) MetaInt(key string, def int) int {
	v, ok := r.Metadata[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

// MetaString returns the named metadata value as a string, or def when the key
// is absent or not a string.
func (r *ContentRecord) MetaString(key, def string) string {
	if v, ok := r.Metadata[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// HasTopic reports whether the record carries the given topic, ignoring case.
func (r *ContentRecord) HasTopic(topic string) bool {
	for _, t := range r.Topics {
		if strings.EqualFold(t, topic) {
			return true
		}
	}
	return false
}
