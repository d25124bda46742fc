package domain

import (
	"testing"
	"time"
)

func TestNormalizeFieldAliases(t *testing.T) {
	item := CollectorItem{
		Title:       "Release Day",
		Description: "Notes from the release.",
		PostURL:     "https://example.com/release",
		Channel:     "releases",
		NumComments: 12,
	}

	rec := item.Normalize()

	if rec.Content != "Notes from the release." {
		t.Errorf("content = %q, want description fallback", rec.Content)
	}
	if rec.URL != "https://example.com/release" {
		t.Errorf("url = %q, want post_url fallback", rec.URL)
	}
	if rec.SourceID != "releases" {
		t.Errorf("source = %q, want channel fallback", rec.SourceID)
	}
	if rec.Comments != 12 {
		t.Errorf("comments = %d, want num_comments fallback", rec.Comments)
	}
}

func TestNormalizePrimaryFieldsWin(t *testing.T) {
	item := CollectorItem{
		Content:     "primary content",
		Description: "secondary description",
		URL:         "https://example.com/primary",
		PostURL:     "https://example.com/secondary",
	}

	rec := item.Normalize()

	if rec.Content != "primary content" {
		t.Errorf("content = %q, primary field should win", rec.Content)
	}
	if rec.URL != "https://example.com/primary" {
		t.Errorf("url = %q, primary field should win", rec.URL)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	item := CollectorItem{
		URL:    "https://example.com/x",
		Source: "hn",
	}
	rec := item.Normalize()

	if rec.ItemID != "hn:https://example.com/x" {
		t.Errorf("item id = %q", rec.ItemID)
	}

	bare := CollectorItem{}
	rec = bare.Normalize()
	if rec.SourceID != "unknown" || rec.Platform != "unknown" {
		t.Errorf("source = %q platform = %q, want unknown defaults", rec.SourceID, rec.Platform)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2026-08-15T10:30:00Z", true},
		{"2026-08-15T10:30:00", true},
		{"2026-08-15", true},
		{"15/08/2026", false},
		{"", false},
	}
	for _, tt := range tests {
		_, ok := ParseDate(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
	}
}

func TestMetadataAccessors(t *testing.T) {
	rec := ContentRecord{
		Metadata: map[string]any{
			"engagement_score": 0.7,
			"shares":           42,
			"shares_float":     12.0,
			"label":            "pinned",
			"bad":              struct{}{},
		},
	}

	if got := rec.MetaFloat("engagement_score", 0); got != 0.7 {
		t.Errorf("MetaFloat = %f", got)
	}
	if got := rec.MetaFloat("missing", 0.25); got != 0.25 {
		t.Errorf("MetaFloat default = %f", got)
	}
	if got := rec.MetaInt("shares", 0); got != 42 {
		t.Errorf("MetaInt = %d", got)
	}
	if got := rec.MetaInt("shares_float", 0); got != 12 {
		t.Errorf("MetaInt from float = %d", got)
	}
	if got := rec.MetaString("label", ""); got != "pinned" {
		t.Errorf("MetaString = %q", got)
	}
	if got := rec.MetaString("bad", "fallback"); got != "fallback" {
		t.Errorf("MetaString wrong type = %q", got)
	}
}

func TestHasTopic(t *testing.T) {
	rec := ContentRecord{Topics: []string{"Golang", "security"}}

	if !rec.HasTopic("golang") {
		t.Error("HasTopic should be case-insensitive")
	}
	if rec.HasTopic("rust") {
		t.Error("HasTopic should not match absent topics")
	}
}

func TestNormalizePublishedDate(t *testing.T) {
	item := CollectorItem{Published: "2026-08-15T10:30:00Z"}
	rec := item.Normalize()

	if rec.PublishedAt == nil {
		t.Fatal("published date should parse")
	}
	want := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	if !rec.PublishedAt.Equal(want) {
		t.Errorf("published = %v, want %v", rec.PublishedAt, want)
	}

	unparseable := CollectorItem{Published: "next tuesday"}
	rec = unparseable.Normalize()
	if rec.PublishedAt != nil {
		t.Error("unparseable date should yield nil")
	}
}
