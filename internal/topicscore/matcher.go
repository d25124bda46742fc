// Package topicscore detects configured topics in content and computes the
// final topic-weighted quality score.
package topicscore

import (
	"sort"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"contentsift/internal/config"
	"contentsift/internal/domain"
)

// Matcher detects priority and secondary topics in record text using
// substring matching over topic names, aliases and keywords.
type Matcher struct {
	priority       *ahocorasick.Matcher
	priorityTerms  []string
	priorityTopics []string

	secondary       *ahocorasick.Matcher
	secondaryTerms  []string
	secondaryTopics []string
}

// NewMatcher builds a matcher from the topics configuration. Terms are
// registered in sorted topic order so detection results are deterministic.
func NewMatcher(cfg *config.TopicsConfig) *Matcher {
	m := &Matcher{}

	for _, name := range cfg.TopicNames() {
		def := cfg.PriorityTopics[name]
		for _, term := range topicTerms(name, def.Aliases, def.Keywords) {
			m.priorityTerms = append(m.priorityTerms, term)
			m.priorityTopics = append(m.priorityTopics, name)
		}
	}

	for _, name := range sortedKeys(cfg.SecondaryTopics) {
		def := cfg.SecondaryTopics[name]
		for _, term := range topicTerms(name, nil, def.Keywords) {
			m.secondaryTerms = append(m.secondaryTerms, term)
			m.secondaryTopics = append(m.secondaryTopics, name)
		}
	}

	if len(m.priorityTerms) > 0 {
		m.priority = ahocorasick.NewStringMatcher(m.priorityTerms)
	}
	if len(m.secondaryTerms) > 0 {
		m.secondary = ahocorasick.NewStringMatcher(m.secondaryTerms)
	}
	return m
}

// DetectTopics returns the priority and secondary topics found in the record,
// each deduplicated and ordered by configuration order. The record's own topic
// tags are consulted alongside title and content text.
func (m *Matcher) DetectTopics(rec *domain.ContentRecord) (priority, secondary []string) {
	text := searchText(rec)
	priority = m.match(m.priority, m.priorityTopics, text)
	secondary = m.match(m.secondary, m.secondaryTopics, text)
	return priority, secondary
}

func (m *Matcher) match(matcher *ahocorasick.Matcher, topics []string, text string) []string {
	if matcher == nil {
		return nil
	}
	seen := make(map[string]bool)
	var hits []int
	for _, idx := range matcher.MatchThreadSafe([]byte(text)) {
		if !seen[topics[idx]] {
			seen[topics[idx]] = true
			hits = append(hits, idx)
		}
	}
	// Report in configuration order, not match-position order.
	out := make([]string, 0, len(hits))
	emitted := make(map[string]bool)
	for _, topic := range topics {
		if seen[topic] && !emitted[topic] {
			emitted[topic] = true
			out = append(out, topic)
		}
	}
	return out
}

// topicTerms expands a topic into its searchable lowercase terms. Hyphenated
// topic names also match their space-separated form.
func topicTerms(name string, aliases, keywords []string) []string {
	var terms []string
	seen := make(map[string]bool)
	add := func(t string) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}

	add(name)
	add(strings.ReplaceAll(name, "-", " "))
	for _, a := range aliases {
		add(a)
	}
	for _, k := range keywords {
		add(k)
	}
	return terms
}

func searchText(rec *domain.ContentRecord) string {
	parts := []string{rec.Title, rec.Content}
	parts = append(parts, rec.Topics...)
	return strings.ToLower(strings.Join(parts, " "))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
