package noise

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Spam heuristic pattern categories. The lists are configuration points; the
// defaults below cover the common promotional, clickbait and engagement-bait
// phrasings seen across RSS, YouTube and Reddit collectors.
var (
	promotionalPatterns = []string{
		"buy now", "limited time", "special offer", "click here", "subscribe now",
		"get rich quick", "make money", "earn $", "free trial", "discount",
		"hot deal", "exclusive", "limited edition", "act now", "hurry",
	}

	clickbaitPatterns = []string{
		"you won't believe", "shocking", "amazing secret", "doctors hate",
		"this one trick", "will blow your mind", "the truth about", "exposed",
		"incredible", "unbelievable", "jaw-dropping", "life-changing", "must see",
	}

	engagementBaitPatterns = []string{
		"first post", "please like", "smash that", "don't forget to subscribe",
		"like and subscribe", "hit the bell", "check description", "link in bio",
	}
)

// patternSet wraps an Aho-Corasick matcher over one category of phrases so a
// record's full text is scanned in a single pass.
type patternSet struct {
	matcher  *ahocorasick.Matcher
	patterns []string
}

func newPatternSet(patterns []string) *patternSet {
	normalized := make([]string, len(patterns))
	for i, p := range patterns {
		normalized[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return &patternSet{
		matcher:  ahocorasick.NewStringMatcher(normalized),
		patterns: normalized,
	}
}

// scan returns the match density (matched pattern count / word count, capped
// at 1.0) and the matched phrases. text must already be lowercased.
func (p *patternSet) scan(text string, wordCount int) (float64, []string) {
	if text == "" || wordCount == 0 {
		return 0, nil
	}

	hits := p.matcher.MatchThreadSafe([]byte(text))
	if len(hits) == 0 {
		return 0, nil
	}

	matched := make([]string, 0, len(hits))
	for _, idx := range hits {
		if idx < len(p.patterns) {
			matched = append(matched, p.patterns[idx])
		}
	}

	density := float64(len(matched)) / float64(wordCount)
	if density > 1.0 {
		density = 1.0
	}
	return density, matched
}
