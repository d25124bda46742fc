package priority

import (
	"time"

	"contentsift/internal/domain"
)

const (
	newsNoDateRecency  = 0.1
	newsBreakingBoost  = 0.15
	newsAuthorityBoost = 1.2
)

var breakingIndicators = []string{"breaking", "just in", "alert", "urgent", "developing"}

// NewsStrategy is tuned for time-sensitive content: recency dominates and
// breaking items receive an additional boost on top of the weighted total.
type NewsStrategy struct {
	now func() time.Time
}

func NewNewsStrategy() *NewsStrategy {
	return &NewsStrategy{now: time.Now}
}

func (s *NewsStrategy) Kind() StrategyKind { return StrategyNews }

func (s *NewsStrategy) Weights() Weights {
	return Weights{
		SourceAuthority:   0.15,
		ContentRecency:    0.45,
		TopicRelevance:    0.10,
		EngagementSignals: 0.05,
		Uniqueness:        0.10,
		Completeness:      0.05,
		Actionability:     0.05,
		CrossTopicValue:   0.05,
	}
}

func (s *NewsStrategy) Factors(rec *domain.ContentRecord, pctx *Context) domain.PriorityFactors {
	factors := domain.PriorityFactors{
		SourceAuthority:   authorityFor(rec, pctx),
		ContentRecency:    s.recency(rec),
		TopicRelevance:    relevanceFor(rec, pctx),
		EngagementSignals: engagementFor(rec),
		Uniqueness:        0.5,
		Completeness:      completenessFor(rec, defaultCompletenessSaturation),
		Actionability:     0.5,
		CrossTopicValue:   crossTopicFor(rec),
	}

	if isBreaking(rec) {
		factors.Uniqueness = 1.0
		factors.Actionability = 0.7
		factors.SourceAuthority = clamp01(factors.SourceAuthority * newsAuthorityBoost)
	}
	return factors
}

// Adjust adds a fixed boost for breaking items so fresh breaking news lands in
// the top tiers regardless of engagement.
func (s *NewsStrategy) Adjust(score float64, rec *domain.ContentRecord) float64 {
	if isBreaking(rec) {
		return score + newsBreakingBoost
	}
	return score
}

// recency uses steep steps: news value collapses within a day and items older
// than a week approach the floor.
func (s *NewsStrategy) recency(rec *domain.ContentRecord) float64 {
	age, ok := ageSince(rec, s.now())
	if !ok {
		return newsNoDateRecency
	}
	hours := age.Hours()
	switch {
	case hours <= 1:
		return 1.0
	case hours <= 6:
		return 0.9
	case hours <= 24:
		return 0.7
	default:
		v := 1 - hours/168
		if v < 0.1 {
			return 0.1
		}
		return v
	}
}

func isBreaking(rec *domain.ContentRecord) bool {
	return titleContainsAny(rec, breakingIndicators) || rec.HasTopic("breaking")
}
