package priority

import (
	"math"
	"time"

	"contentsift/internal/domain"
)

const (
	// Recency half-life for the default strategy, in hours.
	defaultRecencyHalfLife = 48.0
	defaultNoDateRecency   = 0.3

	defaultCompletenessSaturation = 1500.0
)

// DefaultStrategy balances all factors with a mild emphasis on recency and
// relevance. It is the strategy used when the caller expresses no preference.
type DefaultStrategy struct {
	halfLife float64
	now      func() time.Time
}

func NewDefaultStrategy() *DefaultStrategy {
	return NewDefaultStrategyWithHalfLife(defaultRecencyHalfLife)
}

// NewDefaultStrategyWithHalfLife overrides the recency half-life, in hours.
func NewDefaultStrategyWithHalfLife(hours float64) *DefaultStrategy {
	if hours <= 0 {
		hours = defaultRecencyHalfLife
	}
	return &DefaultStrategy{halfLife: hours, now: time.Now}
}

func (s *DefaultStrategy) Kind() StrategyKind { return StrategyDefault }

func (s *DefaultStrategy) Weights() Weights {
	return Weights{
		SourceAuthority:   0.20,
		ContentRecency:    0.25,
		TopicRelevance:    0.20,
		EngagementSignals: 0.10,
		Uniqueness:        0.10,
		Completeness:      0.05,
		Actionability:     0.05,
		CrossTopicValue:   0.05,
	}
}

func (s *DefaultStrategy) Factors(rec *domain.ContentRecord, pctx *Context) domain.PriorityFactors {
	return domain.PriorityFactors{
		SourceAuthority:   authorityFor(rec, pctx),
		ContentRecency:    s.recency(rec),
		TopicRelevance:    relevanceFor(rec, pctx),
		EngagementSignals: engagementFor(rec),
		Uniqueness:        0.5,
		Completeness:      completenessFor(rec, defaultCompletenessSaturation),
		Actionability:     actionabilityFor(rec),
		CrossTopicValue:   crossTopicFor(rec),
	}
}

func (s *DefaultStrategy) Adjust(score float64, _ *domain.ContentRecord) float64 {
	return score
}

// recency decays exponentially with the configured half-life.
func (s *DefaultStrategy) recency(rec *domain.ContentRecord) float64 {
	age, ok := ageSince(rec, s.now())
	if !ok {
		return defaultNoDateRecency
	}
	return math.Pow(0.5, age.Hours()/s.halfLife)
}

var actionableTerms = []string{"how to", "tutorial", "guide", "tips", "announcement", "release"}

func actionabilityFor(rec *domain.ContentRecord) float64 {
	if titleContainsAny(rec, actionableTerms) {
		return 0.8
	}
	return 0.4
}

// crossTopicFor rewards items spanning multiple topics.
func crossTopicFor(rec *domain.ContentRecord) float64 {
	switch {
	case len(rec.Topics) >= 3:
		return 0.9
	case len(rec.Topics) == 2:
		return 0.7
	default:
		return 0.4
	}
}
