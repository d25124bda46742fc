package priority

import (
	"math"

	"contentsift/internal/domain"
)

const (
	socialRecency      = 0.7
	viralViewThreshold = 50000
	viralShareCount    = 500
)

// SocialSignalsStrategy ranks by community traction. Recency is held at a
// fixed moderate value since engagement metrics already embed time decay.
type SocialSignalsStrategy struct{}

func NewSocialSignalsStrategy() *SocialSignalsStrategy {
	return &SocialSignalsStrategy{}
}

func (s *SocialSignalsStrategy) Kind() StrategyKind { return StrategySocialSignals }

func (s *SocialSignalsStrategy) Weights() Weights {
	return Weights{
		SourceAuthority:   0.10,
		ContentRecency:    0.20,
		TopicRelevance:    0.10,
		EngagementSignals: 0.40,
		Uniqueness:        0.10,
		Completeness:      0.05,
		Actionability:     0.025,
		CrossTopicValue:   0.025,
	}
}

func (s *SocialSignalsStrategy) Factors(rec *domain.ContentRecord, pctx *Context) domain.PriorityFactors {
	factors := domain.PriorityFactors{
		SourceAuthority:   authorityFor(rec, pctx),
		ContentRecency:    socialRecency,
		TopicRelevance:    relevanceFor(rec, pctx),
		EngagementSignals: s.engagement(rec),
		Uniqueness:        0.5,
		Completeness:      completenessFor(rec, defaultCompletenessSaturation),
		Actionability:     0.4,
		CrossTopicValue:   crossTopicFor(rec),
	}

	if s.isViral(rec) {
		factors.Uniqueness = 0.9
	}
	return factors
}

func (s *SocialSignalsStrategy) Adjust(score float64, _ *domain.ContentRecord) float64 {
	return score
}

// engagement blends views, shares and comments, each normalized against a
// saturation point so a single runaway metric cannot dominate alone.
func (s *SocialSignalsStrategy) engagement(rec *domain.ContentRecord) float64 {
	shares := rec.MetaInt("shares", 0)
	v := 0.3*math.Min(float64(rec.Views)/10000, 1) +
		0.4*math.Min(float64(shares)/100, 1) +
		0.3*math.Min(float64(rec.Comments)/50, 1)
	return clamp01(v)
}

func (s *SocialSignalsStrategy) isViral(rec *domain.ContentRecord) bool {
	return rec.Views > viralViewThreshold || rec.MetaInt("shares", 0) > viralShareCount
}
