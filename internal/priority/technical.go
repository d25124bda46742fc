package priority

import (
	"time"

	"contentsift/internal/domain"
)

const (
	technicalNoDateRecency          = 0.4
	technicalRecencyFloor           = 0.3
	technicalCompletenessSaturation = 2000.0
	technicalRecencyWindowDays      = 90.0
)

var technicalActionableTerms = []string{"tutorial", "guide", "how to", "walkthrough", "deep dive"}

// TechnicalStrategy favors depth over speed: completeness and actionability
// carry most of the weight and recency decays over months, not hours.
type TechnicalStrategy struct {
	now func() time.Time
}

func NewTechnicalStrategy() *TechnicalStrategy {
	return &TechnicalStrategy{now: time.Now}
}

func (s *TechnicalStrategy) Kind() StrategyKind { return StrategyTechnical }

func (s *TechnicalStrategy) Weights() Weights {
	return Weights{
		SourceAuthority:   0.10,
		ContentRecency:    0.10,
		TopicRelevance:    0.15,
		EngagementSignals: 0.05,
		Uniqueness:        0.05,
		Completeness:      0.30,
		Actionability:     0.20,
		CrossTopicValue:   0.05,
	}
}

func (s *TechnicalStrategy) Factors(rec *domain.ContentRecord, pctx *Context) domain.PriorityFactors {
	return domain.PriorityFactors{
		SourceAuthority:   authorityFor(rec, pctx),
		ContentRecency:    s.recency(rec),
		TopicRelevance:    relevanceFor(rec, pctx),
		EngagementSignals: engagementFor(rec),
		Uniqueness:        0.5,
		Completeness:      completenessFor(rec, technicalCompletenessSaturation),
		Actionability:     s.actionability(rec),
		CrossTopicValue:   crossTopicFor(rec),
	}
}

func (s *TechnicalStrategy) Adjust(score float64, _ *domain.ContentRecord) float64 {
	return score
}

// recency decays linearly over a 90 day window with a floor: a thorough guide
// stays valuable long after publication.
func (s *TechnicalStrategy) recency(rec *domain.ContentRecord) float64 {
	age, ok := ageSince(rec, s.now())
	if !ok {
		return technicalNoDateRecency
	}
	days := age.Hours() / 24
	v := 1 - days/technicalRecencyWindowDays
	if v < technicalRecencyFloor {
		return technicalRecencyFloor
	}
	return v
}

func (s *TechnicalStrategy) actionability(rec *domain.ContentRecord) float64 {
	if titleContainsAny(rec, technicalActionableTerms) {
		return 0.9
	}
	return 0.4
}
