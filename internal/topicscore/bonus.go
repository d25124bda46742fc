package topicscore

import (
	"strings"

	"contentsift/internal/domain"
)

// BonusResult is the contribution of a domain bonus scorer to a final score.
// Multiplier applies to the combined score (1.0 is neutral); Additive is added
// after multiplication. Detail itemizes the contributions for the breakdown.
type BonusResult struct {
	Multiplier float64            `json:"multiplier"`
	Additive   float64            `json:"additive"`
	Detail     map[string]float64 `json:"detail,omitempty"`
}

// DomainBonusScorer adjusts scores with domain-specific knowledge the generic
// engine does not have. Implementations must be safe for concurrent use. A
// nil scorer on the engine disables bonuses entirely.
type DomainBonusScorer interface {
	Name() string
	Bonus(rec *domain.ContentRecord, matchedTopics []string) (BonusResult, error)
}

// CategoryBonusScorer boosts content whose title or body mentions configured
// category keywords, with extra additive credit for metadata quality signals.
type CategoryBonusScorer struct {
	// Categories maps lowercase keywords to score multipliers.
	Categories map[string]float64
	// AuthorityBonus is added when source_authority metadata is 0.8 or higher.
	AuthorityBonus float64
	// CompletenessBonus is added when the record has title, content, URL and a
	// publication date.
	CompletenessBonus float64
}

// NewCategoryBonusScorer creates a scorer with neutral bonuses disabled until
// configured.
func NewCategoryBonusScorer(categories map[string]float64) *CategoryBonusScorer {
	return &CategoryBonusScorer{
		Categories:        categories,
		AuthorityBonus:    0.05,
		CompletenessBonus: 0.05,
	}
}

func (s *CategoryBonusScorer) Name() string { return "category_bonus" }

// Bonus never fails; it exists behind the error-returning interface so the
// engine exercises the degradation path with other implementations.
func (s *CategoryBonusScorer) Bonus(rec *domain.ContentRecord, _ []string) (BonusResult, error) {
	result := BonusResult{Multiplier: 1.0, Detail: make(map[string]float64)}
	text := strings.ToLower(rec.Title + " " + rec.Content)

	for keyword, mult := range s.Categories {
		if strings.Contains(text, keyword) && mult > result.Multiplier {
			result.Multiplier = mult
			result.Detail["category_"+keyword] = mult
		}
	}

	if rec.MetaFloat("source_authority", 0) >= 0.8 {
		result.Additive += s.AuthorityBonus
		result.Detail["authority"] = s.AuthorityBonus
	}
	if rec.Title != "" && rec.Content != "" && rec.URL != "" && rec.PublishedAt != nil {
		result.Additive += s.CompletenessBonus
		result.Detail["completeness"] = s.CompletenessBonus
	}

	if len(result.Detail) == 0 {
		result.Detail = nil
	}
	return result, nil
}
