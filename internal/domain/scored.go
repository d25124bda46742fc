package domain

// ScoreBreakdown retains the full multiplicative composition of a final score
// so rankings stay debuggable, not just the number.
type ScoreBreakdown struct {
	BaseScore      float64            `json:"base_score"`
	FreshnessScore float64            `json:"freshness_score"`
	RelevanceScore float64            `json:"relevance_score"`
	PriorityBoost  float64            `json:"priority_boost"`
	PriorityBoosts map[string]float64 `json:"priority_boosts,omitempty"`

	// BonusMultiplier and DomainBonus are the bonus scorer's two
	// contributions: the multiplier applies to the product (1.0 when no
	// scorer is configured), DomainBonus is added after it.
	BonusMultiplier float64 `json:"bonus_multiplier"`
	DomainBonus     float64 `json:"domain_bonus"`

	Calculation string `json:"calculation"`
}

// ScoredContent is the topic/quality engine's result for one record.
type ScoredContent struct {
	ItemID        string   `json:"item_id"`
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	SourceID      string   `json:"source_id"`
	Platform      string   `json:"platform"`
	Topics        []string `json:"topics,omitempty"`
	MatchedTopics []string `json:"matched_topics"`

	// PriorityScore is the raw product before clamping; FinalScore is the
	// reported value, clamped to [0,1].
	PriorityScore float64 `json:"priority_score"`
	FinalScore    float64 `json:"final_score"`

	Breakdown ScoreBreakdown `json:"breakdown"`
}
