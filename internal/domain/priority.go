package domain

// PriorityLevel is a discrete ordinal tier derived from a continuous score.
type PriorityLevel string

// Priority level constants, ordered from most to least urgent.
const (
	PriorityCritical PriorityLevel = "critical"
	PriorityHigh     PriorityLevel = "high"
	PriorityMedium   PriorityLevel = "medium"
	PriorityLow      PriorityLevel = "low"
	PriorityArchive  PriorityLevel = "archive"
)

// rank maps levels to an ordering usable in tests and sorting.
var levelRank = map[PriorityLevel]int{
	PriorityCritical: 4,
	PriorityHigh:     3,
	PriorityMedium:   2,
	PriorityLow:      1,
	PriorityArchive:  0,
}

// Rank returns the ordinal position of the level (archive=0 .. critical=4).
func (p PriorityLevel) Rank() int {
	return levelRank[p]
}

// PriorityFactors are the named sub-scores a strategy computes for a record.
// Every factor is normalized to [0,1].
type PriorityFactors struct {
	SourceAuthority   float64 `json:"source_authority"`
	ContentRecency    float64 `json:"content_recency"`
	TopicRelevance    float64 `json:"topic_relevance"`
	EngagementSignals float64 `json:"engagement_signals"`
	Uniqueness        float64 `json:"uniqueness"`
	Completeness      float64 `json:"completeness"`
	Actionability     float64 `json:"actionability"`
	CrossTopicValue   float64 `json:"cross_topic_value"`
}

// PriorityResult is the outcome of scoring one record with one strategy.
type PriorityResult struct {
	ItemID        string          `json:"item_id"`
	Strategy      string          `json:"strategy"`
	TotalScore    float64         `json:"total_score"`
	PriorityLevel PriorityLevel   `json:"priority_level"`
	Factors       PriorityFactors `json:"factors"`

	// Reasoning and Recommendations are human-readable and never consumed
	// programmatically downstream.
	Reasoning       string   `json:"reasoning"`
	Recommendations []string `json:"recommendations,omitempty"`
}
