package domain

import "time"

// NoiseType identifies a category of undesirable content detected
// independently of topical relevance.
type NoiseType string

// Noise type constants.
const (
	NoiseExactDuplicate NoiseType = "exact_duplicate"
	NoiseNearDuplicate  NoiseType = "near_duplicate"
	NoiseSpam           NoiseType = "spam"
	NoiseRepetitive     NoiseType = "repetitive"
	NoiseLowQuality     NoiseType = "low_quality"
	NoiseBrokenContent  NoiseType = "broken_content"
)

// FilterAction is the disposition assigned to a record based on its
// aggregated noise score.
type FilterAction string

// Filter action constants.
const (
	ActionAllow    FilterAction = "allow"
	ActionFlag     FilterAction = "flag"
	ActionSuppress FilterAction = "suppress"
)

// SimilarContent references a previously indexed record judged similar to the
// one under analysis.
type SimilarContent struct {
	ItemID     string  `json:"item_id"`
	Similarity float64 `json:"similarity"`
}

// NoiseAssessment is the result of one noise-filter pass over a record.
type NoiseAssessment struct {
	ContentID string `json:"content_id"`

	// NoiseTypes lists every detected category; empty means clean content.
	NoiseTypes []NoiseType `json:"noise_types"`

	// ConfidenceScores holds a 0-1 confidence per detected noise type.
	ConfidenceScores map[NoiseType]float64 `json:"confidence_scores"`

	// SimilarContentIDs lists prior records judged similar, most similar first.
	SimilarContentIDs []SimilarContent `json:"similar_content_ids,omitempty"`

	// OverallNoiseScore aggregates the detected confidences into a 0-1 score.
	OverallNoiseScore float64 `json:"overall_noise_score"`

	// FilterAction is derived from OverallNoiseScore against the configured
	// flag and suppress thresholds.
	FilterAction FilterAction `json:"filter_action"`

	// SpamDensities breaks the spam-family heuristics down per pattern
	// category (promotional, clickbait, engagement_bait) for auditing.
	SpamDensities map[string]float64 `json:"spam_densities,omitempty"`

	Reasoning  string    `json:"reasoning"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// HasNoiseType reports whether the assessment detected the given type.
func (a *NoiseAssessment) HasNoiseType(t NoiseType) bool {
	for _, nt := range a.NoiseTypes {
		if nt == t {
			return true
		}
	}
	return false
}
