package topicscore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentsift/internal/config"
	"contentsift/internal/domain"
	"contentsift/internal/logger"
)

func testTopicsConfig() *config.TopicsConfig {
	return &config.TopicsConfig{
		PriorityTopics: map[string]config.TopicDefinition{
			"machine-learning": {
				Aliases:  []string{"ml", "deep learning"},
				Keywords: []string{"neural network", "transformer"},
				Weight:   1.5,
			},
			"golang": {
				Aliases:  []string{"go"},
				Keywords: []string{"goroutine"},
				Weight:   1.0,
			},
		},
		SecondaryTopics: map[string]config.SecondaryTopic{
			"databases": {Keywords: []string{"postgres", "sqlite"}},
		},
		Combinations: map[string]config.TopicCombination{
			"ml_in_go": {
				RequiredTopics:  []string{"machine-learning", "golang"},
				Weight:          1.0,
				BonusMultiplier: 0.2,
			},
		},
		Freshness: config.FreshnessDecay{
			Under24h:  1.0,
			Days1to3:  0.8,
			Days3to7:  0.6,
			Days7to30: 0.4,
			Over30d:   0.2,
			Unknown:   0.5,
		},
	}
}

func newTestEngine(bonus DomainBonusScorer) *Engine {
	return NewEngine(testTopicsConfig(), bonus, logger.NewNop(), nil)
}

func timePtr(t time.Time) *time.Time { return &t }

func mlRecord() *domain.ContentRecord {
	return &domain.ContentRecord{
		ItemID:      "ml-1",
		SourceID:    "arxiv",
		URL:         "https://example.com/ml",
		Title:       "Transformer Architectures Explained",
		Content:     "A walkthrough of attention and the transformer architecture used in modern machine learning systems.",
		Score:       50,
		Comments:    25,
		Views:       5000,
		Upvotes:     50,
		PublishedAt: timePtr(time.Now().Add(-2 * time.Hour)),
	}
}

func TestDetectTopicsAliases(t *testing.T) {
	m := NewMatcher(testTopicsConfig())

	rec := &domain.ContentRecord{
		Title:   "Why Deep Learning Took Over",
		Content: "The history of neural network research.",
	}
	priority, _ := m.DetectTopics(rec)
	assert.Equal(t, []string{"machine-learning"}, priority)
}

func TestDetectTopicsHyphenForm(t *testing.T) {
	m := NewMatcher(testTopicsConfig())

	rec := &domain.ContentRecord{Title: "Machine Learning in Production"}
	priority, _ := m.DetectTopics(rec)
	assert.Contains(t, priority, "machine-learning")
}

func TestDetectTopicsFromRecordTags(t *testing.T) {
	m := NewMatcher(testTopicsConfig())

	rec := &domain.ContentRecord{
		Title:  "Weekly Roundup",
		Topics: []string{"golang"},
	}
	priority, _ := m.DetectTopics(rec)
	assert.Equal(t, []string{"golang"}, priority)
}

func TestDetectTopicsSecondary(t *testing.T) {
	m := NewMatcher(testTopicsConfig())

	rec := &domain.ContentRecord{Title: "Tuning Postgres for Analytics"}
	priority, secondary := m.DetectTopics(rec)
	assert.Empty(t, priority)
	assert.Equal(t, []string{"databases"}, secondary)
}

func TestScoreItemBreakdown(t *testing.T) {
	e := newTestEngine(nil)

	scored, err := e.ScoreItem(context.Background(), mlRecord())
	require.NoError(t, err)

	b := scored.Breakdown
	assert.Greater(t, b.BaseScore, 0.1)
	assert.Equal(t, 1.0, b.FreshnessScore)
	assert.Equal(t, 0.5, b.RelevanceScore, "one of two priority topics matched")
	assert.Equal(t, 1.5, b.PriorityBoost)
	assert.Equal(t, 1.0, b.BonusMultiplier, "no scorer configured is a neutral multiplier")
	assert.Equal(t, 0.0, b.DomainBonus)
	assert.Contains(t, b.Calculation, "=")

	want := b.BaseScore*b.FreshnessScore*b.RelevanceScore*b.PriorityBoost*b.BonusMultiplier + b.DomainBonus
	assert.InDelta(t, want, scored.PriorityScore, 1e-9)
}

func TestScoreCombinationBonus(t *testing.T) {
	e := newTestEngine(nil)

	both := mlRecord()
	both.ItemID = "both"
	both.Content += " The reference implementation uses a goroutine pool in Go."

	onlyML := mlRecord()
	onlyML.ItemID = "only-ml"

	bothScored, err := e.ScoreItem(context.Background(), both)
	require.NoError(t, err)
	mlScored, err := e.ScoreItem(context.Background(), onlyML)
	require.NoError(t, err)

	// Combination weight 1.0 + bonus multiplier 0.2 beats the strongest
	// single-topic weight of 1.5 only via the recorded boost map; the applied
	// boost is the maximum of the two.
	assert.Contains(t, bothScored.Breakdown.PriorityBoosts, "combo_ml_in_go")
	assert.Equal(t, 1.2, bothScored.Breakdown.PriorityBoosts["combo_ml_in_go"])
	assert.Greater(t, bothScored.FinalScore, 0.0)
	assert.GreaterOrEqual(t, bothScored.Breakdown.RelevanceScore, mlScored.Breakdown.RelevanceScore)
}

func TestCombinationBeatsSingleTopicWhenHeavier(t *testing.T) {
	cfg := testTopicsConfig()
	cfg.Combinations["ml_in_go"] = config.TopicCombination{
		RequiredTopics:  []string{"machine-learning", "golang"},
		Weight:          1.6,
		BonusMultiplier: 0.2,
	}
	e := NewEngine(cfg, nil, logger.NewNop(), nil)

	both := mlRecord()
	both.Content += " Written in Go with goroutine workers."

	scored, err := e.ScoreItem(context.Background(), both)
	require.NoError(t, err)
	assert.Equal(t, 1.8, scored.Breakdown.PriorityBoost)
}

func TestFreshnessSteps(t *testing.T) {
	e := newTestEngine(nil)
	now := time.Now()

	tests := []struct {
		age  time.Duration
		want float64
	}{
		{2 * time.Hour, 1.0},
		{2 * 24 * time.Hour, 0.8},
		{5 * 24 * time.Hour, 0.6},
		{20 * 24 * time.Hour, 0.4},
		{60 * 24 * time.Hour, 0.2},
	}
	for _, tt := range tests {
		rec := &domain.ContentRecord{PublishedAt: timePtr(now.Add(-tt.age))}
		assert.Equal(t, tt.want, e.freshnessScore(rec), "age %s", tt.age)
	}

	assert.Equal(t, 0.5, e.freshnessScore(&domain.ContentRecord{}), "unknown date")
}

func TestBaseScoreFloor(t *testing.T) {
	e := newTestEngine(nil)

	rec := &domain.ContentRecord{ItemID: "cold", Title: "No Engagement Yet"}
	assert.Equal(t, 0.1, e.baseScore(rec))
}

func TestScoreSaturationAtOne(t *testing.T) {
	e := newTestEngine(nil)

	// Extreme engagement with full freshness and a heavy boost clamps at 1.0;
	// the raw product is preserved in PriorityScore.
	rec := mlRecord()
	rec.Score = 100000
	rec.Comments = 5000
	rec.Views = 1000000
	rec.Upvotes = 10000
	rec.Content += " deep learning neural network transformer goroutine go"

	scored, err := e.ScoreItem(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, 1.0, scored.FinalScore)
	assert.GreaterOrEqual(t, scored.PriorityScore, scored.FinalScore)
}

func TestEmptyTopicsConfig(t *testing.T) {
	e := NewEngine(&config.TopicsConfig{
		Freshness: config.FreshnessDecay{Unknown: 0.5, Under24h: 1.0},
	}, nil, logger.NewNop(), nil)

	scored, err := e.ScoreItem(context.Background(), mlRecord())
	require.NoError(t, err)

	assert.Empty(t, scored.MatchedTopics)
	assert.Equal(t, 0.0, scored.Breakdown.RelevanceScore)
	assert.Equal(t, 1.0, scored.Breakdown.PriorityBoost)
	assert.Equal(t, 0.0, scored.FinalScore, "no relevance zeroes the product")
}

func TestNilBonusScorerNeutral(t *testing.T) {
	withNil := newTestEngine(nil)
	rec := mlRecord()

	scored, err := withNil.ScoreItem(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, 0.0, scored.Breakdown.DomainBonus)
}

func TestBreakdownReproducesScoreWithMultiplier(t *testing.T) {
	scorer := NewCategoryBonusScorer(map[string]float64{"machine learning": 1.4})
	e := newTestEngine(scorer)

	rec := mlRecord()
	scored, err := e.ScoreItem(context.Background(), rec)
	require.NoError(t, err)

	b := scored.Breakdown
	assert.Equal(t, 1.4, b.BonusMultiplier)

	// The retained breakdown must reconstruct the raw score exactly.
	want := b.BaseScore*b.FreshnessScore*b.RelevanceScore*b.PriorityBoost*b.BonusMultiplier + b.DomainBonus
	assert.InDelta(t, want, scored.PriorityScore, 1e-9)
	assert.Contains(t, b.Calculation, "1.400")
}

type failingBonus struct{}

func (failingBonus) Name() string { return "failing" }
func (failingBonus) Bonus(*domain.ContentRecord, []string) (BonusResult, error) {
	return BonusResult{}, errors.New("backend unavailable")
}

func TestFailingBonusScorerDegrades(t *testing.T) {
	withBonus := newTestEngine(failingBonus{})
	withoutBonus := newTestEngine(nil)
	rec := mlRecord()

	a, err := withBonus.ScoreItem(context.Background(), rec)
	require.NoError(t, err)
	b, err := withoutBonus.ScoreItem(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, b.FinalScore, a.FinalScore, "failed bonus must not change the score")
}

func TestCategoryBonusScorer(t *testing.T) {
	s := NewCategoryBonusScorer(map[string]float64{"security": 1.3})

	rec := mlRecord()
	rec.Content += " with a focus on security hardening"
	rec.Metadata = map[string]any{"source_authority": 0.9}

	result, err := s.Bonus(rec, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.3, result.Multiplier)
	assert.InDelta(t, 0.10, result.Additive, 1e-9, "authority and completeness bonuses")
}

func TestScoreBatchOrdering(t *testing.T) {
	e := newTestEngine(nil)

	cold := &domain.ContentRecord{ItemID: "cold", Title: "Unrelated Post About Gardening", Content: "Tomatoes and soil."}
	hot := mlRecord()

	results, err := e.ScoreBatch(context.Background(), []*domain.ContentRecord{cold, hot})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "ml-1", results[0].ItemID)
	assert.GreaterOrEqual(t, results[0].FinalScore, results[1].FinalScore)
}

func TestReport(t *testing.T) {
	e := newTestEngine(nil)

	results, err := e.ScoreBatch(context.Background(), []*domain.ContentRecord{mlRecord()})
	require.NoError(t, err)

	report := e.Report(results, 5)
	assert.True(t, strings.Contains(report, "scored 1 items"))
	assert.True(t, strings.Contains(report, "machine-learning"))

	assert.Equal(t, "no items scored", e.Report(nil, 5))
}
