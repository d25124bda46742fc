package topicscore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"contentsift/internal/config"
	"contentsift/internal/domain"
	"contentsift/internal/logger"
	"contentsift/internal/telemetry"
)

// Base score component weights and saturation points.
const (
	baseScoreFloor = 0.1

	scoreWeight   = 0.4
	scoreCap      = 100.0
	commentWeight = 0.3
	commentCap    = 50.0
	viewWeight    = 0.2
	viewCap       = 10000.0
	upvoteWeight  = 0.1
	upvoteCap     = 100.0

	secondaryRelevanceCap = 0.5
)

// Engine computes the topic-weighted quality score for records:
//
//	final = base × freshness × relevance × priority_boost × bonus_multiplier + domain_bonus
//
// clamped to [0,1], with the full composition retained in the breakdown. The
// bonus scorer is optional; when nil the multiplier is 1.0 and the additive
// term is zero.
type Engine struct {
	cfg       *config.TopicsConfig
	matcher   *Matcher
	bonus     DomainBonusScorer
	logger    logger.Logger
	telemetry *telemetry.Provider
	now       func() time.Time
}

// NewEngine creates a scoring engine over the given topics configuration.
// bonus may be nil.
func NewEngine(cfg *config.TopicsConfig, bonus DomainBonusScorer, log logger.Logger, tp *telemetry.Provider) *Engine {
	return &Engine{
		cfg:       cfg,
		matcher:   NewMatcher(cfg),
		bonus:     bonus,
		logger:    log,
		telemetry: tp,
		now:       time.Now,
	}
}

// ScoreItem computes the final score for one record. A failing bonus scorer
// degrades to a zero bonus rather than failing the item.
func (e *Engine) ScoreItem(ctx context.Context, rec *domain.ContentRecord) (*domain.ScoredContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	matched, secondary := e.matcher.DetectTopics(rec)
	for _, topic := range matched {
		e.telemetry.RecordTopicMatch(topic)
	}

	base := e.baseScore(rec)
	freshness := e.freshnessScore(rec)
	relevance := e.relevanceScore(matched, secondary)
	boost, boosts := e.priorityBoost(matched)
	bonus := e.domainBonus(rec, matched)

	raw := base*freshness*relevance*boost*bonus.Multiplier + bonus.Additive
	final := raw
	if final > 1 {
		final = 1
	}
	if final < 0 {
		final = 0
	}

	scored := &domain.ScoredContent{
		ItemID:        rec.ItemID,
		Title:         rec.Title,
		URL:           rec.URL,
		SourceID:      rec.SourceID,
		Platform:      rec.Platform,
		Topics:        rec.Topics,
		MatchedTopics: matched,
		PriorityScore: raw,
		FinalScore:    final,
		Breakdown: domain.ScoreBreakdown{
			BaseScore:       base,
			FreshnessScore:  freshness,
			RelevanceScore:  relevance,
			PriorityBoost:   boost,
			PriorityBoosts:  boosts,
			BonusMultiplier: bonus.Multiplier,
			DomainBonus:     bonus.Additive,
			Calculation: fmt.Sprintf("%.3f × %.3f × %.3f × %.3f × %.3f + %.3f = %.3f",
				base, freshness, relevance, boost, bonus.Multiplier, bonus.Additive, final),
		},
	}

	e.telemetry.RecordScoring("topic_engine", time.Since(start))
	return scored, nil
}

// ScoreBatch scores a batch and returns results ordered by descending final
// score, ties keeping input order. Items that fail to score are skipped.
func (e *Engine) ScoreBatch(ctx context.Context, recs []*domain.ContentRecord) ([]*domain.ScoredContent, error) {
	results := make([]*domain.ScoredContent, 0, len(recs))
	for _, rec := range recs {
		scored, err := e.ScoreItem(ctx, rec)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			e.logger.Warn("skipping item in scoring batch",
				logger.String("item_id", rec.ItemID),
				logger.Error(err),
			)
			continue
		}
		results = append(results, scored)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	e.telemetry.RecordBatch(len(results))
	return results, nil
}

// Report summarizes a scored batch: counts, top items and per-topic match
// totals. topN bounds how many items are listed.
func (e *Engine) Report(scored []*domain.ScoredContent, topN int) string {
	if len(scored) == 0 {
		return "no items scored"
	}

	topicCounts := make(map[string]int)
	sum := 0.0
	for _, s := range scored {
		sum += s.FinalScore
		for _, t := range s.MatchedTopics {
			topicCounts[t]++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "scored %d items, average %.3f\n", len(scored), sum/float64(len(scored)))

	if topN > len(scored) {
		topN = len(scored)
	}
	fmt.Fprintf(&b, "top %d:\n", topN)
	for _, s := range scored[:topN] {
		fmt.Fprintf(&b, "  %.3f  %s  [%s]\n", s.FinalScore, s.Title, strings.Join(s.MatchedTopics, ", "))
	}

	topics := make([]string, 0, len(topicCounts))
	for t := range topicCounts {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	for _, t := range topics {
		fmt.Fprintf(&b, "topic %s: %d matches\n", t, topicCounts[t])
	}
	return b.String()
}

// baseScore blends engagement metrics, each normalized against its own
// saturation cap, with a floor so zero-engagement items remain rankable.
func (e *Engine) baseScore(rec *domain.ContentRecord) float64 {
	score := scoreWeight*math.Min(float64(rec.Score)/scoreCap, 1) +
		commentWeight*math.Min(float64(rec.Comments)/commentCap, 1) +
		viewWeight*math.Min(float64(rec.Views)/viewCap, 1) +
		upvoteWeight*math.Min(float64(rec.Upvotes)/upvoteCap, 1)
	if score < baseScoreFloor {
		return baseScoreFloor
	}
	return score
}

// freshnessScore applies the configured step decay by publication age.
func (e *Engine) freshnessScore(rec *domain.ContentRecord) float64 {
	if rec.PublishedAt == nil {
		return e.cfg.Freshness.Unknown
	}
	age := e.now().Sub(*rec.PublishedAt)
	switch {
	case age < 24*time.Hour:
		return e.cfg.Freshness.Under24h
	case age < 3*24*time.Hour:
		return e.cfg.Freshness.Days1to3
	case age < 7*24*time.Hour:
		return e.cfg.Freshness.Days3to7
	case age < 30*24*time.Hour:
		return e.cfg.Freshness.Days7to30
	default:
		return e.cfg.Freshness.Over30d
	}
}

// relevanceScore is the fraction of configured priority topics matched.
// Secondary-only matches are worth half a priority match, capped below any
// priority match.
func (e *Engine) relevanceScore(matched, secondary []string) float64 {
	total := len(e.cfg.PriorityTopics)
	if len(matched) > 0 && total > 0 {
		return float64(len(matched)) / float64(total)
	}
	if len(secondary) > 0 {
		v := float64(len(secondary)) * 0.5 / math.Max(float64(len(e.cfg.SecondaryTopics)), 1)
		if v > secondaryRelevanceCap {
			return secondaryRelevanceCap
		}
		return v
	}
	return 0
}

// priorityBoost is the strongest applicable boost: the heaviest matched topic
// weight, or a combination's weight plus bonus multiplier when all of its
// required topics matched. Neutral is 1.0.
func (e *Engine) priorityBoost(matched []string) (float64, map[string]float64) {
	boost := 1.0
	boosts := make(map[string]float64)

	matchedSet := make(map[string]bool, len(matched))
	for _, t := range matched {
		matchedSet[t] = true
		if def, ok := e.cfg.PriorityTopics[t]; ok {
			boosts[t] = def.Weight
			if def.Weight > boost {
				boost = def.Weight
			}
		}
	}

	for name, combo := range e.cfg.Combinations {
		all := true
		for _, t := range combo.RequiredTopics {
			if !matchedSet[t] {
				all = false
				break
			}
		}
		if !all {
			continue
		}
		comboBoost := combo.Weight + combo.BonusMultiplier
		boosts["combo_"+name] = comboBoost
		if comboBoost > boost {
			boost = comboBoost
		}
	}

	if len(boosts) == 0 {
		boosts = nil
	}
	return boost, boosts
}

// domainBonus runs the optional bonus scorer, degrading to neutral on error.
func (e *Engine) domainBonus(rec *domain.ContentRecord, matched []string) BonusResult {
	if e.bonus == nil {
		return BonusResult{Multiplier: 1.0}
	}
	result, err := e.bonus.Bonus(rec, matched)
	if err != nil {
		e.logger.Warn("domain bonus scorer failed, scoring without bonus",
			logger.String("item_id", rec.ItemID),
			logger.String("scorer", e.bonus.Name()),
			logger.Error(err),
		)
		return BonusResult{Multiplier: 1.0}
	}
	if result.Multiplier <= 0 {
		result.Multiplier = 1.0
	}
	return result
}
