// Package priority scores content records for attention using pluggable
// strategies and maps the result into priority tiers.
package priority

import (
	"fmt"
	"math"
	"strings"
	"time"

	"contentsift/internal/config"
	"contentsift/internal/domain"
)

// StrategyKind identifies a scoring strategy. The set is closed: callers
// select a kind at configuration time and unknown names are rejected by
// ParseStrategy rather than silently falling back.
type StrategyKind string

const (
	StrategyDefault       StrategyKind = "default"
	StrategyNews          StrategyKind = "news"
	StrategyTechnical     StrategyKind = "technical"
	StrategySocialSignals StrategyKind = "social_signals"
)

// ParseStrategy validates a strategy name from configuration or flags.
func ParseStrategy(name string) (StrategyKind, error) {
	switch StrategyKind(strings.ToLower(strings.TrimSpace(name))) {
	case StrategyDefault:
		return StrategyDefault, nil
	case StrategyNews:
		return StrategyNews, nil
	case StrategyTechnical:
		return StrategyTechnical, nil
	case StrategySocialSignals:
		return StrategySocialSignals, nil
	default:
		return "", fmt.Errorf("unknown priority strategy %q", name)
	}
}

// Context carries caller-supplied preference data shared by all strategies.
// Both maps are optional; absent entries fall back to neutral defaults.
type Context struct {
	// TopicPreferences maps lowercase topic name to a preference weight in
	// [0,1]. Record topics are lowercased before lookup, so mixed-case keys
	// never match.
	TopicPreferences map[string]float64
	// SourceAuthority maps source ID to an authority score in [0,1].
	SourceAuthority map[string]float64
}

// Strategy computes the factor breakdown for one record. Implementations are
// pure: the same record and context always produce the same factors.
type Strategy interface {
	Kind() StrategyKind
	Weights() Weights
	Factors(rec *domain.ContentRecord, pctx *Context) domain.PriorityFactors
	// Adjust applies strategy-specific score adjustments after the weighted
	// sum, before clamping. Most strategies return the score unchanged.
	Adjust(score float64, rec *domain.ContentRecord) float64
}

// Weights holds the per-factor weights of a strategy. Each strategy's weights
// sum to 1.0 so the weighted total stays in [0,1] before adjustments.
type Weights struct {
	SourceAuthority   float64
	ContentRecency    float64
	TopicRelevance    float64
	EngagementSignals float64
	Uniqueness        float64
	Completeness      float64
	Actionability     float64
	CrossTopicValue   float64
}

// Sum returns the total of all weights, used by tests to verify each
// strategy's weights are normalized.
func (w Weights) Sum() float64 {
	return w.SourceAuthority + w.ContentRecency + w.TopicRelevance +
		w.EngagementSignals + w.Uniqueness + w.Completeness +
		w.Actionability + w.CrossTopicValue
}

func weightedTotal(w Weights, f domain.PriorityFactors) float64 {
	return w.SourceAuthority*f.SourceAuthority +
		w.ContentRecency*f.ContentRecency +
		w.TopicRelevance*f.TopicRelevance +
		w.EngagementSignals*f.EngagementSignals +
		w.Uniqueness*f.Uniqueness +
		w.Completeness*f.Completeness +
		w.Actionability*f.Actionability +
		w.CrossTopicValue*f.CrossTopicValue
}

func tierFor(score float64, cfg config.PriorityConfig) domain.PriorityLevel {
	switch {
	case score >= cfg.CriticalThreshold:
		return domain.PriorityCritical
	case score >= cfg.HighThreshold:
		return domain.PriorityHigh
	case score >= cfg.MediumThreshold:
		return domain.PriorityMedium
	case score >= cfg.LowThreshold:
		return domain.PriorityLow
	default:
		return domain.PriorityArchive
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ageSince returns the record age relative to now, or false when the record
// has no publication date.
func ageSince(rec *domain.ContentRecord, now time.Time) (time.Duration, bool) {
	if rec.PublishedAt == nil {
		return 0, false
	}
	age := now.Sub(*rec.PublishedAt)
	if age < 0 {
		age = 0
	}
	return age, true
}

// authorityFor resolves the source authority from context, defaulting to a
// neutral midpoint for unknown sources.
func authorityFor(rec *domain.ContentRecord, pctx *Context) float64 {
	if pctx != nil && pctx.SourceAuthority != nil {
		if a, ok := pctx.SourceAuthority[rec.SourceID]; ok {
			return clamp01(a)
		}
	}
	return 0.5
}

// relevanceFor averages topic preferences over the record's topics. Records
// with no topics or no preference data score a neutral 0.5.
func relevanceFor(rec *domain.ContentRecord, pctx *Context) float64 {
	if len(rec.Topics) == 0 || pctx == nil || len(pctx.TopicPreferences) == 0 {
		return 0.5
	}
	total := 0.0
	matched := 0
	for _, topic := range rec.Topics {
		if pref, ok := pctx.TopicPreferences[strings.ToLower(topic)]; ok {
			total += clamp01(pref)
			matched++
		}
	}
	if matched == 0 {
		return 0.3
	}
	return total / float64(matched)
}

// engagementFor prefers a precomputed engagement score in metadata and falls
// back to log-scaled raw metrics.
func engagementFor(rec *domain.ContentRecord) float64 {
	if v := rec.MetaFloat("engagement_score", -1); v >= 0 {
		return clamp01(v)
	}

	score := 0.0
	if rec.Score > 0 {
		score += 0.4 * math.Min(math.Log10(float64(rec.Score)+1)/3, 1)
	}
	if rec.Comments > 0 {
		score += 0.3 * math.Min(math.Log10(float64(rec.Comments)+1)/2, 1)
	}
	if rec.Views > 0 {
		score += 0.3 * math.Min(math.Log10(float64(rec.Views)+1)/5, 1)
	}
	if score == 0 {
		return 0.1
	}
	return clamp01(score)
}

// completenessFor scales with content length up to a saturation point.
func completenessFor(rec *domain.ContentRecord, saturation float64) float64 {
	if rec.Content == "" {
		return 0.1
	}
	return clamp01(float64(len(rec.Content)) / saturation)
}

func titleContainsAny(rec *domain.ContentRecord, terms []string) bool {
	title := strings.ToLower(rec.Title)
	for _, t := range terms {
		if strings.Contains(title, t) {
			return true
		}
	}
	return false
}
