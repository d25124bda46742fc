package priority

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"contentsift/internal/config"
	"contentsift/internal/domain"
	"contentsift/internal/logger"
	"contentsift/internal/telemetry"
)

// Prioritizer scores records with a selected strategy and assigns priority
// tiers. All registered strategies share the tier thresholds from
// configuration so results from different strategies are comparable.
type Prioritizer struct {
	strategies map[StrategyKind]Strategy
	cfg        config.PriorityConfig
	logger     logger.Logger
	telemetry  *telemetry.Provider

	statsMu sync.Mutex
	stats   PrioritizerStats
}

// PrioritizerStats aggregates prioritization outcomes.
type PrioritizerStats struct {
	TotalScored  int                          `json:"total_scored"`
	ByLevel      map[domain.PriorityLevel]int `json:"by_level"`
	ByStrategy   map[StrategyKind]int         `json:"by_strategy"`
	AverageScore float64                      `json:"average_score"`

	scoreSum float64
}

// NewPrioritizer creates a prioritizer with all built-in strategies
// registered.
func NewPrioritizer(cfg config.PriorityConfig, log logger.Logger, tp *telemetry.Provider) *Prioritizer {
	strategies := map[StrategyKind]Strategy{
		StrategyDefault:       NewDefaultStrategyWithHalfLife(cfg.RecencyHalfLifeHours),
		StrategyNews:          NewNewsStrategy(),
		StrategyTechnical:     NewTechnicalStrategy(),
		StrategySocialSignals: NewSocialSignalsStrategy(),
	}
	return &Prioritizer{
		strategies: strategies,
		cfg:        cfg,
		logger:     log,
		telemetry:  tp,
		stats: PrioritizerStats{
			ByLevel:    make(map[domain.PriorityLevel]int),
			ByStrategy: make(map[StrategyKind]int),
		},
	}
}

// Prioritize scores one record with the given strategy. Scoring is
// deterministic for a fixed clock: repeated calls with the same inputs return
// identical results.
func (p *Prioritizer) Prioritize(ctx context.Context, rec *domain.ContentRecord, kind StrategyKind, pctx *Context) (*domain.PriorityResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	strategy, ok := p.strategies[kind]
	if !ok {
		return nil, fmt.Errorf("strategy %q is not registered", kind)
	}

	start := time.Now()
	factors := strategy.Factors(rec, pctx)
	total := clamp01(strategy.Adjust(weightedTotal(strategy.Weights(), factors), rec))
	level := tierFor(total, p.cfg)

	result := &domain.PriorityResult{
		ItemID:          rec.ItemID,
		Strategy:        string(kind),
		TotalScore:      total,
		PriorityLevel:   level,
		Factors:         factors,
		Reasoning:       buildPriorityReasoning(kind, total, level, factors),
		Recommendations: buildRecommendations(level, factors),
	}

	p.recordStats(kind, result)
	p.telemetry.RecordScoring(string(kind), time.Since(start))

	p.logger.Debug("content prioritized",
		logger.String("item_id", rec.ItemID),
		logger.String("strategy", string(kind)),
		logger.Float64("score", total),
		logger.String("level", string(level)),
	)

	return result, nil
}

// PrioritizeBatch scores a batch and returns results ordered by descending
// score. Ties keep input order. Items that fail to score are skipped and the
// batch continues.
func (p *Prioritizer) PrioritizeBatch(ctx context.Context, recs []*domain.ContentRecord, kind StrategyKind, pctx *Context) ([]*domain.PriorityResult, error) {
	if _, ok := p.strategies[kind]; !ok {
		return nil, fmt.Errorf("strategy %q is not registered", kind)
	}

	results := make([]*domain.PriorityResult, 0, len(recs))
	for _, rec := range recs {
		result, err := p.Prioritize(ctx, rec, kind, pctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			p.logger.Warn("skipping item in priority batch",
				logger.String("item_id", rec.ItemID),
				logger.Error(err),
			)
			continue
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})

	p.telemetry.RecordBatch(len(results))
	return results, nil
}

// Strategies lists the registered strategy kinds in deterministic order.
func (p *Prioritizer) Strategies() []StrategyKind {
	kinds := make([]StrategyKind, 0, len(p.strategies))
	for k := range p.strategies {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Stats returns a snapshot of prioritization statistics.
func (p *Prioritizer) Stats() PrioritizerStats {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()

	snapshot := PrioritizerStats{
		TotalScored: p.stats.TotalScored,
		ByLevel:     make(map[domain.PriorityLevel]int, len(p.stats.ByLevel)),
		ByStrategy:  make(map[StrategyKind]int, len(p.stats.ByStrategy)),
	}
	for k, v := range p.stats.ByLevel {
		snapshot.ByLevel[k] = v
	}
	for k, v := range p.stats.ByStrategy {
		snapshot.ByStrategy[k] = v
	}
	if p.stats.TotalScored > 0 {
		snapshot.AverageScore = p.stats.scoreSum / float64(p.stats.TotalScored)
	}
	return snapshot
}

func (p *Prioritizer) recordStats(kind StrategyKind, result *domain.PriorityResult) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()

	p.stats.TotalScored++
	p.stats.scoreSum += result.TotalScore
	p.stats.ByLevel[result.PriorityLevel]++
	p.stats.ByStrategy[kind]++
}

func buildPriorityReasoning(kind StrategyKind, total float64, level domain.PriorityLevel, f domain.PriorityFactors) string {
	top := topFactors(f, 2)
	return fmt.Sprintf("strategy %s scored %.3f (%s); strongest factors: %s",
		kind, total, level, strings.Join(top, ", "))
}

func buildRecommendations(level domain.PriorityLevel, f domain.PriorityFactors) []string {
	var recs []string
	switch level {
	case domain.PriorityCritical:
		recs = append(recs, "surface immediately")
	case domain.PriorityHigh:
		recs = append(recs, "include in next digest")
	case domain.PriorityMedium:
		recs = append(recs, "include if space allows")
	case domain.PriorityLow:
		recs = append(recs, "hold for weekly roundup")
	case domain.PriorityArchive:
		recs = append(recs, "archive without surfacing")
	}

	if f.ContentRecency < 0.3 {
		recs = append(recs, "content is stale; verify it is still accurate before surfacing")
	}
	if f.Completeness < 0.3 {
		recs = append(recs, "content is thin; consider fetching the full article")
	}
	return recs
}

func topFactors(f domain.PriorityFactors, n int) []string {
	type entry struct {
		name  string
		value float64
	}
	entries := []entry{
		{"source_authority", f.SourceAuthority},
		{"content_recency", f.ContentRecency},
		{"topic_relevance", f.TopicRelevance},
		{"engagement_signals", f.EngagementSignals},
		{"uniqueness", f.Uniqueness},
		{"completeness", f.Completeness},
		{"actionability", f.Actionability},
		{"cross_topic_value", f.CrossTopicValue},
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].value > entries[j].value })
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]string, 0, n)
	for _, e := range entries[:n] {
		out = append(out, fmt.Sprintf("%s (%.2f)", e.name, e.value))
	}
	return out
}
