// Package pipeline wires the noise filter, priority scoring and topic engine
// into a single ranked batch run.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"contentsift/internal/domain"
	"contentsift/internal/logger"
	"contentsift/internal/noise"
	"contentsift/internal/priority"
	"contentsift/internal/telemetry"
	"contentsift/internal/topicscore"
)

// ItemResult carries everything the pipeline learned about one surviving
// record.
type ItemResult struct {
	Record     *domain.ContentRecord  `json:"record"`
	Noise      domain.NoiseAssessment `json:"noise"`
	Priority   *domain.PriorityResult `json:"priority"`
	TopicScore *domain.ScoredContent  `json:"topic_score"`

	// Flagged marks items that passed the filter but warrant review.
	Flagged bool `json:"flagged"`
	// CombinedScore drives the final ranking: the mean of the priority total
	// and the topic engine's final score.
	CombinedScore float64 `json:"combined_score"`
}

// BatchResult is the outcome of one pipeline run.
type BatchResult struct {
	RunID      string                   `json:"run_id"`
	Strategy   priority.StrategyKind    `json:"strategy"`
	Ranked     []*ItemResult            `json:"ranked"`
	Suppressed []domain.NoiseAssessment `json:"suppressed,omitempty"`
	Flagged    int                      `json:"flagged"`
	StartedAt  time.Time                `json:"started_at"`
	Elapsed    time.Duration            `json:"elapsed"`
}

// Pipeline runs records through noise filtering, priority scoring and topic
// scoring, returning survivors ranked by combined score.
type Pipeline struct {
	filter      *noise.Filter
	prioritizer *priority.Prioritizer
	engine      *topicscore.Engine
	logger      logger.Logger
	telemetry   *telemetry.Provider
}

// New assembles a pipeline from its stages.
func New(filter *noise.Filter, prioritizer *priority.Prioritizer, engine *topicscore.Engine, log logger.Logger, tp *telemetry.Provider) *Pipeline {
	return &Pipeline{
		filter:      filter,
		prioritizer: prioritizer,
		engine:      engine,
		logger:      log,
		telemetry:   tp,
	}
}

// Process runs one batch. Suppressed items are dropped from the ranking but
// their assessments are returned; flagged items stay in the ranking with the
// flag set. Per-item scoring problems skip the item rather than failing the
// batch.
func (p *Pipeline) Process(ctx context.Context, recs []*domain.ContentRecord, kind priority.StrategyKind, pctx *priority.Context) (*BatchResult, error) {
	start := time.Now()

	var span trace.Span
	if p.telemetry != nil && p.telemetry.Tracer != nil {
		ctx, span = p.telemetry.Tracer.Start(ctx, "pipeline.process",
			trace.WithAttributes(
				attribute.Int("batch.size", len(recs)),
				attribute.String("strategy", string(kind)),
			))
		defer span.End()
	}

	result := &BatchResult{
		RunID:     uuid.NewString(),
		Strategy:  kind,
		StartedAt: start,
	}

	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		assessment := p.filter.Analyze(rec)
		if assessment.FilterAction == domain.ActionSuppress {
			result.Suppressed = append(result.Suppressed, assessment)
			continue
		}

		prioResult, err := p.prioritizer.Prioritize(ctx, rec, kind, pctx)
		if err != nil {
			p.logger.Warn("priority scoring failed, skipping item",
				logger.String("item_id", rec.ItemID),
				logger.Error(err),
			)
			continue
		}

		scored, err := p.engine.ScoreItem(ctx, rec)
		if err != nil {
			p.logger.Warn("topic scoring failed, skipping item",
				logger.String("item_id", rec.ItemID),
				logger.Error(err),
			)
			continue
		}

		item := &ItemResult{
			Record:        rec,
			Noise:         assessment,
			Priority:      prioResult,
			TopicScore:    scored,
			Flagged:       assessment.FilterAction == domain.ActionFlag,
			CombinedScore: (prioResult.TotalScore + scored.FinalScore) / 2,
		}
		if item.Flagged {
			result.Flagged++
		}
		result.Ranked = append(result.Ranked, item)
	}

	sort.SliceStable(result.Ranked, func(i, j int) bool {
		return result.Ranked[i].CombinedScore > result.Ranked[j].CombinedScore
	})

	result.Elapsed = time.Since(start)

	p.logger.Info("pipeline batch complete",
		logger.String("run_id", result.RunID),
		logger.String("strategy", string(kind)),
		logger.Int("input", len(recs)),
		logger.Int("ranked", len(result.Ranked)),
		logger.Int("suppressed", len(result.Suppressed)),
		logger.Int("flagged", result.Flagged),
		logger.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// Summary renders a short human-readable report of a batch run.
func (p *Pipeline) Summary(result *BatchResult) string {
	return fmt.Sprintf("run %s: %d ranked, %d suppressed, %d flagged in %s",
		result.RunID, len(result.Ranked), len(result.Suppressed), result.Flagged, result.Elapsed.Round(time.Millisecond))
}
