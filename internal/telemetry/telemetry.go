// Package telemetry provides OpenTelemetry instrumentation for the scoring
// pipeline. It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "contentsift"

// Metrics holds all pipeline Prometheus metrics.
type Metrics struct {
	// Noise filter metrics
	ItemsAnalyzed  prometheus.Counter
	NoiseDetected  *prometheus.CounterVec
	FilterActions  *prometheus.CounterVec
	AnalyzeSeconds prometheus.Histogram

	// Scoring metrics
	ItemsScored    *prometheus.CounterVec
	ScoringSeconds *prometheus.HistogramVec
	TopicMatches   *prometheus.CounterVec

	// Batch metrics
	BatchSize prometheus.Histogram
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics.
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for a /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}

	m.ItemsAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contentsift_items_analyzed_total",
		Help: "Total records passed through the noise filter",
	})

	m.NoiseDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contentsift_noise_detected_total",
		Help: "Total noise detections by noise type",
	}, []string{"noise_type"})

	m.FilterActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contentsift_filter_actions_total",
		Help: "Filter dispositions by action (allow, flag, suppress)",
	}, []string{"action"})

	m.AnalyzeSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "contentsift_noise_analyze_duration_seconds",
		Help:    "Time to run noise analysis for a single record",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	m.ItemsScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contentsift_items_scored_total",
		Help: "Total records scored, by strategy or engine",
	}, []string{"scorer"})

	m.ScoringSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "contentsift_scoring_duration_seconds",
		Help:    "Time to score a single record",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}, []string{"scorer"})

	m.TopicMatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contentsift_topic_matches_total",
		Help: "Priority topic detections by topic",
	}, []string{"topic"})

	m.BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "contentsift_batch_size",
		Help:    "Number of records per pipeline batch",
		Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000},
	})

	return m
}

// RecordAnalysis records one noise-filter pass.
func (p *Provider) RecordAnalysis(duration time.Duration, noiseTypes []string, action string) {
	if p == nil || p.Metrics == nil {
		return
	}
	p.Metrics.ItemsAnalyzed.Inc()
	p.Metrics.AnalyzeSeconds.Observe(duration.Seconds())
	for _, nt := range noiseTypes {
		p.Metrics.NoiseDetected.WithLabelValues(nt).Inc()
	}
	p.Metrics.FilterActions.WithLabelValues(action).Inc()
}

// RecordScoring records one scoring pass for the named scorer.
func (p *Provider) RecordScoring(scorer string, duration time.Duration) {
	if p == nil || p.Metrics == nil {
		return
	}
	p.Metrics.ItemsScored.WithLabelValues(scorer).Inc()
	p.Metrics.ScoringSeconds.WithLabelValues(scorer).Observe(duration.Seconds())
}

// RecordTopicMatch records a priority-topic detection.
func (p *Provider) RecordTopicMatch(topic string) {
	if p == nil || p.Metrics == nil {
		return
	}
	p.Metrics.TopicMatches.WithLabelValues(topic).Inc()
}

// RecordBatch records the size of a pipeline batch.
func (p *Provider) RecordBatch(size int) {
	if p == nil || p.Metrics == nil {
		return
	}
	p.Metrics.BatchSize.Observe(float64(size))
}
