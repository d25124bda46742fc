// Package noise classifies content records into noise categories (duplicates,
// spam, repetition, broken content) and decides a filter action for each.
package noise

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"contentsift/internal/config"
	"contentsift/internal/domain"
	"contentsift/internal/fingerprint"
	"contentsift/internal/logger"
	"contentsift/internal/telemetry"
)

const (
	brokenContentConfidence = 0.9
	// Sentences shorter than this are skipped by the repetition heuristic.
	minSentenceLength = 10
	minSentenceCount  = 3
	// Engagement-bait phrases are rare enough that raw density understates
	// them; the density is amplified before capping at 1.0.
	lowQualityAmplifier = 2.0
)

// Filter analyzes records for noise. The duplicate-history index is injected
// so the caller owns its lifetime; the filter itself holds only configuration
// and aggregate statistics.
type Filter struct {
	index     *Index
	cfg       config.NoiseConfig
	logger    logger.Logger
	telemetry *telemetry.Provider

	promotional    *patternSet
	clickbait      *patternSet
	engagementBait *patternSet

	statsMu sync.Mutex
	stats   Stats
}

// Stats aggregates noise detection outcomes since the filter was created.
type Stats struct {
	TotalAnalyzed     int                         `json:"total_analyzed"`
	NoiseDetected     int                         `json:"noise_detected"`
	AverageNoiseScore float64                     `json:"average_noise_score"`
	Actions           map[domain.FilterAction]int `json:"actions"`
	NoiseTypes        map[domain.NoiseType]int    `json:"noise_types"`

	noiseScoreSum float64
}

// NewFilter creates a noise filter over the given history index.
func NewFilter(index *Index, cfg config.NoiseConfig, log logger.Logger, tp *telemetry.Provider) *Filter {
	return &Filter{
		index:          index,
		cfg:            cfg,
		logger:         log,
		telemetry:      tp,
		promotional:    newPatternSet(promotionalPatterns),
		clickbait:      newPatternSet(clickbaitPatterns),
		engagementBait: newPatternSet(engagementBaitPatterns),
		stats: Stats{
			Actions:    make(map[domain.FilterAction]int),
			NoiseTypes: make(map[domain.NoiseType]int),
		},
	}
}

// Analyze classifies one record and unconditionally adds it to the history
// index, so later near-identical items are still caught even when this one is
// suppressed. It never fails: missing fields degrade to documented defaults
// and the result is always well formed.
func (f *Filter) Analyze(rec *domain.ContentRecord) domain.NoiseAssessment {
	start := time.Now()

	assessment := domain.NoiseAssessment{
		ContentID:        rec.ItemID,
		ConfidenceScores: make(map[domain.NoiseType]float64),
		AnalyzedAt:       start,
	}

	fp := fingerprint.Exact(rec)
	sig := fingerprint.NewSignature(rec)
	exactIDs, nearMatches := f.index.Observe(rec.ItemID, fp, sig, f.cfg.NearDuplicateThreshold)

	// 1. Exact duplicates take precedence; near-duplicate comparison only
	// applies when the record is not byte-identical to a prior one.
	switch {
	case len(exactIDs) > 0:
		assessment.NoiseTypes = append(assessment.NoiseTypes, domain.NoiseExactDuplicate)
		assessment.ConfidenceScores[domain.NoiseExactDuplicate] = 1.0
		for _, id := range exactIDs {
			assessment.SimilarContentIDs = append(assessment.SimilarContentIDs,
				domain.SimilarContent{ItemID: id, Similarity: 1.0})
		}
	case len(nearMatches) > 0 && len(rec.Content) >= f.cfg.MinContentLength:
		assessment.NoiseTypes = append(assessment.NoiseTypes, domain.NoiseNearDuplicate)
		assessment.ConfidenceScores[domain.NoiseNearDuplicate] = nearMatches[0].Similarity
		assessment.SimilarContentIDs = nearMatches
	}

	// 2. Spam heuristics, independent of duplication.
	f.detectSpam(rec, &assessment)

	// 3. Repetition heuristic.
	if rep := f.repetitionScore(rec.Content); rep >= f.cfg.RepetitionThreshold {
		assessment.NoiseTypes = append(assessment.NoiseTypes, domain.NoiseRepetitive)
		assessment.ConfidenceScores[domain.NoiseRepetitive] = rep
	}

	// 4. Structural quality heuristic.
	if f.isBrokenContent(rec) {
		assessment.NoiseTypes = append(assessment.NoiseTypes, domain.NoiseBrokenContent)
		assessment.ConfidenceScores[domain.NoiseBrokenContent] = brokenContentConfidence
	}

	// 5. Aggregate via probabilistic OR: monotonically non-decreasing in the
	// number and confidence of detected noise types.
	assessment.OverallNoiseScore = combineConfidences(assessment.ConfidenceScores)
	assessment.FilterAction = f.actionFor(assessment.OverallNoiseScore)
	assessment.Reasoning = buildReasoning(&assessment)

	f.recordStats(&assessment)
	f.telemetry.RecordAnalysis(time.Since(start), noiseTypeStrings(assessment.NoiseTypes), string(assessment.FilterAction))

	f.logger.Debug("noise analysis complete",
		logger.String("content_id", rec.ItemID),
		logger.Int("noise_types", len(assessment.NoiseTypes)),
		logger.Float64("noise_score", assessment.OverallNoiseScore),
		logger.String("action", string(assessment.FilterAction)),
	)

	return assessment
}

// ShouldFilter reports whether the record should be dropped outright, along
// with the full assessment.
func (f *Filter) ShouldFilter(rec *domain.ContentRecord) (bool, domain.NoiseAssessment) {
	assessment := f.Analyze(rec)
	return assessment.FilterAction == domain.ActionSuppress, assessment
}

// detectSpam runs the promotional, clickbait and engagement-bait matchers.
// Promotional and clickbait densities combine into the spam confidence;
// engagement bait maps to low-quality. Per-category densities are retained in
// the assessment for auditing.
func (f *Filter) detectSpam(rec *domain.ContentRecord, assessment *domain.NoiseAssessment) {
	fullText := strings.ToLower(rec.Title + " " + rec.Content)
	titleText := strings.ToLower(rec.Title)
	wordCount := len(strings.Fields(fullText))
	titleWords := len(strings.Fields(titleText))

	promoDensity, _ := f.promotional.scan(fullText, wordCount)
	clickDensity, _ := f.clickbait.scan(titleText, titleWords)
	baitDensity, _ := f.engagementBait.scan(fullText, wordCount)

	densities := make(map[string]float64)
	if promoDensity > 0 {
		densities["promotional"] = promoDensity
	}
	if clickDensity > 0 {
		densities["clickbait"] = clickDensity
	}
	if baitDensity > 0 {
		densities["engagement_bait"] = baitDensity
	}
	if len(densities) > 0 {
		assessment.SpamDensities = densities
	}

	if spamConf := maxFloat(promoDensity, clickDensity); spamConf > 0 {
		assessment.NoiseTypes = append(assessment.NoiseTypes, domain.NoiseSpam)
		assessment.ConfidenceScores[domain.NoiseSpam] = spamConf
	}

	if baitDensity > 0 {
		conf := baitDensity * lowQualityAmplifier
		if conf > 1.0 {
			conf = 1.0
		}
		assessment.NoiseTypes = append(assessment.NoiseTypes, domain.NoiseLowQuality)
		assessment.ConfidenceScores[domain.NoiseLowQuality] = conf
	}
}

// repetitionScore splits content into sentences and returns the fraction of
// sentences that are near-duplicates of another sentence in the same record.
func (f *Filter) repetitionScore(content string) float64 {
	if len(content) < f.cfg.MinContentLength {
		return 0
	}

	sentences := splitSentences(content)
	if len(sentences) < minSentenceCount {
		return 0
	}

	sigs := make([]fingerprint.Signature, len(sentences))
	for i, s := range sentences {
		sigs[i] = fingerprint.NewTextSignature(s)
	}

	duplicated := make([]bool, len(sentences))
	for i := 0; i < len(sigs); i++ {
		for j := i + 1; j < len(sigs); j++ {
			if sigs[i].Similarity(sigs[j]) >= f.cfg.SentenceSimilarityThreshold {
				duplicated[i] = true
				duplicated[j] = true
			}
		}
	}

	count := 0
	for _, d := range duplicated {
		if d {
			count++
		}
	}
	return float64(count) / float64(len(sentences))
}

// isBrokenContent flags structurally damaged records: truncated titles,
// malformed URLs, or content dominated by non-text characters.
func (f *Filter) isBrokenContent(rec *domain.ContentRecord) bool {
	if len(strings.TrimSpace(rec.Title)) < f.cfg.MinTitleLength {
		return true
	}

	if rec.URL != "" {
		u, err := url.Parse(rec.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return true
		}
	}

	if rec.Content != "" {
		nonText := 0
		total := 0
		for _, r := range rec.Content {
			total++
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
				nonText++
			}
		}
		if total > 0 && float64(nonText)/float64(total) > f.cfg.MaxNonAlnumRatio {
			return true
		}
	}

	return false
}

func (f *Filter) actionFor(score float64) domain.FilterAction {
	switch {
	case score >= f.cfg.SuppressThreshold:
		return domain.ActionSuppress
	case score >= f.cfg.FlagThreshold:
		return domain.ActionFlag
	default:
		return domain.ActionAllow
	}
}

// Stats returns a snapshot of detection statistics.
func (f *Filter) Stats() Stats {
	f.statsMu.Lock()
	defer f.statsMu.Unlock()

	snapshot := Stats{
		TotalAnalyzed: f.stats.TotalAnalyzed,
		NoiseDetected: f.stats.NoiseDetected,
		Actions:       make(map[domain.FilterAction]int, len(f.stats.Actions)),
		NoiseTypes:    make(map[domain.NoiseType]int, len(f.stats.NoiseTypes)),
	}
	for k, v := range f.stats.Actions {
		snapshot.Actions[k] = v
	}
	for k, v := range f.stats.NoiseTypes {
		snapshot.NoiseTypes[k] = v
	}
	if f.stats.TotalAnalyzed > 0 {
		snapshot.AverageNoiseScore = f.stats.noiseScoreSum / float64(f.stats.TotalAnalyzed)
	}
	return snapshot
}

func (f *Filter) recordStats(assessment *domain.NoiseAssessment) {
	f.statsMu.Lock()
	defer f.statsMu.Unlock()

	f.stats.TotalAnalyzed++
	f.stats.noiseScoreSum += assessment.OverallNoiseScore
	f.stats.Actions[assessment.FilterAction]++
	if len(assessment.NoiseTypes) > 0 {
		f.stats.NoiseDetected++
	}
	for _, nt := range assessment.NoiseTypes {
		f.stats.NoiseTypes[nt]++
	}
}

// combineConfidences aggregates per-type confidences with a probabilistic OR:
// 1 - Π(1-c). Adding a detection can never lower the overall score.
func combineConfidences(scores map[domain.NoiseType]float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	clean := 1.0
	for _, c := range scores {
		if c < 0 {
			c = 0
		}
		if c > 1 {
			c = 1
		}
		clean *= 1 - c
	}
	return 1 - clean
}

func buildReasoning(a *domain.NoiseAssessment) string {
	if len(a.NoiseTypes) == 0 {
		return fmt.Sprintf("content passed noise filter - action: %s", a.FilterAction)
	}

	issues := make([]string, 0, len(a.NoiseTypes))
	for _, nt := range a.NoiseTypes {
		issues = append(issues, fmt.Sprintf("%s (confidence: %.2f)", nt, a.ConfidenceScores[nt]))
	}
	sort.Strings(issues)
	return fmt.Sprintf("noise detected: %s - action: %s", strings.Join(issues, ", "), a.FilterAction)
}

func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if len(s) > minSentenceLength {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func noiseTypeStrings(types []domain.NoiseType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
