// Package config loads the contentsift configuration from YAML files with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"contentsift/internal/logger"
)

// Default configuration values.
const (
	defaultServiceName          = "contentsift"
	defaultServiceVersion       = "1.0.0"
	defaultLogLevel             = "info"
	defaultLogFormat            = "json"
	defaultNearDupThreshold     = 0.80
	defaultFlagThreshold        = 0.40
	defaultSuppressThreshold    = 0.80
	defaultMinTitleLength       = 5
	defaultMinContentLength     = 50
	defaultMaxNonAlnumRatio     = 0.50
	defaultRepetitionThreshold  = 0.40
	defaultSentenceSimThreshold = 0.80
	defaultCriticalThreshold    = 0.90
	defaultHighThreshold        = 0.75
	defaultMediumThreshold      = 0.55
	defaultLowThreshold         = 0.35
	defaultRecencyHalfLifeHours = 48
)

// Config holds all configuration for the scoring pipeline.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Logging  logger.Config  `yaml:"logging"`
	Noise    NoiseConfig    `yaml:"noise"`
	Priority PriorityConfig `yaml:"priority"`
	// TopicsFile points at the priority-topics definition; a missing file is
	// treated as "no priority topics configured".
	TopicsFile string `yaml:"topics_file"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// NoiseConfig holds thresholds for the noise filter heuristics.
type NoiseConfig struct {
	// NearDuplicateThreshold is the minimum signature similarity treated as a
	// near duplicate.
	NearDuplicateThreshold float64 `yaml:"near_duplicate_threshold"`
	// FlagThreshold and SuppressThreshold partition the overall noise score
	// into allow / flag / suppress. FlagThreshold must be strictly below
	// SuppressThreshold.
	FlagThreshold     float64 `yaml:"flag_threshold"`
	SuppressThreshold float64 `yaml:"suppress_threshold"`
	// MinTitleLength and MaxNonAlnumRatio feed the broken-content heuristic.
	MinTitleLength   int     `yaml:"min_title_length"`
	MaxNonAlnumRatio float64 `yaml:"max_non_alnum_ratio"`
	// MinContentLength is the minimum content size checked for near
	// duplicates and repetition.
	MinContentLength int `yaml:"min_content_length"`
	// RepetitionThreshold is the fraction of near-duplicate sentences above
	// which content is flagged repetitive; SentenceSimilarityThreshold is the
	// per-pair cutoff.
	RepetitionThreshold         float64 `yaml:"repetition_threshold"`
	SentenceSimilarityThreshold float64 `yaml:"sentence_similarity_threshold"`
}

// PriorityConfig holds the strategy-independent tier thresholds and decay
// settings for priority scoring.
type PriorityConfig struct {
	CriticalThreshold    float64 `yaml:"critical_threshold"`
	HighThreshold        float64 `yaml:"high_threshold"`
	MediumThreshold      float64 `yaml:"medium_threshold"`
	LowThreshold         float64 `yaml:"low_threshold"`
	RecencyHalfLifeHours float64 `yaml:"recency_half_life_hours"`
}

// Load reads the config file at path and applies defaults and environment
// overrides. A missing file yields the default configuration.
func Load(path string) (*Config, error) {
	// .env files are optional; absence is not an error.
	_ = godotenv.Load(".env")

	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Defaults only.
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	setDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that defaults alone cannot enforce.
func (c *Config) Validate() error {
	if c.Noise.FlagThreshold >= c.Noise.SuppressThreshold {
		return fmt.Errorf("noise flag threshold %.2f must be below suppress threshold %.2f",
			c.Noise.FlagThreshold, c.Noise.SuppressThreshold)
	}
	p := c.Priority
	if !(p.CriticalThreshold > p.HighThreshold &&
		p.HighThreshold > p.MediumThreshold &&
		p.MediumThreshold > p.LowThreshold) {
		return fmt.Errorf("priority tier thresholds must be strictly descending")
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = defaultServiceVersion
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLogFormat
	}
	setNoiseDefaults(&cfg.Noise)
	setPriorityDefaults(&cfg.Priority)
}

func setNoiseDefaults(n *NoiseConfig) {
	if n.NearDuplicateThreshold == 0 {
		n.NearDuplicateThreshold = defaultNearDupThreshold
	}
	if n.FlagThreshold == 0 {
		n.FlagThreshold = defaultFlagThreshold
	}
	if n.SuppressThreshold == 0 {
		n.SuppressThreshold = defaultSuppressThreshold
	}
	if n.MinTitleLength == 0 {
		n.MinTitleLength = defaultMinTitleLength
	}
	if n.MaxNonAlnumRatio == 0 {
		n.MaxNonAlnumRatio = defaultMaxNonAlnumRatio
	}
	if n.MinContentLength == 0 {
		n.MinContentLength = defaultMinContentLength
	}
	if n.RepetitionThreshold == 0 {
		n.RepetitionThreshold = defaultRepetitionThreshold
	}
	if n.SentenceSimilarityThreshold == 0 {
		n.SentenceSimilarityThreshold = defaultSentenceSimThreshold
	}
}

func setPriorityDefaults(p *PriorityConfig) {
	if p.CriticalThreshold == 0 {
		p.CriticalThreshold = defaultCriticalThreshold
	}
	if p.HighThreshold == 0 {
		p.HighThreshold = defaultHighThreshold
	}
	if p.MediumThreshold == 0 {
		p.MediumThreshold = defaultMediumThreshold
	}
	if p.LowThreshold == 0 {
		p.LowThreshold = defaultLowThreshold
	}
	if p.RecencyHalfLifeHours == 0 {
		p.RecencyHalfLifeHours = defaultRecencyHalfLifeHours
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("CONTENTSIFT_TOPICS_FILE"); v != "" {
		cfg.TopicsFile = v
	}
}
