package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "contentsift", cfg.Service.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 0.40, cfg.Noise.FlagThreshold)
	assert.Equal(t, 0.80, cfg.Noise.SuppressThreshold)
	assert.Equal(t, 0.80, cfg.Noise.NearDuplicateThreshold)
	assert.Equal(t, 0.90, cfg.Priority.CriticalThreshold)
	assert.Equal(t, 0.35, cfg.Priority.LowThreshold)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
service:
  name: custom-sift
noise:
  flag_threshold: 0.3
  suppress_threshold: 0.7
priority:
  critical_threshold: 0.95
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom-sift", cfg.Service.Name)
	assert.Equal(t, 0.3, cfg.Noise.FlagThreshold)
	assert.Equal(t, 0.7, cfg.Noise.SuppressThreshold)
	assert.Equal(t, 0.95, cfg.Priority.CriticalThreshold)
	// Untouched fields keep their defaults.
	assert.Equal(t, 5, cfg.Noise.MinTitleLength)
	assert.Equal(t, 0.75, cfg.Priority.HighThreshold)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: [not: valid"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateThresholdOrdering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
noise:
  flag_threshold: 0.9
  suppress_threshold: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := Load(path)
	assert.Error(t, err, "flag threshold above suppress threshold must be rejected")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CONTENTSIFT_TOPICS_FILE", "/etc/contentsift/topics.yaml")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/etc/contentsift/topics.yaml", cfg.TopicsFile)
}

func TestLoadTopicsMissingFile(t *testing.T) {
	cfg, err := LoadTopics(filepath.Join(t.TempDir(), "topics.yaml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.PriorityTopics)
	assert.Equal(t, 1.0, cfg.Freshness.Under24h)
	assert.Equal(t, 0.5, cfg.Freshness.Unknown)
}

func TestLoadTopicsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.yaml")
	data := `
priority_topics:
  kubernetes:
    aliases: [k8s]
    keywords: [kubectl, cluster]
    weight: 1.4
  golang:
    aliases: [go]
secondary_topics:
  databases:
    keywords: [postgres]
topic_combinations:
  cloud_native_go:
    required_topics: [kubernetes, golang]
    weight: 1.5
    bonus_multiplier: 0.2
freshness_decay:
  under_24h: 1.0
  days_1_3: 0.9
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadTopics(path)
	require.NoError(t, err)

	assert.Equal(t, 1.4, cfg.PriorityTopics["kubernetes"].Weight)
	assert.Equal(t, 1.0, cfg.PriorityTopics["golang"].Weight, "unset weight defaults to neutral")
	assert.Equal(t, 0.9, cfg.Freshness.Days1to3)
	assert.Equal(t, 0.6, cfg.Freshness.Days3to7, "unset steps keep defaults")
	assert.Equal(t, []string{"golang", "kubernetes"}, cfg.TopicNames())
}

func TestLoadTopicsUnknownComboTopic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.yaml")
	data := `
priority_topics:
  golang: {}
topic_combinations:
  broken:
    required_topics: [golang, rust]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := LoadTopics(path)
	assert.Error(t, err)
}
