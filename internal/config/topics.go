package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// TopicDefinition describes one priority topic: the names under which it
// appears in content plus its scoring weight.
type TopicDefinition struct {
	Aliases  []string `yaml:"aliases"`
	Keywords []string `yaml:"keywords"`
	Weight   float64  `yaml:"weight"`
}

// SecondaryTopic is a lower-value topic consulted only when no priority topic
// matched.
type SecondaryTopic struct {
	Keywords []string `yaml:"keywords"`
}

// TopicCombination grants an extra boost when all required topics are matched
// together in one record.
type TopicCombination struct {
	RequiredTopics  []string `yaml:"required_topics"`
	Weight          float64  `yaml:"weight"`
	BonusMultiplier float64  `yaml:"bonus_multiplier"`
}

// FreshnessDecay holds the step-function values applied by publication age.
type FreshnessDecay struct {
	Under24h  float64 `yaml:"under_24h"`
	Days1to3  float64 `yaml:"days_1_3"`
	Days3to7  float64 `yaml:"days_3_7"`
	Days7to30 float64 `yaml:"days_7_30"`
	Over30d   float64 `yaml:"over_30d"`
	// Unknown is used when the record carries no parseable date.
	Unknown float64 `yaml:"unknown"`
}

// TopicsConfig is the external priority-topics definition consumed by the
// topic scoring engine.
type TopicsConfig struct {
	PriorityTopics  map[string]TopicDefinition  `yaml:"priority_topics"`
	SecondaryTopics map[string]SecondaryTopic   `yaml:"secondary_topics"`
	Combinations    map[string]TopicCombination `yaml:"topic_combinations"`
	Freshness       FreshnessDecay              `yaml:"freshness_decay"`
}

// Default freshness step values.
const (
	defaultFreshUnder24h  = 1.0
	defaultFreshDays1to3  = 0.8
	defaultFreshDays3to7  = 0.6
	defaultFreshDays7to30 = 0.4
	defaultFreshOver30d   = 0.2
	defaultFreshUnknown   = 0.5
)

// LoadTopics reads the priority-topics file. A genuinely absent file is not
// an error: it yields an empty configuration, which the engine treats as "no
// priority topics configured". A present but malformed file fails loudly so
// the engine never runs with a corrupt config.
func LoadTopics(path string) (*TopicsConfig, error) {
	cfg := &TopicsConfig{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse topics config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// No priority topics configured.
		default:
			return nil, fmt.Errorf("read topics config %s: %w", path, err)
		}
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *TopicsConfig) setDefaults() {
	if c.Freshness.Under24h == 0 {
		c.Freshness.Under24h = defaultFreshUnder24h
	}
	if c.Freshness.Days1to3 == 0 {
		c.Freshness.Days1to3 = defaultFreshDays1to3
	}
	if c.Freshness.Days3to7 == 0 {
		c.Freshness.Days3to7 = defaultFreshDays3to7
	}
	if c.Freshness.Days7to30 == 0 {
		c.Freshness.Days7to30 = defaultFreshDays7to30
	}
	if c.Freshness.Over30d == 0 {
		c.Freshness.Over30d = defaultFreshOver30d
	}
	if c.Freshness.Unknown == 0 {
		c.Freshness.Unknown = defaultFreshUnknown
	}
	// Topics without an explicit weight are neutral.
	for name, def := range c.PriorityTopics {
		if def.Weight == 0 {
			def.Weight = 1.0
			c.PriorityTopics[name] = def
		}
	}
	for name, combo := range c.Combinations {
		if combo.Weight == 0 {
			combo.Weight = 1.0
			c.Combinations[name] = combo
		}
	}
}

func (c *TopicsConfig) validate() error {
	for name, combo := range c.Combinations {
		if len(combo.RequiredTopics) == 0 {
			return fmt.Errorf("topic combination %q has no required topics", name)
		}
		for _, topic := range combo.RequiredTopics {
			if _, ok := c.PriorityTopics[topic]; !ok {
				return fmt.Errorf("topic combination %q requires unknown topic %q", name, topic)
			}
		}
	}
	return nil
}

// TopicNames returns the configured priority topic names in deterministic
// (sorted) order. Matched-topic lists preserve this order.
func (c *TopicsConfig) TopicNames() []string {
	names := make([]string, 0, len(c.PriorityTopics))
	for name := range c.PriorityTopics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
