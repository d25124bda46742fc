// Command contentsift reads collected content items from a JSON file, runs
// them through the noise filter and scoring pipeline, and writes the ranked
// results.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"contentsift/internal/config"
	"contentsift/internal/domain"
	"contentsift/internal/logger"
	"contentsift/internal/noise"
	"contentsift/internal/pipeline"
	"contentsift/internal/priority"
	"contentsift/internal/telemetry"
	"contentsift/internal/topicscore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "contentsift:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "config.yaml", "path to the configuration file")
		topicsPath = flag.String("topics", "", "path to the priority topics file (overrides config)")
		inputPath  = flag.String("input", "", "JSON file of collected items (required)")
		outputPath = flag.String("output", "", "file for ranked JSON output (default stdout)")
		strategy   = flag.String("strategy", "default", "priority strategy: default, news, technical, social_signals")
	)
	flag.Parse()

	if *inputPath == "" {
		return fmt.Errorf("-input is required")
	}

	kind, err := priority.ParseStrategy(*strategy)
	if err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	topicsFile := cfg.TopicsFile
	if *topicsPath != "" {
		topicsFile = *topicsPath
	}
	topics, err := config.LoadTopics(topicsFile)
	if err != nil {
		return err
	}

	records, err := readItems(*inputPath)
	if err != nil {
		return err
	}

	log.Info("starting batch",
		logger.String("service", cfg.Service.Name),
		logger.String("version", cfg.Service.Version),
		logger.Int("items", len(records)),
		logger.String("strategy", string(kind)),
	)

	tp := telemetry.NewProvider()
	filter := noise.NewFilter(noise.NewIndex(), cfg.Noise, log, tp)
	prioritizer := priority.NewPrioritizer(cfg.Priority, log, tp)
	engine := topicscore.NewEngine(topics, nil, log, tp)
	pipe := pipeline.New(filter, prioritizer, engine, log, tp)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := pipe.Process(ctx, records, kind, nil)
	if err != nil {
		return err
	}

	if err := writeResult(*outputPath, result); err != nil {
		return err
	}

	log.Info("batch complete", logger.String("summary", pipe.Summary(result)))
	return nil
}

// readItems loads collector output and normalizes every item into the
// canonical record shape.
func readItems(path string) ([]*domain.ContentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}

	var items []domain.CollectorItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse input %s: %w", path, err)
	}

	records := make([]*domain.ContentRecord, 0, len(items))
	for _, item := range items {
		rec := item.Normalize()
		records = append(records, &rec)
	}
	return records, nil
}

func writeResult(path string, result *pipeline.BatchResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
