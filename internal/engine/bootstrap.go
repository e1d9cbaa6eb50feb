package engine

import (
	"context"
	"fmt"

	"tidyseries/internal/logging"
	"tidyseries/internal/pipeline"
)

func Bootstrap(ctx context.Context, cfg Config) (*Engine, error) {
	// 1. pipeline file (or defaults), source and sinks
	runner, err := pipeline.Compile(cfg.PipelineYml)
	if err != nil {
		return nil, err
	}
	spec := runner.Spec()

	// 2. logging
	logging.InitFromEnv(logging.Options{Level: spec.Logging.Level, JSON: spec.Logging.JSON})
	logging.L().Debug("pipeline loaded",
		"file", cfg.PipelineYml, "source", spec.Source.Driver, "sinks", spec.Sinks)

	// 3. metrics
	port := cfg.MetricsPort
	if spec.Telemetry.MetricsPort != 0 {
		port = spec.Telemetry.MetricsPort
	}
	srv, err := runner.Metrics().Expose(port)
	if err != nil {
		runner.Abort()
		return nil, fmt.Errorf("metrics: %w", err)
	}

	return &Engine{runner: runner, metrics: srv}, nil
}
