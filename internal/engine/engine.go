package engine

import (
	"context"
	"net/http"
	"time"

	"tidyseries/internal/pipeline"
)

type Config struct {
	PipelineYml string // optional; defaults apply when absent
	MetricsPort int    // 0 = no /metrics endpoint
}

type Engine struct {
	runner  *pipeline.Runner
	metrics *http.Server
}

// Run performs one transform and shuts the metrics endpoint down.
func (e *Engine) Run(ctx context.Context) (pipeline.Result, error) {
	defer func() {
		if e.metrics == nil {
			return
		}
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = e.metrics.Shutdown(sctx)
	}()
	return e.runner.Run(ctx)
}
