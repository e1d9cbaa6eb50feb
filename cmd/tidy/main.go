package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tidyseries/internal/engine"
	"tidyseries/internal/logging"
	"tidyseries/internal/pipeline"
	"tidyseries/internal/tidy"
	_ "tidyseries/source/csvfile"
	_ "tidyseries/source/xls"
	_ "tidyseries/source/xlsx"
)

func main() {
	cfg := engine.Config{
		PipelineYml: "pipeline.yml", // optional
		MetricsPort: 0,
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := engine.Bootstrap(ctx, cfg)
	if err != nil {
		fail(err)
	}
	res, err := e.Run(ctx)
	if err != nil {
		fail(err)
	}
	summary(os.Stdout, res)
}

func summary(w io.Writer, res pipeline.Result) {
	p := message.NewPrinter(language.English)
	for _, t := range res.Targets {
		p.Fprintf(w, "Wrote %s  (%d rows)\n", t, res.Rows)
	}
}

func fail(err error) {
	logging.L().Error("tidy failed", "err", err)
	fmt.Fprintln(os.Stderr, explain(err))
	os.Exit(1)
}

// explain turns a run error into the operator-facing message.
func explain(err error) string {
	switch {
	case errors.Is(err, tidy.ErrInputNotFound):
		return fmt.Sprintf("Input file not found: %v", err)
	case errors.Is(err, tidy.ErrMissingDependency):
		return fmt.Sprintf("A table driver is not available in this build.\n  %v", err)
	case errors.Is(err, tidy.ErrMalformedValue):
		return fmt.Sprintf("Input contains a value that is neither \"..\" nor a number; nothing was written.\n  %v", err)
	case errors.Is(err, tidy.ErrMissingColumn):
		return fmt.Sprintf("Input is missing required columns; nothing was written.\n  %v", err)
	default:
		return fmt.Sprintf("tidy: %v", err)
	}
}
