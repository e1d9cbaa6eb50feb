package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

// Options selects the handler installed for the process-wide logger.
// A nil Writer means stderr, which keeps stdout free for the run summary.
type Options struct {
	Level  string
	JSON   bool
	Writer io.Writer
}

var def atomic.Value

func init() {
	def.Store(newLogger(Options{}))
}

func newLogger(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	cfg := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, cfg)
	} else {
		h = slog.NewTextHandler(w, cfg)
	}
	return slog.New(h).With("app", "tidyseries")
}

func Configure(opts Options) {
	def.Store(newLogger(opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func L() *slog.Logger {
	l, _ := def.Load().(*slog.Logger)
	return l
}

// InitFromEnv reads TIDY_LOG_LEVEL and TIDY_LOG_JSON. Values already
// present in base win over the environment only when the env var is unset.
func InitFromEnv(base Options) {
	if lvl := os.Getenv("TIDY_LOG_LEVEL"); lvl != "" {
		base.Level = lvl
	}
	if b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("TIDY_LOG_JSON"))); err == nil {
		base.JSON = b
	}
	Configure(base)
}
