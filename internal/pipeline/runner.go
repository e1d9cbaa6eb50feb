package pipeline

import (
	"context"
	"errors"
	"fmt"

	"tidyseries/internal/logging"
	"tidyseries/internal/spec"
	"tidyseries/internal/telemetry"
	"tidyseries/internal/tidy"
	"tidyseries/sink"
	"tidyseries/source"
)

// Result summarises one run.
type Result struct {
	Scanned int      // wide records read
	Matched int      // records of the target series
	Absent  int      // year cells dropped as not observed
	Rows    int      // long rows pushed to each sink
	Targets []string // where the sinks wrote
}

type Runner struct {
	cfg spec.File

	source source.Adapter
	series string
	years  tidy.YearRange
	sinks  []sink.Adapter

	metrics *telemetry.Metrics
}

func NewRunner() *Runner { return &Runner{metrics: telemetry.New()} }

func (r *Runner) AddSink(s sink.Adapter) { r.sinks = append(r.sinks, s) }

func (r *Runner) SetSource(s source.Adapter, series string, years tidy.YearRange) {
	r.source, r.series, r.years = s, series, years
}

func (r *Runner) Metrics() *telemetry.Metrics { return r.metrics }

// Spec is the pipeline file the runner was compiled from.
func (r *Runner) Spec() spec.File { return r.cfg }

// Abort discards whatever every sink has buffered. It is for callers that
// give up on a compiled runner without running it.
func (r *Runner) Abort() { r.abortFrom(0) }

/*──────── row routing ───────*/
func (r *Runner) pushRow(row tidy.LongRecord) error {
	for _, s := range r.sinks {
		if err := s.Push(row); err != nil {
			return err
		}
	}
	return nil
}

// Run reads the whole source, melting each record into the sinks. Sinks
// are committed only when every record was read and melted; on any
// failure they are aborted.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	var res Result
	if r.source == nil {
		return res, errors.New("runner: no source configured")
	}
	if len(r.sinks) == 0 {
		return res, errors.New("runner: no sinks configured")
	}
	defer r.source.Close()

	log := logging.L().With("series", r.series, "years", r.years.String())
	log.Info("run started", "sinks", len(r.sinks))

	err := r.source.Run(ctx, func(rec tidy.WideRecord) error {
		res.Scanned++
		r.metrics.RecordsScanned.Inc()

		rows, st, err := tidy.Melt(rec, r.series, r.years)
		if err != nil {
			return err
		}
		res.Matched += st.Matched
		res.Absent += st.Absent
		r.metrics.RecordsMatched.Add(float64(st.Matched))
		r.metrics.CellsAbsent.Add(float64(st.Absent))

		for _, row := range rows {
			if err := r.pushRow(row); err != nil {
				return fmt.Errorf("sink: %w", err)
			}
			res.Rows++
		}
		return nil
	})
	if err != nil {
		r.abortFrom(0)
		r.metrics.Runs.WithLabelValues("failed").Inc()
		log.Error("run aborted", "err", err, "scanned", res.Scanned)
		return res, err
	}

	for i, s := range r.sinks {
		if err := s.Close(); err != nil {
			r.abortFrom(i + 1)
			r.metrics.Runs.WithLabelValues("failed").Inc()
			return res, fmt.Errorf("sink commit: %w", err)
		}
		if t, ok := s.(sink.Target); ok {
			res.Targets = append(res.Targets, t.Target())
		}
	}

	r.metrics.RowsWritten.Add(float64(res.Rows))
	r.metrics.Runs.WithLabelValues("ok").Inc()
	if res.Matched == 0 {
		log.Warn("no records matched the series; output has a header only")
	}
	log.Info("run complete",
		"scanned", res.Scanned, "matched", res.Matched, "absent", res.Absent, "rows", res.Rows)
	return res, nil
}

func (r *Runner) abortFrom(i int) {
	for _, s := range r.sinks[i:] {
		a, ok := s.(sink.Aborter)
		if !ok {
			continue
		}
		if err := a.Abort(); err != nil {
			logging.L().Warn("sink abort failed", "err", err)
		}
	}
}
