package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"tidyseries/internal/tidy"
	"tidyseries/source"
)

const series = "SL.TLF.CACT.FM.ZS"

type fakeSource struct {
	recs   []tidy.WideRecord
	closed bool
}

func (f *fakeSource) Configure(source.Config) error { return nil }
func (f *fakeSource) Run(ctx context.Context, emit source.EmitFunc) error {
	for _, r := range f.recs {
		if err := emit(r); err != nil {
			return err
		}
	}
	return nil
}
func (f *fakeSource) Close() error { f.closed = true; return nil }

type captureSink struct {
	pushed    []tidy.LongRecord
	committed bool
	aborted   bool
	failPush  error
	failClose error
}

func (c *captureSink) Configure(any) error { return nil }
func (c *captureSink) Push(r tidy.LongRecord) error {
	if c.failPush != nil {
		return c.failPush
	}
	c.pushed = append(c.pushed, r)
	return nil
}
func (c *captureSink) Close() error {
	if c.failClose != nil {
		return c.failClose
	}
	c.committed = true
	return nil
}
func (c *captureSink) Abort() error   { c.aborted = true; return nil }
func (c *captureSink) Target() string { return "capture" }

func wide(name, code, seriesCode string, cells map[string]string) tidy.WideRecord {
	return tidy.WideRecord{CountryName: name, CountryCode: code, SeriesCode: seriesCode, Cells: cells}
}

func TestRunner_MeltsIntoEverySink(t *testing.T) {
	src := &fakeSource{recs: []tidy.WideRecord{
		wide("Afristan", "AFR", series, map[string]string{"2016": "55.2", "2017": "..", "2018": "57.0"}),
		wide("Afristan", "AFR", "OTHER.CODE", map[string]string{"2016": "1", "2017": "2", "2018": "3"}),
	}}
	r := NewRunner()
	r.SetSource(src, series, tidy.YearRange{From: 2016, To: 2018})
	a, b := &captureSink{}, &captureSink{}
	r.AddSink(a)
	r.AddSink(b)

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Scanned != 2 || res.Matched != 1 || res.Absent != 1 || res.Rows != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	for _, s := range []*captureSink{a, b} {
		if !s.committed || s.aborted || len(s.pushed) != 2 {
			t.Fatalf("sink state: %s", spew.Sdump(s))
		}
		if s.pushed[0].Year != 2016 || s.pushed[1].Year != 2018 || s.pushed[1].Ratio != 57 {
			t.Fatalf("unexpected rows: %s", spew.Sdump(s.pushed))
		}
	}
	if !src.closed {
		t.Fatal("source not closed")
	}
	if got := testutil.ToFloat64(r.Metrics().RowsWritten); got != 2 {
		t.Fatalf("rows metric: want 2, got %v", got)
	}
	if len(res.Targets) != 2 {
		t.Fatalf("want 2 targets, got %v", res.Targets)
	}
}

func TestRunner_MalformedValueAbortsSinks(t *testing.T) {
	src := &fakeSource{recs: []tidy.WideRecord{
		wide("Afristan", "AFR", series, map[string]string{"2016": "55.2"}),
		wide("Bland", "BLD", series, map[string]string{"2016": "five"}),
	}}
	r := NewRunner()
	r.SetSource(src, series, tidy.YearRange{From: 2016, To: 2016})
	cs := &captureSink{}
	r.AddSink(cs)

	_, err := r.Run(context.Background())
	if !errors.Is(err, tidy.ErrMalformedValue) {
		t.Fatalf("want ErrMalformedValue, got %v", err)
	}
	if cs.committed || !cs.aborted {
		t.Fatalf("sink must be aborted, not committed: %+v", cs)
	}
	if got := testutil.ToFloat64(r.Metrics().Runs.WithLabelValues("failed")); got != 1 {
		t.Fatalf("failed runs metric: %v", got)
	}
}

func TestRunner_NoMatchCommitsEmpty(t *testing.T) {
	src := &fakeSource{recs: []tidy.WideRecord{
		wide("Afristan", "AFR", "OTHER.CODE", map[string]string{"2016": "1"}),
	}}
	r := NewRunner()
	r.SetSource(src, series, tidy.YearRange{From: 2016, To: 2016})
	cs := &captureSink{}
	r.AddSink(cs)

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Rows != 0 || !cs.committed {
		t.Fatalf("want committed empty sink, got %+v / %+v", res, cs)
	}
}

func TestRunner_CommitFailureAbortsRemaining(t *testing.T) {
	r := NewRunner()
	r.SetSource(&fakeSource{}, series, tidy.YearRange{From: 2016, To: 2016})
	first := &captureSink{failClose: errors.New("disk full")}
	second := &captureSink{}
	r.AddSink(first)
	r.AddSink(second)

	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("expected commit error")
	}
	if second.committed || !second.aborted {
		t.Fatalf("second sink must be aborted: %+v", second)
	}
}

func TestRunner_PushFailureAborts(t *testing.T) {
	src := &fakeSource{recs: []tidy.WideRecord{
		wide("Afristan", "AFR", series, map[string]string{"2016": "1"}),
	}}
	r := NewRunner()
	r.SetSource(src, series, tidy.YearRange{From: 2016, To: 2016})
	cs := &captureSink{failPush: errors.New("broken pipe")}
	r.AddSink(cs)

	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("expected push error")
	}
	if !cs.aborted {
		t.Fatal("sink not aborted")
	}
}

func TestRunner_AbortDiscardsEverySink(t *testing.T) {
	r := NewRunner()
	a, b := &captureSink{}, &captureSink{}
	r.AddSink(a)
	r.AddSink(b)

	r.Abort()
	for _, s := range []*captureSink{a, b} {
		if !s.aborted || s.committed {
			t.Fatalf("sink must be aborted: %+v", s)
		}
	}
}

func TestRunner_RequiresSourceAndSinks(t *testing.T) {
	if _, err := NewRunner().Run(context.Background()); err == nil {
		t.Fatal("expected error without source")
	}
	r := NewRunner()
	r.SetSource(&fakeSource{}, series, tidy.YearRange{From: 2016, To: 2016})
	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("expected error without sinks")
	}
}
