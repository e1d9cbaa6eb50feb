package telemetry

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_CountersAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.RowsWritten.Add(3)
	a.Runs.WithLabelValues("ok").Inc()

	if got := testutil.ToFloat64(a.RowsWritten); got != 3 {
		t.Fatalf("want 3 rows, got %v", got)
	}
	if got := testutil.ToFloat64(b.RowsWritten); got != 0 {
		t.Fatalf("registries leaked state: %v", got)
	}

	const want = `
# HELP tidy_runs_total Completed runs by result.
# TYPE tidy_runs_total counter
tidy_runs_total{result="ok"} 1
`
	if err := testutil.CollectAndCompare(a.Runs, strings.NewReader(want)); err != nil {
		t.Fatal(err)
	}
}

func TestExpose_ZeroPortDisabled(t *testing.T) {
	srv, err := New().Expose(0)
	if err != nil || srv != nil {
		t.Fatalf("want disabled endpoint, got %v, %v", srv, err)
	}
}
