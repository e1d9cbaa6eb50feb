package telemetry

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tidyseries/internal/logging"
)

// Metrics groups the counters a run updates. Each Metrics owns its
// registry so tests can build fresh ones.
type Metrics struct {
	Registry *prometheus.Registry

	RecordsScanned prometheus.Counter
	RecordsMatched prometheus.Counter
	CellsAbsent    prometheus.Counter
	RowsWritten    prometheus.Counter
	Runs           *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		RecordsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tidy_records_scanned_total",
			Help: "Wide records read from the source.",
		}),
		RecordsMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tidy_records_matched_total",
			Help: "Wide records whose series code matched the target series.",
		}),
		CellsAbsent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tidy_cells_absent_total",
			Help: "Year cells dropped as not observed.",
		}),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tidy_rows_written_total",
			Help: "Long rows handed to the sinks.",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tidy_runs_total",
			Help: "Completed runs by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.RecordsScanned, m.RecordsMatched, m.CellsAbsent, m.RowsWritten, m.Runs)
	return m
}

// Expose serves the registry on :port/metrics in the background.
// A zero port disables the endpoint.
func (m *Metrics) Expose(port int) (*http.Server, error) {
	if port == 0 {
		return nil, nil
	}
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L().Error("metrics endpoint stopped", "err", err)
		}
	}()
	return srv, nil
}
