// Package metrics provides Prometheus metrics for table loading, view
// construction and export.
//
// # Overview
//
// All collectors are registered with the default registry on package
// initialization through promauto, so importing the package is enough to
// expose them on a /metrics handler.
//
// # Basic Usage
//
//	timer := metrics.NewTimer()
//	dt, err := nff.Load(colspec, nrows, dir)
//	metrics.LoadDuration.Observe(timer.Stop().Seconds())
//	if err != nil {
//	    metrics.LoadErrors.WithLabelValues(metrics.ErrorKind(err)).Inc()
//	}
//
// # Metric Types
//
// Counter: monotonically increasing values (columns loaded, views created)
// Histogram: distribution of load and export durations
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Cheburusska/datatable/pkg/errors"
)

var (
	// ColumnsLoaded counts columns opened by the NFF loader.
	// Labels: stype (canonical 3-character code), mtype (data/mmap)
	//
	// Example:
	//	metrics.ColumnsLoaded.WithLabelValues("i_4", "mmap").Inc()
	ColumnsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datatable_columns_loaded_total",
			Help: "Total number of columns opened from NFF directories",
		},
		[]string{"stype", "mtype"},
	)

	// BytesMapped counts column file bytes made available to tables,
	// whether mapped or read.
	BytesMapped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "datatable_column_bytes_total",
			Help: "Total size of column files opened",
		},
	)

	// LoadErrors counts failed loads by error kind
	// (schema/format/path/io/invariant).
	LoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datatable_load_errors_total",
			Help: "Total number of failed NFF loads",
		},
		[]string{"kind"},
	)

	// LoadDuration tracks the wall time of NFF loads in seconds.
	LoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "datatable_load_duration_seconds",
			Help: "NFF load duration in seconds",
			Buckets: []float64{
				1e-5, // 10μs - empty or tiny colspec
				1e-4, // 100μs
				1e-3, // 1ms - typical mmap of a few columns
				1e-2, // 10ms
				1e-1, // 100ms - plain-read fallback on large files
				1,    // 1s
			},
		},
	)

	// ViewsCreated counts view tables produced by ApplyMapping.
	// Labels: rowmapping (slice/array)
	ViewsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datatable_views_created_total",
			Help: "Total number of view tables created",
		},
		[]string{"rowmapping"},
	)

	// ExportDuration tracks Arrow export durations in seconds.
	// Labels: compression
	ExportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datatable_export_duration_seconds",
			Help:    "Arrow export duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"compression"},
	)
)

// ErrorKind returns the label value used for err in LoadErrors.
func ErrorKind(err error) string {
	if t := errors.TypeOf(err); t != "" {
		return string(t)
	}
	return "unknown"
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed duration since creation. It may be called more
// than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
