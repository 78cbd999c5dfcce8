package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listingsheet_runs_total",
			Help: "Processing runs by source and outcome",
		},
		[]string{"source", "status"}, // cli|http|watch , processed|failed|skipped
	)

	RowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listingsheet_rows_total",
			Help: "Table rows produced by source",
		},
		[]string{"source"},
	)

	SuspectPhonesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "listingsheet_suspect_phones_total",
			Help: "Extracted phones rejected by libphonenumber",
		},
	)

	RunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listingsheet_run_duration_seconds",
			Help:    "Duration of one processing run",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"source"},
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		RunsTotal,
		RowsTotal,
		SuspectPhonesTotal,
		RunDuration,
	)
}
