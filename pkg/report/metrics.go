package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "topd_report_duration_seconds",
			Help:    "Time taken to build a complete node usage report",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	reportTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topd_report_total",
			Help: "Total number of report attempts",
		},
		[]string{"status"}, // success or error
	)

	reportStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "topd_report_step_duration_seconds",
			Help:    "Time taken by individual report steps",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"step"}, // nodes, usage, disk
	)

	reportRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "topd_report_rows",
			Help: "Number of rows in the last report",
		},
	)

	reportDegradedRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "topd_report_degraded_rows",
			Help: "Number of rows in the last report with a fallback value",
		},
		[]string{"field"}, // usage or disk
	)
)
