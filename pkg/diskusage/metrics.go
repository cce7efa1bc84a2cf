package diskusage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	diskFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topd_disk_fetch_total",
			Help: "Total number of per-node disk usage fetches",
		},
		[]string{"status"}, // success or error
	)

	diskFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "topd_disk_fetch_duration_seconds",
			Help:    "Time taken to fetch the stats summary of a single node",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)
