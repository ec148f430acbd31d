package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Cycle outcome labels for CyclesTotal
const (
	StatusSuccess     = "success"
	StatusLoginFailed = "login_failed"
	StatusFailed      = "failed"
)

// Reannounce cycle metrics
var (
	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qbreannounce_cycles_total",
			Help: "Total number of reannounce cycles by outcome.",
		},
		[]string{"status"},
	)

	CycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qbreannounce_cycle_duration_seconds",
			Help:    "Duration of reannounce cycles, including the fixed delays.",
			Buckets: []float64{1, 2, 5, 7, 10, 15, 30, 60, 120},
		},
	)

	Torrents = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "qbreannounce_torrents",
			Help: "Number of torrents touched by the last completed cycle.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		CyclesTotal,
		CycleDuration,
		Torrents,
	)
}
