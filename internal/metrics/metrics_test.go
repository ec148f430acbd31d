package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getGaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	if err := g.(prometheus.Metric).Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

func getCounterVecValue(cv *prometheus.CounterVec, labels ...string) float64 {
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func getHistogramCount(h prometheus.Histogram) uint64 {
	var m dto.Metric
	if err := h.(prometheus.Metric).Write(&m); err != nil {
		return 0
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetrics_CyclesTotal(t *testing.T) {
	for _, status := range []string{StatusSuccess, StatusLoginFailed, StatusFailed} {
		before := getCounterVecValue(CyclesTotal, status)
		CyclesTotal.WithLabelValues(status).Inc()
		after := getCounterVecValue(CyclesTotal, status)

		if after != before+1 {
			t.Errorf("Expected %s counter to increment by 1, got diff %.0f", status, after-before)
		}
	}
}

func TestMetrics_CycleDuration(t *testing.T) {
	before := getHistogramCount(CycleDuration)
	CycleDuration.Observe(6.2)
	after := getHistogramCount(CycleDuration)

	if after != before+1 {
		t.Errorf("Expected histogram sample count to increment by 1, got diff %d", after-before)
	}
}

func TestMetrics_Torrents(t *testing.T) {
	Torrents.Set(42)
	if got := getGaugeValue(Torrents); got != 42 {
		t.Errorf("Expected torrents gauge 42, got %.0f", got)
	}
}
