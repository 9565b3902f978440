// Package metrics exposes blend-run statistics to prometheus for serve
// mode. Gauges describe the most recent run; counters and the histogram
// accumulate across runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AngelCh415/BLEND_GO/internal/blend"
)

type Metrics struct {
	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram

	rowsLoaded   prometheus.Gauge
	droppedDates prometheus.Gauge
	paidDeals    prometheus.Gauge
	enrollments  prometheus.Gauge

	matchedSpend  prometheus.Gauge
	proratedSpend prometheus.Gauge
}

// New registers the blend collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blend_runs_total",
			Help: "Blend runs by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "blend_run_duration_seconds",
			Help:    "Wall-clock duration of blend runs.",
			Buckets: prometheus.DefBuckets,
		}),
		rowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blend_last_run_rows_loaded",
			Help: "CRM rows loaded by the most recent run.",
		}),
		droppedDates: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blend_last_run_dropped_invalid_dates",
			Help: "CRM rows dropped for unparseable creation dates.",
		}),
		paidDeals: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blend_last_run_paid_deals",
			Help: "Deals surviving the paid-media filter.",
		}),
		enrollments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blend_last_run_enrollments",
			Help: "Enrollment-stage deals in the most recent run.",
		}),
		matchedSpend: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blend_last_run_matched_spend",
			Help: "Total spend matched to (date, channel) groups.",
		}),
		proratedSpend: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blend_last_run_prorated_spend",
			Help: "Total spend prorated across deals.",
		}),
	}
	reg.MustRegister(m.runsTotal, m.runDuration,
		m.rowsLoaded, m.droppedDates, m.paidDeals, m.enrollments,
		m.matchedSpend, m.proratedSpend)
	return m
}

// ObserveRun records a finished run (or its failure).
func (m *Metrics) ObserveRun(sum *blend.RunSummary, err error) {
	if err != nil {
		m.runsTotal.WithLabelValues("error").Inc()
		return
	}
	m.runsTotal.WithLabelValues("success").Inc()
	m.runDuration.Observe(sum.Duration.Seconds())
	m.rowsLoaded.Set(float64(sum.RowsLoaded))
	m.droppedDates.Set(float64(sum.DroppedDates))
	m.paidDeals.Set(float64(sum.PaidDeals))
	m.enrollments.Set(float64(sum.Enrollments))
	m.matchedSpend.Set(sum.MatchedSpend)
	m.proratedSpend.Set(sum.ProratedSpend)
}
