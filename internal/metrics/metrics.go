// Package metrics exposes Prometheus instruments for reconciliation runs
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
)

// Metrics groups the run instruments. A nil *Metrics is valid and records nothing.
type Metrics struct {
	runsTotal       *prometheus.CounterVec
	itemsTotal      *prometheus.CounterVec
	runDuration     prometheus.Histogram
	runInProgress   prometheus.Gauge
	lastRunFinished prometheus.Gauge
}

// New registers the instruments with reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_sync_runs_total",
			Help: "Reconciliation runs by result",
		}, []string{"result"}),
		itemsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_sync_items_total",
			Help: "Reconciled items by outcome",
		}, []string{"outcome"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_sync_run_duration_seconds",
			Help:    "Wall time of a reconciliation run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		runInProgress: f.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_sync_run_in_progress",
			Help: "1 while a reconciliation run is executing",
		}),
		lastRunFinished: f.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_sync_last_run_finished_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}
}

func (m *Metrics) RunStarted() {
	if m == nil {
		return
	}
	m.runInProgress.Set(1)
}

func (m *Metrics) ItemRecorded(outcome domain.Outcome) {
	if m == nil {
		return
	}
	m.itemsTotal.WithLabelValues(string(outcome)).Inc()
}

// RunFinished records the report's result and duration
func (m *Metrics) RunFinished(report *domain.RunReport) {
	if m == nil {
		return
	}
	m.runInProgress.Set(0)
	result := "completed"
	switch {
	case report.Aborted:
		result = "aborted"
	case report.DryRun:
		result = "dry_run"
	}
	m.runsTotal.WithLabelValues(result).Inc()
	m.runDuration.Observe(report.Duration().Seconds())
	finished := report.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	m.lastRunFinished.Set(float64(finished.Unix()))
}
