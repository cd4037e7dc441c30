// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for one pipeline. All methods
// are nil-safe so metrics stay optional.
type Metrics struct {
	Registry        *prometheus.Registry
	FetchesTotal    *prometheus.CounterVec
	FetchDuration   prometheus.Histogram
	CandidatesTotal prometheus.Counter
	RecordsTotal    prometheus.Counter
	ZeroDateModels  prometheus.Counter
}

// NewMetrics constructs and registers all collectors on a dedicated
// registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eol_engine_fetches_total",
			Help: "Total source fetches by terminal status.",
		},
		[]string{"status"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eol_engine_fetch_duration_seconds",
			Help:    "Source fetch latency including retries.",
			Buckets: prometheus.DefBuckets,
		},
	)
	candidates := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eol_engine_candidates_total",
			Help: "Total lifecycle candidates extracted.",
		},
	)
	records := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eol_engine_records_total",
			Help: "Total summary records produced.",
		},
	)
	zeroDate := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eol_engine_zero_date_models_total",
			Help: "Models that finished a run without any resolved date.",
		},
	)

	registry.MustRegister(fetches, fetchDuration, candidates, records, zeroDate)

	return &Metrics{
		Registry:        registry,
		FetchesTotal:    fetches,
		FetchDuration:   fetchDuration,
		CandidatesTotal: candidates,
		RecordsTotal:    records,
		ZeroDateModels:  zeroDate,
	}
}

// ObserveFetch records one terminal fetch outcome.
func (m *Metrics) ObserveFetch(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(status).Inc()
	m.FetchDuration.Observe(elapsed.Seconds())
}

// AddCandidates adds to the extracted-candidate counter.
func (m *Metrics) AddCandidates(n int) {
	if m == nil || n == 0 {
		return
	}
	m.CandidatesTotal.Add(float64(n))
}

// IncRecord counts one produced summary record.
func (m *Metrics) IncRecord() {
	if m == nil {
		return
	}
	m.RecordsTotal.Inc()
}

// IncZeroDateModel counts a model that resolved no dates.
func (m *Metrics) IncZeroDateModel() {
	if m == nil {
		return
	}
	m.ZeroDateModels.Inc()
}
