// Package metrics exposes credential store activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StoreMetrics records store events. Create one per registry.
type StoreMetrics struct {
	added           *prometheus.CounterVec
	rejected        *prometheus.CounterVec
	enumerations    *prometheus.CounterVec
	openEnumerators prometheus.Gauge
	clears          prometheus.Counter
}

// NewStoreMetrics registers the store collectors with reg
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	factory := promauto.With(reg)

	return &StoreMetrics{
		added: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ikecreds_credentials_added_total",
				Help: "Credentials inserted into the store",
			},
			[]string{"kind"},
		),
		rejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ikecreds_credentials_rejected_total",
				Help: "Credentials that could not be parsed or materialized",
			},
			[]string{"kind"},
		),
		enumerations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ikecreds_enumerations_total",
				Help: "Enumerators handed out, by credential kind and outcome",
			},
			[]string{"kind", "result"},
		),
		openEnumerators: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ikecreds_open_enumerators",
				Help: "Enumerators currently holding the store read lock",
			},
		),
		clears: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ikecreds_clears_total",
				Help: "Number of times the store was cleared",
			},
		),
	}
}

// CredentialAdded counts a successful insert
func (m *StoreMetrics) CredentialAdded(kind string) {
	m.added.WithLabelValues(kind).Inc()
}

// CredentialRejected counts a failed parse or key materialization
func (m *StoreMetrics) CredentialRejected(kind string) {
	m.rejected.WithLabelValues(kind).Inc()
}

// Enumeration counts an enumerate call; result is "lock", "empty" or "none"
func (m *StoreMetrics) Enumeration(kind, result string) {
	m.enumerations.WithLabelValues(kind, result).Inc()
}

// EnumeratorOpened tracks a read lock taken on behalf of a caller
func (m *StoreMetrics) EnumeratorOpened() {
	m.openEnumerators.Inc()
}

// EnumeratorClosed tracks the matching release
func (m *StoreMetrics) EnumeratorClosed() {
	m.openEnumerators.Dec()
}

// Cleared counts a Clear call
func (m *StoreMetrics) Cleared() {
	m.clears.Inc()
}

// RegisterStoredCredentials exports the current number of stored
// credentials per kind. counts is called at scrape time and must be safe
// for concurrent use.
func RegisterStoredCredentials(reg prometheus.Registerer, counts func() map[string]int) {
	factory := promauto.With(reg)
	for _, kind := range []string{"certificate", "private_key", "shared"} {
		factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        "ikecreds_stored_credentials",
				Help:        "Credentials currently held by the store",
				ConstLabels: prometheus.Labels{"kind": kind},
			},
			func() float64 {
				return float64(counts()[kind])
			},
		)
	}
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
