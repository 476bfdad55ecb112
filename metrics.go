package caravansite

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the site's Prometheus counters.
type Metrics struct {
	registry *prometheus.Registry

	leadsSubmitted  *prometheus.CounterVec
	leadValidations prometheus.Counter
	leadWriteFails  prometheus.Counter
	fetchFails      *prometheus.CounterVec
}

// NewMetrics creates and registers the site's counters on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		leadsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caravansite_leads_submitted_total",
			Help: "Lead documents written, by collection.",
		}, []string{"collection"}),
		leadValidations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caravansite_lead_validation_failures_total",
			Help: "Lead submissions rejected by required-field validation.",
		}),
		leadWriteFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caravansite_lead_write_failures_total",
			Help: "Lead submissions that failed at the store write.",
		}),
		fetchFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caravansite_content_fetch_failures_total",
			Help: "Content listing reads that failed, by collection.",
		}, []string{"collection"}),
	}
	m.registry.MustRegister(m.leadsSubmitted, m.leadValidations, m.leadWriteFails, m.fetchFails)
	return m
}

// RecordLeadSubmitted counts a successful lead write.
func (m *Metrics) RecordLeadSubmitted(collection string) {
	m.leadsSubmitted.WithLabelValues(collection).Inc()
}

// RecordLeadValidationFailure counts a rejected submission.
func (m *Metrics) RecordLeadValidationFailure() {
	m.leadValidations.Inc()
}

// RecordLeadWriteFailure counts a failed store write.
func (m *Metrics) RecordLeadWriteFailure() {
	m.leadWriteFails.Inc()
}

// RecordFetchFailure counts a failed content listing read.
func (m *Metrics) RecordFetchFailure(collection string) {
	m.fetchFails.WithLabelValues(collection).Inc()
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
