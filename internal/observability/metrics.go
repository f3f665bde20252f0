package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the API surface.
type Metrics struct {
	ReportsCreated  prometheus.Counter
	ReportsVerified *prometheus.CounterVec // labels: outcome={verified,false_alarm}
	NearQueries     prometheus.Counter
	ZoneQueries     prometheus.Counter
	SummaryRequests prometheus.Counter
	StreamClients   prometheus.Gauge
}

// NewMetrics creates and registers all collectors with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReportsCreated,
		m.ReportsVerified,
		m.NearQueries,
		m.ZoneQueries,
		m.SummaryRequests,
		m.StreamClients,
	)
	return m
}

// NewMetricsForTesting creates unregistered collectors so parallel
// tests do not trip "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "resq",
			Name:      "reports_created_total",
			Help:      "Total disaster reports accepted.",
		}),
		ReportsVerified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resq",
			Name:      "reports_verified_total",
			Help:      "Verification decisions by outcome.",
		}, []string{"outcome"}),
		NearQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "resq",
			Name:      "near_queries_total",
			Help:      "Total radius queries against the report set.",
		}),
		ZoneQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "resq",
			Name:      "zone_queries_total",
			Help:      "Total danger-zone containment checks.",
		}),
		SummaryRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "resq",
			Name:      "summary_requests_total",
			Help:      "Total hazard summary requests.",
		}),
		StreamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "resq",
			Name:      "stream_clients",
			Help:      "Currently connected report stream subscribers.",
		}),
	}
}
