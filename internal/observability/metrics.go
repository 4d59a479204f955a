package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Upstream gateway metrics.
	GatewayRequests *prometheus.CounterVec   // labels: endpoint, outcome={success,service_error,network_error,status_error,circuit_open}
	GatewayDuration *prometheus.HistogramVec // labels: endpoint

	// Orchestration metrics.
	Submissions    *prometheus.CounterVec // labels: tab, outcome={success,error,invalid,awaiting_date}
	StaleResponses prometheus.Counter

	// Session metrics.
	ActiveSessions  prometheus.Gauge
	SessionsEvicted prometheus.Counter
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)

	prometheus.MustRegister(
		m.GatewayRequests,
		m.GatewayDuration,
		m.Submissions,
		m.StaleResponses,
		m.ActiveSessions,
		m.SessionsEvicted,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they need without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}

	return &Metrics{
		GatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherstack_dashboard",
			Name:      "gateway_requests_total",
			Help:      help("Upstream weather API requests by endpoint and outcome."),
		}, []string{"endpoint", "outcome"}),
		GatewayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weatherstack_dashboard",
			Name:      "gateway_request_duration_seconds",
			Help:      help("Upstream weather API request duration in seconds."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherstack_dashboard",
			Name:      "submissions_total",
			Help:      help("Dashboard query submissions by tab and outcome."),
		}, []string{"tab", "outcome"}),
		StaleResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weatherstack_dashboard",
			Name:      "stale_responses_total",
			Help:      help("Responses discarded because a newer submission superseded them."),
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weatherstack_dashboard",
			Name:      "active_sessions",
			Help:      help("Number of live dashboard sessions."),
		}),
		SessionsEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weatherstack_dashboard",
			Name:      "sessions_evicted_total",
			Help:      help("Dashboard sessions removed after being idle."),
		}),
	}
}
