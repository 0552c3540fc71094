// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Engine metrics
	AnalysesRun          prometheus.Counter
	PayoffSimulations    *prometheus.CounterVec
	ScenarioProjections  prometheus.Counter
	SensitivitySweeps    prometheus.Counter
	AnalysisDuration     prometheus.Histogram
	SimulationDuration   *prometheus.HistogramVec
	DebtsSimulated       prometheus.Counter
	ReportsGenerated     prometheus.Counter

	// API metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestErrors   *prometheus.CounterVec

	// WebSocket metrics
	WSConnections       prometheus.Gauge
	WSMessagesProcessed prometheus.Counter
	WSMessageErrors     prometheus.Counter

	// Health metrics
	LastSuccessfulAnalysis prometheus.Gauge
	UptimeSeconds          prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "capital_lab"
	}

	return &Metrics{
		// Engine metrics
		AnalysesRun: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "analyses_run_total",
			Help:      "Total number of full analyses run",
		}),
		PayoffSimulations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "payoff_simulations_total",
			Help:      "Total number of payoff simulations by strategy",
		}, []string{"strategy"}),
		ScenarioProjections: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "scenario_projections_total",
			Help:      "Total number of scenario projections computed",
		}),
		SensitivitySweeps: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "sensitivity_sweeps_total",
			Help:      "Total number of sensitivity sweeps computed",
		}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "analysis_duration_seconds",
			Help:      "Full analysis duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		SimulationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "simulation_duration_seconds",
			Help:      "Payoff simulation duration in seconds by strategy",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
		DebtsSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "debts_simulated_total",
			Help:      "Total number of debt items fed through the simulator",
		}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		// API metrics
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests by endpoint and status",
		}, []string{"endpoint", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		RequestErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_errors_total",
			Help:      "Total number of API request errors by endpoint",
		}, []string{"endpoint"}),

		// WebSocket metrics
		WSConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "connections",
			Help:      "Current number of live WebSocket connections",
		}),
		WSMessagesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "messages_processed_total",
			Help:      "Total number of WebSocket recompute messages processed",
		}),
		WSMessageErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "message_errors_total",
			Help:      "Total number of malformed WebSocket messages",
		}),

		// Health metrics
		LastSuccessfulAnalysis: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_analysis_timestamp",
			Help:      "Unix timestamp of last successful analysis",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordAnalysis records one full engine run.
func RecordAnalysis(seconds float64) {
	DefaultMetrics.AnalysesRun.Inc()
	DefaultMetrics.AnalysisDuration.Observe(seconds)
	DefaultMetrics.LastSuccessfulAnalysis.SetToCurrentTime()
}

// RecordSimulation records one payoff simulation.
func RecordSimulation(strategy string, debts int, seconds float64) {
	DefaultMetrics.PayoffSimulations.WithLabelValues(strategy).Inc()
	DefaultMetrics.SimulationDuration.WithLabelValues(strategy).Observe(seconds)
	DefaultMetrics.DebtsSimulated.Add(float64(debts))
}

// RecordProjection increments the scenario projections counter.
func RecordProjection() {
	DefaultMetrics.ScenarioProjections.Inc()
}

// RecordSensitivity increments the sensitivity sweeps counter.
func RecordSensitivity() {
	DefaultMetrics.SensitivitySweeps.Inc()
}

// RecordReport increments the reports generated counter.
func RecordReport() {
	DefaultMetrics.ReportsGenerated.Inc()
}

// RecordRequest records one API request.
func RecordRequest(endpoint, status string, seconds float64) {
	DefaultMetrics.RequestsTotal.WithLabelValues(endpoint, status).Inc()
	DefaultMetrics.RequestDuration.WithLabelValues(endpoint).Observe(seconds)
}

// RecordRequestError records one failed API request.
func RecordRequestError(endpoint string) {
	DefaultMetrics.RequestErrors.WithLabelValues(endpoint).Inc()
}
