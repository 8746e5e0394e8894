package metrics

import "github.com/prometheus/client_golang/prometheus"

// Command and record Prometheus metrics.
var (
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recordbook",
			Name:      "commands_total",
			Help:      "Total number of dispatched commands",
		},
		[]string{"source", "outcome"},
	)

	InterpreterRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recordbook",
			Name:      "interpreter_request_duration_seconds",
			Help:      "Command interpreter request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"backend"},
	)

	InterpreterRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recordbook",
			Name:      "interpreter_requests_total",
			Help:      "Total number of command interpreter requests",
		},
		[]string{"backend", "status"},
	)

	ClassificationCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recordbook",
			Name:      "classification_cache_total",
			Help:      "Classification cache lookups",
		},
		[]string{"result"}, // hit, miss
	)

	RecordsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recordbook",
			Name:      "records_created_total",
			Help:      "Total records created",
		},
		[]string{"module"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recordbook",
			Name:      "search_results",
			Help:      "Number of rows returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
		[]string{"module", "mode"}, // mode: all / specific / fallback
	)
)

// Command outcome label values.
const (
	OutcomeSearched     = "searched"
	OutcomeUnrecognized = "unrecognized"
	OutcomeEmpty        = "empty"
	OutcomeBusy         = "busy"
	OutcomeError        = "error"
)

var cmdMetricsRegistered bool

// RegisterCommandMetrics registers command, interpreter and record metrics. Must be called once from main.
func RegisterCommandMetrics() {
	if cmdMetricsRegistered {
		return
	}
	prometheus.MustRegister(CommandsTotal)
	prometheus.MustRegister(InterpreterRequestDuration)
	prometheus.MustRegister(InterpreterRequestsTotal)
	prometheus.MustRegister(ClassificationCacheTotal)
	prometheus.MustRegister(RecordsCreatedTotal)
	prometheus.MustRegister(SearchResults)
	cmdMetricsRegistered = true
}
