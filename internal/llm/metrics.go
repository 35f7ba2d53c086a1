package llm

import "github.com/prometheus/client_golang/prometheus"

var (
	// llmReqs counts provider calls by service type and outcome
	// (ok, provider_error, config_error, unsupported, timeout).
	llmReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total number of LLM provider calls.",
		},
		[]string{"service_type", "outcome"},
	)

	// llmLat records provider round-trip time.
	llmLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Duration of LLM provider calls in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60, 120},
		},
		[]string{"service_type"},
	)
)

func init() {
	prometheus.MustRegister(llmReqs, llmLat)
}
