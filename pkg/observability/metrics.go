// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the recherche gateway.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ResearchBuckets covers research stage and LLM latencies, from 100ms to
// 30 minutes.
var ResearchBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600, 1800}

var (
	// RequestsTotal counts all HTTP requests by method, status class, and route.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recherche_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status", "route"},
	)

	// RequestDuration records HTTP request duration in seconds by method and route.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recherche_request_duration_seconds",
			Help:    "Request duration",
			Buckets: ResearchBuckets,
		},
		[]string{"method", "route"},
	)

	// ResearchInFlight tracks research requests currently being orchestrated.
	ResearchInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "recherche_research_in_flight",
			Help: "Research requests in progress",
		},
	)

	// StageDuration records how long each orchestration stage took.
	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recherche_stage_duration_seconds",
			Help:    "Orchestration stage duration",
			Buckets: ResearchBuckets,
		},
		[]string{"stage"},
	)

	// StageFailuresTotal counts failed orchestration stages.
	StageFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recherche_stage_failures_total",
			Help: "Orchestration stage failures",
		},
		[]string{"stage"},
	)

	// LLMRequestsTotal counts Chat Completions calls by model and outcome.
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recherche_llm_requests_total",
			Help: "LLM requests",
		},
		[]string{"model", "status"},
	)

	// LLMLatency records Chat Completions latency in seconds.
	LLMLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recherche_llm_latency_seconds",
			Help:    "LLM latency",
			Buckets: ResearchBuckets,
		},
		[]string{"model"},
	)

	// LLMTokensTotal counts tokens by direction (input/output).
	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recherche_llm_tokens_total",
			Help: "Token count",
		},
		[]string{"model", "direction"},
	)

	// SearchQueriesTotal counts web search queries by backend and outcome.
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recherche_search_queries_total",
			Help: "Web search queries",
		},
		[]string{"backend", "status"},
	)

	// SearchResultsReturned records how many results each search returned.
	SearchResultsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recherche_search_results_returned",
			Help:    "Number of web search results returned",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
		},
		[]string{"backend"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		ResearchInFlight,
		StageDuration,
		StageFailuresTotal,
		LLMRequestsTotal,
		LLMLatency,
		LLMTokensTotal,
		SearchQueriesTotal,
		SearchResultsReturned,
	)
}

// ObserveStage records the outcome of one orchestration stage.
func ObserveStage(stage string, duration time.Duration, err error) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if err != nil {
		StageFailuresTotal.WithLabelValues(stage).Inc()
	}
}

// ObserveLLM records one Chat Completions call.
func ObserveLLM(model string, duration time.Duration, inputTokens, outputTokens int, err error) {
	LLMLatency.WithLabelValues(model).Observe(duration.Seconds())
	if err != nil {
		LLMRequestsTotal.WithLabelValues(model, "error").Inc()
		return
	}
	LLMRequestsTotal.WithLabelValues(model, "success").Inc()
	LLMTokensTotal.WithLabelValues(model, "input").Add(float64(inputTokens))
	LLMTokensTotal.WithLabelValues(model, "output").Add(float64(outputTokens))
}

// ObserveSearch records one web search query.
func ObserveSearch(backend string, results int, err error) {
	if err != nil {
		SearchQueriesTotal.WithLabelValues(backend, "error").Inc()
		return
	}
	SearchQueriesTotal.WithLabelValues(backend, "success").Inc()
	SearchResultsReturned.WithLabelValues(backend).Observe(float64(results))
}
