package metrics

import "github.com/prometheus/client_golang/prometheus"

// Oracle and ranking Prometheus metrics.
var (
	OracleRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_requests_total",
			Help:      "Total number of relevance oracle requests",
		},
		[]string{"provider", "model", "status"},
	)

	OracleRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_request_duration_seconds",
			Help:      "Relevance oracle request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)

	OracleErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_errors_total",
			Help:      "Total relevance oracle errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	SignalCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signal_cache_total",
			Help:      "Signal cache hits and misses",
		},
		[]string{"kind", "result"}, // kind: "analysis" / "vector"; result: "hit" / "miss"
	)

	RankFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_fallback_total",
			Help:      "Rank stage fallbacks to unranked order",
		},
		[]string{"stage"},
	)

	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Recommendation requests by outcome",
		},
		[]string{"outcome"}, // "ranked" / "unranked" / "no_match" / "error"
	)
)

var oracleMetricsRegistered bool

// RegisterOracleMetrics registers oracle and ranking metrics. Must be called once from main.
func RegisterOracleMetrics() {
	if oracleMetricsRegistered {
		return
	}
	prometheus.MustRegister(OracleRequestsTotal)
	prometheus.MustRegister(OracleRequestDuration)
	prometheus.MustRegister(OracleErrorsTotal)
	prometheus.MustRegister(SignalCacheTotal)
	prometheus.MustRegister(RankFallbackTotal)
	prometheus.MustRegister(RecommendationsTotal)
	oracleMetricsRegistered = true
}
