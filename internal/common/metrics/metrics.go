package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_queries_total",
			Help: "Total number of queries handled, by intent type",
		},
		[]string{"intent_type"},
	)

	QueriesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_queries_failed_total",
			Help: "Total number of queries that returned an error result",
		},
		[]string{"intent_type", "error_code"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "advisor_query_duration_seconds",
			Help: "Duration of query handling in seconds",
		},
		[]string{"intent_type"},
	)

	AliasLookups = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_alias_lookups_total",
			Help: "Total number of peer alias lookups issued",
		},
	)

	AliasLookupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_alias_lookup_failures_total",
			Help: "Total number of peer alias lookups that failed",
		},
	)

	AliasCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_alias_cache_hits_total",
			Help: "Total number of alias lookups served from cache",
		},
	)
)
