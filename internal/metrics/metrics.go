// Package metrics holds the service's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts cache reads served without an upstream fetch.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ncaa_cache_hits_total",
		Help: "Cache hits by TTL class.",
	}, []string{"class"})

	// CacheMisses counts cache reads that required a fetch.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ncaa_cache_misses_total",
		Help: "Cache misses by TTL class.",
	}, []string{"class"})

	// SingleflightShared counts callers that joined another caller's
	// in-flight fetch instead of issuing their own.
	SingleflightShared = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ncaa_singleflight_shared_total",
		Help: "Requests that shared an in-flight upstream fetch.",
	})

	// UpstreamFetches counts upstream calls by source and outcome.
	UpstreamFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ncaa_upstream_fetches_total",
		Help: "Upstream fetches by source kind and outcome.",
	}, []string{"source", "outcome"})

	// HashProbes counts persisted-query hash attempts, including the ones
	// that missed and forced discovery to move on.
	HashProbes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ncaa_hash_probes_total",
		Help: "Persisted-query hash probes by query kind.",
	}, []string{"query"})

	// LiveClients tracks connected websocket scoreboard clients.
	LiveClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ncaa_live_clients",
		Help: "Connected live scoreboard websocket clients.",
	})
)
