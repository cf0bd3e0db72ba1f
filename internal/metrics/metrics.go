// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts served requests by method, route pattern and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookswap_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookswap_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// TradeRequestsCreated counts trade requests recorded in the ledger.
	TradeRequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookswap_trade_requests_created_total",
		Help: "Total number of trade requests created",
	})

	// TradeStatusUpdates counts receiver decisions by resulting status.
	TradeStatusUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookswap_trade_status_updates_total",
		Help: "Total number of trade request status updates",
	}, []string{"status"})

	// WebhookDeliveries counts webhook delivery attempts by event and outcome.
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookswap_webhook_deliveries_total",
		Help: "Total number of webhook deliveries",
	}, []string{"event", "outcome"})

	// SearchCache counts search cache lookups by result (hit, miss, error).
	SearchCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookswap_search_cache_total",
		Help: "Total number of book search cache lookups",
	}, []string{"result"})

	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookswap_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})
)
