// Package metrics holds the client's Prometheus collectors. They live on the
// default registry, which the BFF serves on /metrics beside echo's request
// metrics; one-shot CLI runs record into it and never expose it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stationery_admin"

func counter(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

var (
	// GatewayRequestsTotal is labelled by method and status code, or "error"
	// when no response arrived.
	GatewayRequestsTotal = counter("gateway", "requests_total",
		"Requests sent to the upstream API.", "method", "status")

	GatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "request_duration_seconds",
		Help:      "Upstream round trip including the body read.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method"})
)

var (
	// SessionRefreshTotal results are ok, failed or missing.
	SessionRefreshTotal = counter("session", "refresh_total",
		"Credential refresh attempts.", "result")

	// SessionState is 1 for the current state and 0 for the rest.
	SessionState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "state",
		Help:      "Session state indicator.",
	}, []string{"state"})
)

// CompletionsTotal is labelled by kind (order, printout) and result (ok, error).
var CompletionsTotal = counter("board", "completions_total",
	"Mark-complete requests.", "kind", "result")
