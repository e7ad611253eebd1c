// Package metrics defines and registers the Prometheus metrics of the finance
// gateway. It is the single source of truth for metric names, labels, and help
// strings.
//
// All metrics register with the default Prometheus registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "finance_gateway"

// ── Dispatcher metrics ────────────────────────────────────────────────────────

// RequestsTotal counts requests sent to the finance service.
// Labels:
//   - method: HTTP method
//   - route: path template (e.g. "transactions/:id")
//   - outcome: "ok", "auth_required", "network_error", "api_error", "malformed"
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of requests dispatched to the finance service.",
	},
	[]string{"method", "route", "outcome"},
)

// RequestDuration measures round-trip time of requests that reached the network.
// Labels:
//   - method, route: as above
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of finance service requests, from send to decoded body.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Domain operation metrics ──────────────────────────────────────────────────

// FallbacksTotal counts caller-safe operations that returned their zero-valued
// fallback instead of server data.
// Label:
//   - operation: "fetch_transactions" or "dashboard"
var FallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallbacks_total",
		Help:      "Total number of caller-safe operations that fell back to an empty result.",
	},
	[]string{"operation"},
)

// SessionWritesTotal counts session store mutations.
// Labels:
//   - op: "save", "merge", "clear"
//   - result: "ok" or "error"
var SessionWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_writes_total",
		Help:      "Total number of session store mutations, by operation and result.",
	},
	[]string{"op", "result"},
)

// Result maps an error to the "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ── Reference service metrics ─────────────────────────────────────────────────

// ServerRequestsTotal counts requests served by the reference finance service.
// Labels:
//   - method: HTTP method
//   - route: echo route template (e.g. "/api/transactions/:id")
//   - status: response status code
var ServerRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "server",
		Name:      "requests_total",
		Help:      "Total number of requests served by the reference finance service.",
	},
	[]string{"method", "route", "status"},
)

// ServerRequestDuration measures handler latency of the reference service.
var ServerRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "server",
		Name:      "request_duration_seconds",
		Help:      "Duration of requests served by the reference finance service.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)
