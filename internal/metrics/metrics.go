// Package metrics exposes the gateway's Prometheus counters, grounded in
// DimaJoyti-ai-agentic-crypto-browser/pkg/observability/metrics.go's direct
// use of github.com/prometheus/client_golang (unlike that file, this one
// skips the OpenTelemetry SDK layer — there is no distributed tracing
// surface in this system to justify it).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchcore",
		Name:      "orders_total",
		Help:      "Orders accepted by the Command Surface, by symbol and side.",
	}, []string{"symbol", "side"})

	RejectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchcore",
		Name:      "order_rejects_total",
		Help:      "Orders rejected at validation, by reason.",
	}, []string{"reason"})

	TradesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchcore",
		Name:      "trades_total",
		Help:      "Trades emitted by the matching engine, by symbol.",
	}, []string{"symbol"})

	AddLatencySeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "matchcore",
		Name:      "add_order_latency_seconds",
		Help:      "Latency of a single Add call including crossing and resting.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"symbol"})
)

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
