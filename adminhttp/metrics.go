package adminhttp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metric definitions for the MCP runtime, mirrored one-to-one
// against the mcp.Metrics hook.
var (
	sessionsOpenedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mcp_sessions_opened_total",
		Help: "Total MCP sessions (client or server) that completed the handshake.",
	})
	sessionsClosedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mcp_sessions_closed_total",
		Help: "Total MCP sessions that have ended.",
	})
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mcp_request_duration_seconds",
			Help:    "Dispatch latency of a handled request, by method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	pendingRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mcp_pending_requests",
		Help: "Outstanding requests awaiting a reply on the current connection.",
	})
	peerErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_peer_errors_total",
			Help: "JSON-RPC error responses received from a peer, by code.",
		},
		[]string{"code"},
	)
)

// metricsRegistry is a dedicated registry, kept separate from the global
// default registry so embedding this package never collides with a host
// application's own Prometheus metrics.
var metricsRegistry = prometheus.NewRegistry()

func init() {
	metricsRegistry.MustRegister(
		sessionsOpenedTotal,
		sessionsClosedTotal,
		requestDuration,
		pendingRequests,
		peerErrorsTotal,
	)
}

// PrometheusMetrics implements mcp.Metrics by recording into this package's
// Prometheus registry, served at /metrics by Server.
type PrometheusMetrics struct{}

// SessionOpened implements mcp.Metrics.
func (PrometheusMetrics) SessionOpened() { sessionsOpenedTotal.Inc() }

// SessionClosed implements mcp.Metrics.
func (PrometheusMetrics) SessionClosed() { sessionsClosedTotal.Inc() }

// RequestDispatched implements mcp.Metrics.
func (PrometheusMetrics) RequestDispatched(method string, d time.Duration) {
	requestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// PendingRequests implements mcp.Metrics.
func (PrometheusMetrics) PendingRequests(n int) { pendingRequests.Set(float64(n)) }

// PeerError implements mcp.Metrics.
func (PrometheusMetrics) PeerError(code int) {
	peerErrorsTotal.WithLabelValues(codeLabel(code)).Inc()
}

func codeLabel(code int) string {
	switch code {
	case -32601:
		return "method_not_found"
	case -32602:
		return "invalid_params"
	case -32603:
		return "internal_error"
	default:
		return "other"
	}
}
