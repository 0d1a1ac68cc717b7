// Package metrics holds the Prometheus instrumentation for tool calls and
// upstream Help Scout requests.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tool call outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DefaultDurationBuckets cover fast validation failures up to the upstream timeout.
var DefaultDurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Metrics groups the collectors exported by the server.
type Metrics struct {
	// ToolCallsTotal counts tool invocations by tool and status.
	ToolCallsTotal *prometheus.CounterVec
	// ToolCallDuration observes end-to-end tool latency.
	ToolCallDuration *prometheus.HistogramVec
	// UpstreamRequestsTotal counts Help Scout requests by endpoint and HTTP code.
	// Requests that never got a response use code "0".
	UpstreamRequestsTotal *prometheus.CounterVec
	// UpstreamRequestDuration observes Help Scout request latency.
	UpstreamRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ToolCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helpscout_mcp_tool_calls_total",
			Help: "Total number of MCP tool calls",
		}, []string{"tool", "status"}),

		ToolCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "helpscout_mcp_tool_call_duration_seconds",
			Help:    "MCP tool call duration in seconds",
			Buckets: DefaultDurationBuckets,
		}, []string{"tool"}),

		UpstreamRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helpscout_mcp_upstream_requests_total",
			Help: "Total number of requests sent to the Help Scout Docs API",
		}, []string{"endpoint", "code"}),

		UpstreamRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "helpscout_mcp_upstream_request_duration_seconds",
			Help:    "Help Scout Docs API request duration in seconds",
			Buckets: DefaultDurationBuckets,
		}, []string{"endpoint"}),
	}
}

// RecordToolCall records one tool invocation. Safe to call on a nil receiver.
func (m *Metrics) RecordToolCall(tool string, failed bool, d time.Duration) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if failed {
		status = StatusError
	}
	m.ToolCallsTotal.WithLabelValues(tool, status).Inc()
	m.ToolCallDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// RecordUpstream records one upstream request. Safe to call on a nil receiver.
func (m *Metrics) RecordUpstream(endpoint string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
	m.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}
