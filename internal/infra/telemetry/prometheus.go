package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fengshao1227/woerk-rag-sub001/internal/domain"
)

type PrometheusMetrics struct {
	toolCallDuration *prometheus.HistogramVec
	remoteRequests   *prometheus.CounterVec
	keyValidations   *prometheus.CounterVec
	ingestPolls      *prometheus.CounterVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		toolCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ragmcp_tool_call_duration_seconds",
				Help:    "Duration of MCP tool calls in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 120},
			},
			[]string{"tool", "status"},
		),
		remoteRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ragmcp_remote_requests_total",
				Help: "Total number of requests issued to the knowledge-base API",
			},
			[]string{"op", "status"},
		),
		keyValidations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ragmcp_key_validations_total",
				Help: "API key validation lookups by cache outcome",
			},
			[]string{"outcome"},
		),
		ingestPolls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ragmcp_ingest_polls_total",
				Help: "Ingestion status polls by outcome",
			},
			[]string{"outcome"},
		),
	}
}

func (p *PrometheusMetrics) ObserveToolCall(tool string, duration time.Duration, err error) {
	p.toolCallDuration.WithLabelValues(tool, statusLabel(err)).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) ObserveRemoteRequest(op string, _ time.Duration, err error) {
	p.remoteRequests.WithLabelValues(op, statusLabel(err)).Inc()
}

func (p *PrometheusMetrics) ObserveKeyValidation(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	p.keyValidations.WithLabelValues(outcome).Inc()
}

func (p *PrometheusMetrics) ObserveIngestPoll(outcome string) {
	p.ingestPolls.WithLabelValues(outcome).Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
