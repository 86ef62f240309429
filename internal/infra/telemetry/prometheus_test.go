package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestPrometheusMetrics_RegistersAndLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(registry)

	metrics.ObserveToolCall("rag.query", 20*time.Millisecond, nil)
	metrics.ObserveToolCall("rag.query", 5*time.Millisecond, errors.New("boom"))
	metrics.ObserveRemoteRequest("query", 10*time.Millisecond, nil)
	metrics.ObserveKeyValidation(true)
	metrics.ObserveKeyValidation(false)
	metrics.ObserveIngestPoll("pending")
	metrics.ObserveIngestPoll("succeeded")

	families, err := registry.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, family := range families {
		byName[family.GetName()] = family
	}

	require.Contains(t, byName, "ragmcp_tool_call_duration_seconds")
	require.Contains(t, byName, "ragmcp_remote_requests_total")
	require.Contains(t, byName, "ragmcp_key_validations_total")
	require.Contains(t, byName, "ragmcp_ingest_polls_total")

	// One series per status label for the tool histogram.
	assert.Len(t, byName["ragmcp_tool_call_duration_seconds"].GetMetric(), 2)

	validations := byName["ragmcp_key_validations_total"].GetMetric()
	require.Len(t, validations, 2)
	for _, metric := range validations {
		assert.Equal(t, float64(1), metric.GetCounter().GetValue())
	}
}

func TestNoopMetricsSatisfiesInterface(t *testing.T) {
	metrics := NewNoopMetrics()
	metrics.ObserveToolCall("rag.stats", time.Millisecond, nil)
	metrics.ObserveRemoteRequest("stats", time.Millisecond, nil)
	metrics.ObserveKeyValidation(false)
	metrics.ObserveIngestPoll("timeout")
}
