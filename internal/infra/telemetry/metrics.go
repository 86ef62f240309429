package telemetry

import (
	"time"

	"github.com/fengshao1227/woerk-rag-sub001/internal/domain"
)

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveToolCall(_ string, _ time.Duration, _ error) {}

func (n *NoopMetrics) ObserveRemoteRequest(_ string, _ time.Duration, _ error) {}

func (n *NoopMetrics) ObserveKeyValidation(_ bool) {}

func (n *NoopMetrics) ObserveIngestPoll(_ string) {}

var _ domain.Metrics = (*NoopMetrics)(nil)
