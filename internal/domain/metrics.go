package domain

import "time"

// Metrics receives observability signals from the adapter. Implementations
// must be safe for concurrent use.
type Metrics interface {
	ObserveToolCall(tool string, duration time.Duration, err error)
	ObserveRemoteRequest(op string, duration time.Duration, err error)
	ObserveKeyValidation(hit bool)
	ObserveIngestPoll(outcome string)
}
