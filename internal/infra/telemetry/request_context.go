package telemetry

import (
	"context"

	"github.com/google/uuid"
)

// RequestIDHeader is forwarded on every backend HTTP call.
const RequestIDHeader = "X-Request-Id"

type requestContextKey struct{}

// WithRequestID attaches a request identifier to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestContextKey{}, id)
}

// RequestIDFromContext returns the request identifier, if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestContextKey{}).(string)
	return id, ok && id != ""
}

// NewRequestID mints a fresh request identifier.
func NewRequestID() string {
	return uuid.NewString()
}
