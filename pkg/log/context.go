package log

import (
	"context"

	"github.com/google/uuid"
)

// WithTraceID returns a context carrying the given trace id.
// Every log line written with that context gets a trace_id field.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, traceID)
}

// NewTraceContext attaches a freshly generated trace id.
func NewTraceContext(ctx context.Context) context.Context {
	return WithTraceID(ctx, uuid.NewString())
}

// TraceID returns the trace id stored in ctx, or "".
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}
