package context

import (
	"context"

	"github.com/google/uuid"
)

// TraceContext carries correlation ids for one request.
type TraceContext struct {
	TraceID   string
	RequestID string
}

type traceContextKey struct{}

// WithTrace adds TraceContext to context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns TraceContext from context.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetTraceID returns the trace id or empty string outside a request.
func GetTraceID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.TraceID
	}
	return ""
}

// GetRequestID returns request ID from context or empty string.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// NewTraceContext creates a TraceContext, reusing incoming ids when present.
func NewTraceContext(requestID, traceID string) *TraceContext {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	if traceID == "" {
		traceID = requestID
	}
	return &TraceContext{TraceID: traceID, RequestID: requestID}
}
