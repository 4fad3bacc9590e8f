package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "posledger/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Gin context keys set by the middleware chain.
const (
	KeyRequestID = "request_id"
	KeyTraceID   = "trace_id"
	KeyUserID    = "user_id"
)

// Trace attaches request and trace ids, reusing incoming headers.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		trace := appctx.NewTraceContext(c.GetHeader(HeaderRequestID), c.GetHeader(HeaderTraceID))

		ctx := appctx.WithTrace(c.Request.Context(), trace)
		c.Request = c.Request.WithContext(ctx)

		c.Set(KeyTraceID, trace.TraceID)
		c.Set(KeyRequestID, trace.RequestID)

		c.Header(HeaderRequestID, trace.RequestID)
		c.Header(HeaderTraceID, trace.TraceID)

		c.Next()
	}
}
