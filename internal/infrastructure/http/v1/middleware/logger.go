package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"posledger/pkg/logger"
)

// Logger middleware logs HTTP requests with timing and status.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "error", c.Errors.Last().Error())
		}

		l := log.WithContext(c.Request.Context())
		if status >= 500 {
			l.Errorw("http request", kv...)
			return
		}
		l.Infow("http request", kv...)
	}
}
