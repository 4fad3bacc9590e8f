package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"posledger/internal/core/apperror"
	"posledger/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// It is the only writer of error bodies. Internal causes are logged and
// never returned to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := errorBody(c, err)

		if appErr, ok := apperror.AsAppError(err); ok && appErr.Err != nil {
			logger.Error(c.Request.Context(), "request error",
				"code", appErr.Code,
				"cause", appErr.Err,
			)
		} else if !ok {
			logger.Error(c.Request.Context(), "unhandled error", "error", err)
		}

		failIdempotencyKey(c, status, body)
		c.JSON(status, body)
	}
}

func errorBody(c *gin.Context, err error) (int, gin.H) {
	if appErr, ok := apperror.AsAppError(err); ok {
		details := appErr.Details
		if details == nil {
			details = map[string]any{}
		}
		return appErr.HTTPStatus, gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
			"details": details,
		}
	}
	return http.StatusInternalServerError, gin.H{
		"code":    apperror.CodeInternal,
		"message": "Internal server error",
		"details": map[string]any{
			"request_id": c.GetString(KeyRequestID),
		},
	}
}
