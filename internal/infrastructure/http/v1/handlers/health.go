package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /health/ready.
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{"database": "unhealthy: " + err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{"database": "healthy"},
	})
}
