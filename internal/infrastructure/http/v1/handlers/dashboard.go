package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"posledger/internal/domain/reports"
	"posledger/internal/infrastructure/http/v1/dto"
)

// DashboardHandler serves /dashboard.
type DashboardHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler(base *BaseHandler, service *reports.Service) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base, service: service}
}

// Get handles GET /dashboard.
func (h *DashboardHandler) Get(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromDashboard(d))
}
