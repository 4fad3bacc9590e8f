package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"posledger/internal/core/apperror"
	"posledger/internal/core/id"
	"posledger/internal/domain"
	"posledger/internal/domain/attendance"
	"posledger/internal/infrastructure/http/v1/dto"
)

// AttendanceHandler serves /attendance.
type AttendanceHandler struct {
	*BaseHandler
	service *attendance.Service
}

// NewAttendanceHandler creates the attendance handler.
func NewAttendanceHandler(base *BaseHandler, service *attendance.Service) *AttendanceHandler {
	return &AttendanceHandler{BaseHandler: base, service: service}
}

// Today handles GET /attendance/today.
func (h *AttendanceHandler) Today(c *gin.Context) {
	sheet, err := h.service.Today(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromSheet(sheet))
}

// Mark handles POST /attendance.
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req dto.MarkAttendanceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rec, err := h.service.Mark(c.Request.Context(), req.EmployeeUUID(), *req.Present)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromRecord(rec))
}

// List handles GET /attendance?date= or ?employeeId=.
func (h *AttendanceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var q dto.AttendanceQuery
	if !h.BindQuery(c, &q) {
		return
	}

	switch {
	case q.Date != "" && q.EmployeeID != "":
		h.Error(c, apperror.NewValidation("use either date or employeeId"))
	case q.Date != "":
		date, _ := dto.ParseDate(q.Date)
		records, err := h.service.ListByDate(ctx, date)
		if err != nil {
			h.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": dto.FromRecords(records)})
	case q.EmployeeID != "":
		employeeID, _ := id.Parse(q.EmployeeID)
		page := domain.ListFilter{Limit: q.Limit, Offset: q.Offset}.Normalize()
		result, err := h.service.ListByEmployee(ctx, employeeID, page)
		if err != nil {
			h.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewListResponse(result, dto.FromRecord))
	default:
		h.Error(c, apperror.NewValidation("date or employeeId is required"))
	}
}
