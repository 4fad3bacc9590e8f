// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"posledger/internal/core/apperror"
	"posledger/internal/core/id"
	"posledger/internal/infrastructure/http/v1/middleware"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// ParamID parses the :id path parameter.
func (h *BaseHandler) ParamID(c *gin.Context) (id.ID, bool) {
	v, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("field", "id"))
		return id.ID{}, false
	}
	return v, true
}

// Error registers err on the Gin context and aborts the request.
// middleware.ErrorHandler writes the response.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Created sends 201 with body and stores it for idempotent replay.
func (h *BaseHandler) Created(c *gin.Context, body any) {
	middleware.CompleteIdempotency(c, http.StatusCreated, body)
	c.JSON(http.StatusCreated, body)
}

// OK sends 200 with body.
func (h *BaseHandler) OK(c *gin.Context, body any) {
	middleware.CompleteIdempotency(c, http.StatusOK, body)
	c.JSON(http.StatusOK, body)
}

// NoContent sends 204.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
