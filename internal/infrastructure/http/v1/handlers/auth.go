package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"posledger/internal/domain/auth"
	"posledger/internal/infrastructure/http/v1/dto"
	"posledger/pkg/logger"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLoginResponse(token, user))
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUser(user))
}

// Logout handles POST /auth/logout. Tokens are stateless, so the client
// discards its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	logger.Info(c.Request.Context(), "user logged out")
	h.NoContent(c)
}
