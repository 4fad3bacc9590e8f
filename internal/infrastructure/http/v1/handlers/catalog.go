package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"posledger/internal/core/entity"
	"posledger/internal/domain"
	"posledger/internal/infrastructure/http/v1/dto"
)

// CatalogHandler provides generic HTTP handlers for registry entities
// (stock items, suppliers, employees).
type CatalogHandler[T entity.Validatable, CreateDTO any, UpdateDTO any, R any] struct {
	*BaseHandler
	service *domain.CatalogService[T]

	mapCreateDTO func(dto CreateDTO) T
	mapUpdateDTO func(dto UpdateDTO, existing T) T
	mapToDTO     func(entity T) R
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T entity.Validatable, CreateDTO any, UpdateDTO any, R any] struct {
	Service      *domain.CatalogService[T]
	MapCreateDTO func(dto CreateDTO) T
	MapUpdateDTO func(dto UpdateDTO, existing T) T
	MapToDTO     func(entity T) R
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T entity.Validatable, CreateDTO any, UpdateDTO any, R any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO, R],
) *CatalogHandler[T, CreateDTO, UpdateDTO, R] {
	return &CatalogHandler[T, CreateDTO, UpdateDTO, R]{
		BaseHandler:  base,
		service:      cfg.Service,
		mapCreateDTO: cfg.MapCreateDTO,
		mapUpdateDTO: cfg.MapUpdateDTO,
		mapToDTO:     cfg.MapToDTO,
	}
}

// List handles GET /{entity}.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO, R]) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(result, h.mapToDTO))
}

// Get handles GET /{entity}/:id.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO, R]) Get(c *gin.Context) {
	entityID, ok := h.ParamID(c)
	if !ok {
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, h.mapToDTO(e))
}

// GetByName handles GET /{entity}/by-name/:name.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO, R]) GetByName(c *gin.Context) {
	e, err := h.service.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, h.mapToDTO(e))
}

// Create handles POST /{entity}.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO, R]) Create(c *gin.Context) {
	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	e := h.mapCreateDTO(req)
	if err := h.service.Create(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, h.mapToDTO(e))
}

// Update handles PUT /{entity}/:id.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO, R]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, ok := h.ParamID(c)
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated := h.mapUpdateDTO(req, existing)
	if err := h.service.Update(ctx, updated); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.mapToDTO(updated))
}

// Delete handles DELETE /{entity}/:id as a soft delete.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO, R]) Delete(c *gin.Context) {
	entityID, ok := h.ParamID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
