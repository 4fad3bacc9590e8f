package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"posledger/internal/domain/documents/bill"
	"posledger/internal/infrastructure/http/v1/dto"
)

// BillHandler serves /purchases or /sales, depending on direction.
type BillHandler struct {
	*BaseHandler
	engine    *bill.Engine
	direction bill.Direction
}

// NewBillHandler creates a bill handler for one direction.
func NewBillHandler(base *BaseHandler, engine *bill.Engine, dir bill.Direction) *BillHandler {
	return &BillHandler{BaseHandler: base, engine: engine, direction: dir}
}

// List handles GET /{bills}.
func (h *BillHandler) List(c *gin.Context) {
	var q dto.BillListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.engine.List(c.Request.Context(), q.ToFilter(h.direction))
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(result, dto.FromBill))
}

// Get handles GET /{bills}/:id and returns the full aggregate.
func (h *BillHandler) Get(c *gin.Context) {
	billID, ok := h.ParamID(c)
	if !ok {
		return
	}

	b, err := h.engine.Get(c.Request.Context(), h.direction, billID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBill(b))
}

// Create handles POST /{bills}.
func (h *BillHandler) Create(c *gin.Context) {
	var in bill.CreateInput
	switch h.direction {
	case bill.DirectionPurchase:
		var req dto.CreatePurchaseRequest
		if !h.BindJSON(c, &req) {
			return
		}
		in = req.ToInput()
	default:
		var req dto.CreateSaleRequest
		if !h.BindJSON(c, &req) {
			return
		}
		in = req.ToInput()
	}

	b, err := h.engine.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromBill(b))
}

// Delete handles DELETE /{bills}/:id. Stock taken or added by the bill is
// restored.
func (h *BillHandler) Delete(c *gin.Context) {
	billID, ok := h.ParamID(c)
	if !ok {
		return
	}

	if err := h.engine.Delete(c.Request.Context(), h.direction, billID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// UpdateDetails handles PUT /{bills}/:id/details.
func (h *BillHandler) UpdateDetails(c *gin.Context) {
	billID, ok := h.ParamID(c)
	if !ok {
		return
	}

	var req dto.DetailsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	d, err := h.engine.UpdateDetails(c.Request.Context(), h.direction, billID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDetails(d))
}
