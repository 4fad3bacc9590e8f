package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"posledger/internal/domain/catalogs/employee"
	"posledger/internal/domain/catalogs/stockitem"
	"posledger/internal/domain/catalogs/supplier"
	"posledger/internal/domain/documents/bill"
	"posledger/internal/infrastructure/http/v1/dto"
)

// StockItemHandler serves /inventory.
type StockItemHandler = CatalogHandler[*stockitem.StockItem, dto.CreateStockItemRequest, dto.UpdateStockItemRequest, dto.StockItemResponse]

// NewStockItemHandler creates the inventory handler.
func NewStockItemHandler(base *BaseHandler, svc *stockitem.Service) *StockItemHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*stockitem.StockItem, dto.CreateStockItemRequest, dto.UpdateStockItemRequest, dto.StockItemResponse]{
		Service:      svc.CatalogService,
		MapCreateDTO: dto.CreateStockItemRequest.ToEntity,
		MapUpdateDTO: dto.UpdateStockItemRequest.Apply,
		MapToDTO:     dto.FromStockItem,
	})
}

// EmployeeHandler serves /employees.
type EmployeeHandler = CatalogHandler[*employee.Employee, dto.CreateEmployeeRequest, dto.UpdateEmployeeRequest, dto.EmployeeResponse]

// NewEmployeeHandler creates the employee handler.
func NewEmployeeHandler(base *BaseHandler, svc *employee.Service) *EmployeeHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*employee.Employee, dto.CreateEmployeeRequest, dto.UpdateEmployeeRequest, dto.EmployeeResponse]{
		Service:      svc.CatalogService,
		MapCreateDTO: dto.CreateEmployeeRequest.ToEntity,
		MapUpdateDTO: dto.UpdateEmployeeRequest.Apply,
		MapToDTO:     dto.FromEmployee,
	})
}

// SupplierHandler serves /suppliers. The by-name lookup returns the
// supplier profile with its purchase bills.
type SupplierHandler struct {
	*CatalogHandler[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest, dto.SupplierResponse]
	suppliers *supplier.Service
	bills     *bill.Engine
}

// NewSupplierHandler creates the supplier handler.
func NewSupplierHandler(base *BaseHandler, svc *supplier.Service, bills *bill.Engine) *SupplierHandler {
	return &SupplierHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest, dto.SupplierResponse]{
			Service:      svc.CatalogService,
			MapCreateDTO: dto.CreateSupplierRequest.ToEntity,
			MapUpdateDTO: dto.UpdateSupplierRequest.Apply,
			MapToDTO:     dto.FromSupplier,
		}),
		suppliers: svc,
		bills:     bills,
	}
}

// Profile handles GET /suppliers/by-name/:name.
func (h *SupplierHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()

	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	s, err := h.suppliers.GetByName(ctx, c.Param("name"))
	if err != nil {
		h.Error(c, err)
		return
	}

	purchases, err := h.bills.ListBySupplier(ctx, s.ID, q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SupplierProfileResponse{
		Supplier:  dto.FromSupplier(s),
		Purchases: dto.NewListResponse(purchases, dto.FromBill),
	})
}
