package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/quoteflow/backend/internal/application/catalog"
	"github.com/shopspring/decimal"
)

// ServiceHandler handles catalog service API endpoints
type ServiceHandler struct {
	BaseHandler
	services *catalogapp.ServiceService
}

// NewServiceHandler creates a new ServiceHandler
func NewServiceHandler(services *catalogapp.ServiceService) *ServiceHandler {
	return &ServiceHandler{services: services}
}

// CreateServiceRequest is the request body for creating a service.
// A null base_rate leaves the rate "to be determined".
type CreateServiceRequest struct {
	Code       string           `json:"code" binding:"required,min=1,max=50"`
	Name       string           `json:"name" binding:"required,min=1,max=200"`
	Category   string           `json:"category" binding:"max=100"`
	Unit       string           `json:"unit" binding:"max=50"`
	Currency   string           `json:"currency" binding:"omitempty,len=3"`
	BaseRate   *decimal.Decimal `json:"base_rate"`
	Negotiable bool             `json:"negotiable"`
	MinQty     *decimal.Decimal `json:"min_qty"`
	MaxQty     *decimal.Decimal `json:"max_qty"`
	Notes      string           `json:"notes"`
}

// UpdateServiceRequest is the request body for updating a service.
// Omitted fields keep their stored value; clear_rate marks the rate
// TBD regardless of base_rate.
type UpdateServiceRequest struct {
	Name       *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Category   *string          `json:"category" binding:"omitempty,max=100"`
	Unit       *string          `json:"unit" binding:"omitempty,max=50"`
	Currency   *string          `json:"currency" binding:"omitempty,len=3"`
	BaseRate   *decimal.Decimal `json:"base_rate"`
	ClearRate  bool             `json:"clear_rate"`
	Negotiable *bool            `json:"negotiable"`
	MinQty     *decimal.Decimal `json:"min_qty"`
	MaxQty     *decimal.Decimal `json:"max_qty"`
	Notes      *string          `json:"notes"`
}

// Create handles POST /catalog/services
func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.services.Create(c.Request.Context(), catalogapp.CreateServiceRequest{
		Code:       req.Code,
		Name:       req.Name,
		Category:   req.Category,
		Unit:       req.Unit,
		Currency:   req.Currency,
		BaseRate:   req.BaseRate,
		Negotiable: req.Negotiable,
		MinQty:     req.MinQty,
		MaxQty:     req.MaxQty,
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID handles GET /catalog/services/:id
func (h *ServiceHandler) GetByID(c *gin.Context) {
	resp, err := h.services.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /catalog/services
func (h *ServiceHandler) List(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	services, total, err := h.services.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, services, total, filter.Page, filter.PageSize)
}

// Update handles PUT /catalog/services/:id
func (h *ServiceHandler) Update(c *gin.Context) {
	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.services.Update(c.Request.Context(), c.Param("id"), catalogapp.UpdateServiceRequest{
		Name:       req.Name,
		Category:   req.Category,
		Unit:       req.Unit,
		Currency:   req.Currency,
		BaseRate:   req.BaseRate,
		ClearRate:  req.ClearRate,
		Negotiable: req.Negotiable,
		MinQty:     req.MinQty,
		MaxQty:     req.MaxQty,
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /catalog/services/:id
func (h *ServiceHandler) Delete(c *gin.Context) {
	if err := h.services.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers all service routes
func (h *ServiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	services := rg.Group("/catalog/services")
	{
		services.POST("", h.Create)
		services.GET("", h.List)
		services.GET("/:id", h.GetByID)
		services.PUT("/:id", h.Update)
		services.DELETE("/:id", h.Delete)
	}
}
