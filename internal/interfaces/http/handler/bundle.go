package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/quoteflow/backend/internal/application/catalog"
)

// BundleHandler handles catalog bundle API endpoints
type BundleHandler struct {
	BaseHandler
	bundles *catalogapp.BundleService
}

// NewBundleHandler creates a new BundleHandler
func NewBundleHandler(bundles *catalogapp.BundleService) *BundleHandler {
	return &BundleHandler{bundles: bundles}
}

// CreateBundleRequest is the request body for creating a bundle
type CreateBundleRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Unit        string `json:"unit" binding:"max=50"`
}

// UpdateBundleRequest is the request body for updating a bundle
type UpdateBundleRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Unit        *string `json:"unit" binding:"omitempty,max=50"`
}

// AddBundleItemRequest is the request body for attaching a child service
type AddBundleItemRequest struct {
	ServiceID       string `json:"service_id" binding:"required"`
	Quantity        int    `json:"quantity" binding:"required,min=1"`
	IsOptional      bool   `json:"is_optional"`
	DefaultSelected bool   `json:"default_selected"`
	Notes           string `json:"notes"`
}

// UpdateBundleItemRequest is the request body for editing a bundle item
type UpdateBundleItemRequest struct {
	Quantity        *int    `json:"quantity" binding:"omitempty,min=1"`
	IsOptional      *bool   `json:"is_optional"`
	DefaultSelected *bool   `json:"default_selected"`
	Notes           *string `json:"notes"`
}

// Create handles POST /catalog/bundles
func (h *BundleHandler) Create(c *gin.Context) {
	var req CreateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.bundles.Create(c.Request.Context(), catalogapp.CreateBundleRequest{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Unit:        req.Unit,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID handles GET /catalog/bundles/:id
func (h *BundleHandler) GetByID(c *gin.Context) {
	resp, err := h.bundles.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /catalog/bundles
func (h *BundleHandler) List(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bundles, total, err := h.bundles.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, bundles, total, filter.Page, filter.PageSize)
}

// Update handles PUT /catalog/bundles/:id
func (h *BundleHandler) Update(c *gin.Context) {
	var req UpdateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.bundles.Update(c.Request.Context(), c.Param("id"), catalogapp.UpdateBundleRequest{
		Name:        req.Name,
		Description: req.Description,
		Unit:        req.Unit,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /catalog/bundles/:id
func (h *BundleHandler) Delete(c *gin.Context) {
	if err := h.bundles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddItem handles POST /catalog/bundles/:id/items
func (h *BundleHandler) AddItem(c *gin.Context) {
	var req AddBundleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.bundles.AddItem(c.Request.Context(), c.Param("id"), catalogapp.AddBundleItemRequest{
		ServiceID:       req.ServiceID,
		Quantity:        req.Quantity,
		IsOptional:      req.IsOptional,
		DefaultSelected: req.DefaultSelected,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListItems handles GET /catalog/bundles/:id/items
func (h *BundleHandler) ListItems(c *gin.Context) {
	items, err := h.bundles.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// UpdateItem handles PUT /catalog/bundle-items/:itemID
func (h *BundleHandler) UpdateItem(c *gin.Context) {
	var req UpdateBundleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.bundles.UpdateItem(c.Request.Context(), c.Param("itemID"), catalogapp.UpdateBundleItemRequest{
		Quantity:        req.Quantity,
		IsOptional:      req.IsOptional,
		DefaultSelected: req.DefaultSelected,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem handles DELETE /catalog/bundle-items/:itemID
func (h *BundleHandler) RemoveItem(c *gin.Context) {
	if err := h.bundles.RemoveItem(c.Request.Context(), c.Param("itemID")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Cost handles GET /catalog/bundles/:id/cost
func (h *BundleHandler) Cost(c *gin.Context) {
	resp, err := h.bundles.Cost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Expansion handles GET /catalog/bundles/:id/expansion. The expand
// query flag switches between one aggregated line and per-child lines.
func (h *BundleHandler) Expansion(c *gin.Context) {
	expand, err := strconv.ParseBool(c.DefaultQuery("expand", "false"))
	if err != nil {
		h.BadRequest(c, "expand must be a boolean")
		return
	}

	resp, err := h.bundles.Expand(c.Request.Context(), c.Param("id"), expand)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers all bundle routes
func (h *BundleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bundles := rg.Group("/catalog/bundles")
	{
		bundles.POST("", h.Create)
		bundles.GET("", h.List)
		bundles.GET("/:id", h.GetByID)
		bundles.PUT("/:id", h.Update)
		bundles.DELETE("/:id", h.Delete)
		bundles.POST("/:id/items", h.AddItem)
		bundles.GET("/:id/items", h.ListItems)
		bundles.GET("/:id/cost", h.Cost)
		bundles.GET("/:id/expansion", h.Expansion)
	}

	items := rg.Group("/catalog/bundle-items")
	{
		items.PUT("/:itemID", h.UpdateItem)
		items.DELETE("/:itemID", h.RemoveItem)
	}
}
