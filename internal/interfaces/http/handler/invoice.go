package handler

import (
	"github.com/gin-gonic/gin"
	invoicingapp "github.com/quoteflow/backend/internal/application/invoicing"
)

// InvoiceHandler handles invoice API endpoints. Invoices are created
// through quotation generation, so this surface is read and lifecycle
// operations only.
type InvoiceHandler struct {
	BaseHandler
	invoices *invoicingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices *invoicingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// GetByID handles GET /invoicing/invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	resp, err := h.invoices.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /invoicing/invoices. A number query parameter looks
// up a single invoice by its document number instead.
func (h *InvoiceHandler) List(c *gin.Context) {
	if number := c.Query("number"); number != "" {
		resp, err := h.invoices.GetByNumber(c.Request.Context(), number)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, resp)
		return
	}

	filter, err := listFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoices, total, err := h.invoices.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Clear handles POST /invoicing/invoices/:id/clear
func (h *InvoiceHandler) Clear(c *gin.Context) {
	resp, err := h.invoices.MarkCleared(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /invoicing/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	resp, err := h.invoices.MarkCancelled(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /invoicing/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.invoices.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers all invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoicing/invoices")
	{
		invoices.GET("", h.List)
		invoices.GET("/:id", h.GetByID)
		invoices.POST("/:id/clear", h.Clear)
		invoices.POST("/:id/cancel", h.Cancel)
		invoices.DELETE("/:id", h.Delete)
	}
}
