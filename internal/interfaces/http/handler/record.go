package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/quoteflow/backend/internal/infrastructure/recordstore"
	"github.com/quoteflow/backend/internal/interfaces/http/dto"
)

// knownTables whitelists the logical tables exposed over the raw
// record API. Typed endpoints remain the primary surface; this one
// exists for templates and for administrative inspection.
var knownTables = map[string]bool{
	recordstore.TableServices:       true,
	recordstore.TableBundles:        true,
	recordstore.TableBundleItems:    true,
	recordstore.TableQuotations:     true,
	recordstore.TableQuotationLines: true,
	recordstore.TableInvoices:       true,
	recordstore.TableInvoiceLines:   true,
	recordstore.TableCurrencyRates:  true,
	recordstore.TableCustomers:      true,
	recordstore.TableTemplates:      true,
}

// RecordHandler exposes raw record access per logical table
type RecordHandler struct {
	BaseHandler
	store recordstore.Store
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(store recordstore.Store) *RecordHandler {
	return &RecordHandler{store: store}
}

func (h *RecordHandler) table(c *gin.Context) (string, bool) {
	table := c.Param("table")
	if !knownTables[table] {
		h.NotFound(c, "Unknown table")
		return "", false
	}
	return table, true
}

// List handles GET /records/:table
func (h *RecordHandler) List(c *gin.Context) {
	table, ok := h.table(c)
	if !ok {
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.store.List(c.Request.Context(), table, recordstore.ListOptions{
		Search: req.Search,
		Page:   req.Page,
		Limit:  req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Data, result.Total, result.Page, result.Limit)
}

// Get handles GET /records/:table/:id
func (h *RecordHandler) Get(c *gin.Context) {
	table, ok := h.table(c)
	if !ok {
		return
	}

	rec, err := h.store.Get(c.Request.Context(), table, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rec)
}

// Create handles POST /records/:table
func (h *RecordHandler) Create(c *gin.Context) {
	table, ok := h.table(c)
	if !ok {
		return
	}

	var rec recordstore.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.store.Create(c.Request.Context(), table, rec)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// Update handles PUT /records/:table/:id
func (h *RecordHandler) Update(c *gin.Context) {
	table, ok := h.table(c)
	if !ok {
		return
	}

	var partial recordstore.Record
	if err := c.ShouldBindJSON(&partial); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.store.Update(c.Request.Context(), table, c.Param("id"), partial)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Delete handles DELETE /records/:table/:id
func (h *RecordHandler) Delete(c *gin.Context) {
	table, ok := h.table(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), table, c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers all record routes
func (h *RecordHandler) RegisterRoutes(rg *gin.RouterGroup) {
	records := rg.Group("/records")
	{
		records.GET("/:table", h.List)
		records.POST("/:table", h.Create)
		records.GET("/:table/:id", h.Get)
		records.PUT("/:table/:id", h.Update)
		records.DELETE("/:table/:id", h.Delete)
	}
}
