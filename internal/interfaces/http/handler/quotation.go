package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	quotingapp "github.com/quoteflow/backend/internal/application/quoting"
	"github.com/quoteflow/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// QuotationHandler handles quotation API endpoints
type QuotationHandler struct {
	BaseHandler
	quotations *quotingapp.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotations *quotingapp.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotations: quotations}
}

// LineRequest is one requested document line: a service reference or a
// bundle reference, optionally expanded into its billable children.
type LineRequest struct {
	ServiceID     string          `json:"service_id"`
	BundleID      string          `json:"bundle_id"`
	Name          string          `json:"name" binding:"max=200"`
	Description   string          `json:"description" binding:"max=2000"`
	Quantity      decimal.Decimal `json:"quantity"`
	LineBufferPct decimal.Decimal `json:"line_buffer_pct"`
	ExpandBundle  bool            `json:"expand_bundle"`
}

// CreateQuotationRequest is the request body for creating a quotation.
// An empty number asks the server to generate the next one. Dates are
// date-only strings; omitted dates default to today and the configured
// validity window.
type CreateQuotationRequest struct {
	Number          string          `json:"number" binding:"max=50"`
	ClientName      string          `json:"client_name" binding:"required,min=1,max=200"`
	ClientContact   string          `json:"client_contact" binding:"max=200"`
	ClientAddress   string          `json:"client_address" binding:"max=500"`
	ProjectTitle    string          `json:"project_title" binding:"max=200"`
	Currency        string          `json:"currency" binding:"omitempty,len=3"`
	IssueDate       string          `json:"issue_date"`
	ValidUntil      string          `json:"valid_until"`
	HeaderBufferPct decimal.Decimal `json:"header_buffer_pct"`
	TaxRatePct      decimal.Decimal `json:"tax_rate_pct"`
	DiscountType    string          `json:"discount_type" binding:"omitempty,oneof=NONE PERCENT AMOUNT"`
	DiscountValue   decimal.Decimal `json:"discount_value"`
	TemplateID      string          `json:"template_id"`
	Notes           string          `json:"notes"`
	Lines           []LineRequest   `json:"lines"`
}

// ReviseQuotationRequest is the request body for creating a revision.
// Omitted fields inherit the parent's value; lines is the revision's
// full line set.
type ReviseQuotationRequest struct {
	ClientName      *string          `json:"client_name" binding:"omitempty,min=1,max=200"`
	ClientContact   *string          `json:"client_contact" binding:"omitempty,max=200"`
	ClientAddress   *string          `json:"client_address" binding:"omitempty,max=500"`
	ProjectTitle    *string          `json:"project_title" binding:"omitempty,max=200"`
	IssueDate       string           `json:"issue_date"`
	ValidUntil      string           `json:"valid_until"`
	HeaderBufferPct *decimal.Decimal `json:"header_buffer_pct"`
	TaxRatePct      *decimal.Decimal `json:"tax_rate_pct"`
	DiscountType    *string          `json:"discount_type" binding:"omitempty,oneof=NONE PERCENT AMOUNT"`
	DiscountValue   *decimal.Decimal `json:"discount_value"`
	TemplateID      *string          `json:"template_id"`
	Notes           *string          `json:"notes"`
	Lines           []LineRequest    `json:"lines" binding:"required,min=1"`
}

// PreviewTotalsRequest is the request body for a totals preview
type PreviewTotalsRequest struct {
	HeaderBufferPct decimal.Decimal `json:"header_buffer_pct"`
	TaxRatePct      decimal.Decimal `json:"tax_rate_pct"`
	DiscountType    string          `json:"discount_type" binding:"omitempty,oneof=NONE PERCENT AMOUNT"`
	DiscountValue   decimal.Decimal `json:"discount_value"`
	Lines           []LineRequest   `json:"lines" binding:"required,min=1"`
}

// GenerateInvoiceRequest is the request body for invoice generation
type GenerateInvoiceRequest struct {
	IssueDate string `json:"issue_date"`
	DueDate   string `json:"due_date"`
	Notes     string `json:"notes"`
}

var errBadDate = errors.New("dates must be YYYY-MM-DD or RFC3339")

// parseDate accepts date-only or RFC3339 timestamps. An empty string
// returns nil.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, errBadDate
}

func toAppLines(lines []LineRequest) []quotingapp.LineRequest {
	out := make([]quotingapp.LineRequest, 0, len(lines))
	for _, l := range lines {
		out = append(out, quotingapp.LineRequest{
			ServiceID:     l.ServiceID,
			BundleID:      l.BundleID,
			Name:          l.Name,
			Description:   l.Description,
			Quantity:      l.Quantity,
			LineBufferPct: l.LineBufferPct,
			ExpandBundle:  l.ExpandBundle,
		})
	}
	return out
}

// Create handles POST /quoting/quotations
func (h *QuotationHandler) Create(c *gin.Context) {
	var req CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		h.BadRequest(c, "issue_date must be a YYYY-MM-DD date")
		return
	}
	validUntil, err := parseDate(req.ValidUntil)
	if err != nil {
		h.BadRequest(c, "valid_until must be a YYYY-MM-DD date")
		return
	}

	resp, err := h.quotations.Create(c.Request.Context(), quotingapp.CreateQuotationRequest{
		Number:          req.Number,
		ClientName:      req.ClientName,
		ClientContact:   req.ClientContact,
		ClientAddress:   req.ClientAddress,
		ProjectTitle:    req.ProjectTitle,
		Currency:        req.Currency,
		IssueDate:       issueDate,
		ValidUntil:      validUntil,
		HeaderBufferPct: req.HeaderBufferPct,
		TaxRatePct:      req.TaxRatePct,
		DiscountType:    pricing.DiscountType(req.DiscountType),
		DiscountValue:   req.DiscountValue,
		TemplateID:      req.TemplateID,
		Notes:           req.Notes,
		Lines:           toAppLines(req.Lines),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID handles GET /quoting/quotations/:id
func (h *QuotationHandler) GetByID(c *gin.Context) {
	resp, err := h.quotations.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /quoting/quotations
func (h *QuotationHandler) List(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotations, total, err := h.quotations.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, quotations, total, filter.Page, filter.PageSize)
}

// Delete handles DELETE /quoting/quotations/:id
func (h *QuotationHandler) Delete(c *gin.Context) {
	if err := h.quotations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Revise handles POST /quoting/quotations/:id/revisions
func (h *QuotationHandler) Revise(c *gin.Context) {
	var req ReviseQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		h.BadRequest(c, "issue_date must be a YYYY-MM-DD date")
		return
	}
	validUntil, err := parseDate(req.ValidUntil)
	if err != nil {
		h.BadRequest(c, "valid_until must be a YYYY-MM-DD date")
		return
	}

	appReq := quotingapp.ReviseQuotationRequest{
		ClientName:      req.ClientName,
		ClientContact:   req.ClientContact,
		ClientAddress:   req.ClientAddress,
		ProjectTitle:    req.ProjectTitle,
		IssueDate:       issueDate,
		ValidUntil:      validUntil,
		HeaderBufferPct: req.HeaderBufferPct,
		TaxRatePct:      req.TaxRatePct,
		DiscountValue:   req.DiscountValue,
		TemplateID:      req.TemplateID,
		Notes:           req.Notes,
		Lines:           toAppLines(req.Lines),
	}
	if req.DiscountType != nil {
		dt := pricing.DiscountType(*req.DiscountType)
		appReq.DiscountType = &dt
	}

	resp, err := h.quotations.Revise(c.Request.Context(), c.Param("id"), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// PreviewTotals handles POST /quoting/preview-totals
func (h *QuotationHandler) PreviewTotals(c *gin.Context) {
	var req PreviewTotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.quotations.PreviewTotals(c.Request.Context(), quotingapp.PreviewTotalsRequest{
		HeaderBufferPct: req.HeaderBufferPct,
		TaxRatePct:      req.TaxRatePct,
		DiscountType:    pricing.DiscountType(req.DiscountType),
		DiscountValue:   req.DiscountValue,
		Lines:           toAppLines(req.Lines),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GenerateInvoice handles POST /quoting/quotations/:id/invoice
func (h *QuotationHandler) GenerateInvoice(c *gin.Context) {
	var req GenerateInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		h.BadRequest(c, "issue_date must be a YYYY-MM-DD date")
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		h.BadRequest(c, "due_date must be a YYYY-MM-DD date")
		return
	}

	resp, err := h.quotations.GenerateInvoice(c.Request.Context(), c.Param("id"), quotingapp.GenerateInvoiceRequest{
		IssueDate: issueDate,
		DueDate:   dueDate,
		Notes:     req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RegisterRoutes registers all quotation routes
func (h *QuotationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quoting := rg.Group("/quoting")
	quoting.POST("/preview-totals", h.PreviewTotals)

	quotations := quoting.Group("/quotations")
	{
		quotations.POST("", h.Create)
		quotations.GET("", h.List)
		quotations.GET("/:id", h.GetByID)
		quotations.DELETE("/:id", h.Delete)
		quotations.POST("/:id/revisions", h.Revise)
		quotations.POST("/:id/invoice", h.GenerateInvoice)
	}
}
