package quoting

import (
	"time"

	"github.com/quoteflow/backend/internal/domain/pricing"
	"github.com/quoteflow/backend/internal/domain/quoting"
	"github.com/shopspring/decimal"
)

// LineRequest describes one requested document line: either a plain
// service reference or a bundle reference, optionally expanded into its
// billable children.
type LineRequest struct {
	ServiceID     string
	BundleID      string
	Name          string // display override, ignored for expanded bundles
	Description   string
	Quantity      decimal.Decimal // zero defaults to 1
	LineBufferPct decimal.Decimal
	ExpandBundle  bool
}

// CreateQuotationRequest carries everything needed to create and price
// a quotation. An empty Number asks the service to generate one.
type CreateQuotationRequest struct {
	Number          string
	ClientName      string
	ClientContact   string
	ClientAddress   string
	ProjectTitle    string
	Currency        string
	IssueDate       *time.Time
	ValidUntil      *time.Time
	HeaderBufferPct decimal.Decimal
	TaxRatePct      decimal.Decimal
	DiscountType    pricing.DiscountType
	DiscountValue   decimal.Decimal
	TemplateID      string
	Notes           string
	Lines           []LineRequest
}

// ReviseQuotationRequest carries the edited state for a revision. Nil
// pointers inherit the parent's value; Lines is the revision's full
// line set and must not be empty.
type ReviseQuotationRequest struct {
	ClientName      *string
	ClientContact   *string
	ClientAddress   *string
	ProjectTitle    *string
	IssueDate       *time.Time
	ValidUntil      *time.Time
	HeaderBufferPct *decimal.Decimal
	TaxRatePct      *decimal.Decimal
	DiscountType    *pricing.DiscountType
	DiscountValue   *decimal.Decimal
	TemplateID      *string
	Notes           *string
	Lines           []LineRequest
}

// PreviewTotalsRequest prices a prospective line set without persisting
type PreviewTotalsRequest struct {
	HeaderBufferPct decimal.Decimal
	TaxRatePct      decimal.Decimal
	DiscountType    pricing.DiscountType
	DiscountValue   decimal.Decimal
	Lines           []LineRequest
}

// GenerateInvoiceRequest carries the overrides for invoice generation
type GenerateInvoiceRequest struct {
	IssueDate *time.Time
	DueDate   *time.Time
	Notes     string
}

// QuotationLineResponse is the API representation of a quotation line
type QuotationLineResponse struct {
	ID            string          `json:"id"`
	QuotationID   string          `json:"quotation_id"`
	ServiceID     string          `json:"service_id,omitempty"`
	BundleID      string          `json:"bundle_id,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	BaseRate      decimal.Decimal `json:"base_rate"`
	BundleCost    decimal.Decimal `json:"bundle_cost"`
	LineBufferPct decimal.Decimal `json:"line_buffer_pct"`
	AdjustedRate  decimal.Decimal `json:"adjusted_rate"`
	Quantity      decimal.Decimal `json:"quantity"`
	LineTotal     decimal.Decimal `json:"line_total"`
	IsBundle      bool            `json:"is_bundle"`
	FromBundle    string          `json:"from_bundle,omitempty"`
	SortOrder     int             `json:"sort_order"`
}

// ToQuotationLineResponse converts a domain line to its API representation
func ToQuotationLineResponse(l *quoting.QuotationLine) QuotationLineResponse {
	return QuotationLineResponse{
		ID:            l.ID,
		QuotationID:   l.QuotationID,
		ServiceID:     l.ServiceID,
		BundleID:      l.BundleID,
		Name:          l.Name,
		Description:   l.Description,
		BaseRate:      l.BaseRate,
		BundleCost:    l.BundleCost,
		LineBufferPct: l.LineBufferPct,
		AdjustedRate:  l.AdjustedRate,
		Quantity:      l.Quantity,
		LineTotal:     l.LineTotal,
		IsBundle:      l.IsBundle,
		FromBundle:    l.FromBundle,
		SortOrder:     l.SortOrder,
	}
}

// QuotationResponse is the API representation of a quotation.
// MissingServiceIDs reports dangling catalog references encountered
// while pricing; they contributed zero rather than failing the request.
type QuotationResponse struct {
	ID                string                  `json:"id"`
	Number            string                  `json:"number"`
	ClientName        string                  `json:"client_name"`
	ClientContact     string                  `json:"client_contact,omitempty"`
	ClientAddress     string                  `json:"client_address,omitempty"`
	ProjectTitle      string                  `json:"project_title,omitempty"`
	Currency          string                  `json:"currency"`
	IssueDate         time.Time               `json:"issue_date"`
	ValidUntil        time.Time               `json:"valid_until"`
	Status            string                  `json:"status"`
	HeaderBufferPct   decimal.Decimal         `json:"header_buffer_pct"`
	TaxRatePct        decimal.Decimal         `json:"tax_rate_pct"`
	DiscountType      string                  `json:"discount_type"`
	DiscountValue     decimal.Decimal         `json:"discount_value"`
	Subtotal          decimal.Decimal         `json:"subtotal"`
	TaxAmount         decimal.Decimal         `json:"tax_amount"`
	DiscountAmount    decimal.Decimal         `json:"discount_amount"`
	GrandTotal        decimal.Decimal         `json:"grand_total"`
	Version           int                     `json:"version"`
	ParentID          string                  `json:"parent_id,omitempty"`
	ParentNumber      string                  `json:"parent_number,omitempty"`
	InvoiceGenerated  bool                    `json:"invoice_generated"`
	TemplateID        string                  `json:"template_id,omitempty"`
	Notes             string                  `json:"notes,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
	Lines             []QuotationLineResponse `json:"lines,omitempty"`
	MissingServiceIDs []string                `json:"missing_service_ids,omitempty"`
}

// ToQuotationResponse converts a domain quotation to its API representation
func ToQuotationResponse(q *quoting.Quotation) QuotationResponse {
	return QuotationResponse{
		ID:               q.ID,
		Number:           q.Number,
		ClientName:       q.ClientName,
		ClientContact:    q.ClientContact,
		ClientAddress:    q.ClientAddress,
		ProjectTitle:     q.ProjectTitle,
		Currency:         q.Currency,
		IssueDate:        q.IssueDate,
		ValidUntil:       q.ValidUntil,
		Status:           q.Status.String(),
		HeaderBufferPct:  q.HeaderBufferPct,
		TaxRatePct:       q.TaxRatePct,
		DiscountType:     string(q.DiscountType),
		DiscountValue:    q.DiscountValue,
		Subtotal:         q.Subtotal,
		TaxAmount:        q.TaxAmount,
		DiscountAmount:   q.DiscountAmount,
		GrandTotal:       q.GrandTotal,
		Version:          q.Version,
		ParentID:         q.ParentID,
		ParentNumber:     q.ParentNumber,
		InvoiceGenerated: q.InvoiceGenerated,
		TemplateID:       q.TemplateID,
		Notes:            q.Notes,
		CreatedAt:        q.CreatedAt,
		UpdatedAt:        q.UpdatedAt,
	}
}

// TotalsResponse is a document totals preview
type TotalsResponse struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	BufferedSubtotal  decimal.Decimal `json:"buffered_subtotal"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	MissingServiceIDs []string        `json:"missing_service_ids,omitempty"`
}
