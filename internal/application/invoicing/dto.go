package invoicing

import (
	"time"

	"github.com/quoteflow/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
)

// InvoiceLineResponse is the API representation of an invoice line.
// Rate is final: every buffer was baked in at generation time.
type InvoiceLineResponse struct {
	ID           string          `json:"id"`
	InvoiceID    string          `json:"invoice_id"`
	ServiceID    string          `json:"service_id,omitempty"`
	BundleID     string          `json:"bundle_id,omitempty"`
	SourceLineID string          `json:"source_line_id,omitempty"`
	Name         string          `json:"name"`
	Rate         decimal.Decimal `json:"rate"`
	Quantity     decimal.Decimal `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
	SortOrder    int             `json:"sort_order"`
}

// ToInvoiceLineResponse converts a domain line to its API representation
func ToInvoiceLineResponse(l *invoicing.InvoiceLine) InvoiceLineResponse {
	return InvoiceLineResponse{
		ID:           l.ID,
		InvoiceID:    l.InvoiceID,
		ServiceID:    l.ServiceID,
		BundleID:     l.BundleID,
		SourceLineID: l.SourceLineID,
		Name:         l.Name,
		Rate:         l.Rate,
		Quantity:     l.Quantity,
		LineTotal:    l.LineTotal,
		SortOrder:    l.SortOrder,
	}
}

// InvoiceResponse is the API representation of an invoice
type InvoiceResponse struct {
	ID              string                `json:"id"`
	Number          string                `json:"number"`
	QuotationID     string                `json:"quotation_id,omitempty"`
	ClientName      string                `json:"client_name"`
	ClientContact   string                `json:"client_contact,omitempty"`
	ClientAddress   string                `json:"client_address,omitempty"`
	ProjectTitle    string                `json:"project_title,omitempty"`
	Currency        string                `json:"currency"`
	IssueDate       time.Time             `json:"issue_date"`
	DueDate         time.Time             `json:"due_date"`
	Status          string                `json:"status"`
	HeaderBufferPct decimal.Decimal       `json:"header_buffer_pct"`
	TaxRatePct      decimal.Decimal       `json:"tax_rate_pct"`
	DiscountType    string                `json:"discount_type"`
	DiscountValue   decimal.Decimal       `json:"discount_value"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	TaxAmount       decimal.Decimal       `json:"tax_amount"`
	DiscountAmount  decimal.Decimal       `json:"discount_amount"`
	GrandTotal      decimal.Decimal       `json:"grand_total"`
	TemplateID      string                `json:"template_id,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Lines           []InvoiceLineResponse `json:"lines,omitempty"`
}

// ToInvoiceResponse converts a domain invoice to its API representation
func ToInvoiceResponse(inv *invoicing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:              inv.ID,
		Number:          inv.Number,
		QuotationID:     inv.QuotationID,
		ClientName:      inv.ClientName,
		ClientContact:   inv.ClientContact,
		ClientAddress:   inv.ClientAddress,
		ProjectTitle:    inv.ProjectTitle,
		Currency:        inv.Currency,
		IssueDate:       inv.IssueDate,
		DueDate:         inv.DueDate,
		Status:          inv.Status.String(),
		HeaderBufferPct: inv.HeaderBufferPct,
		TaxRatePct:      inv.TaxRatePct,
		DiscountType:    string(inv.DiscountType),
		DiscountValue:   inv.DiscountValue,
		Subtotal:        inv.Subtotal,
		TaxAmount:       inv.TaxAmount,
		DiscountAmount:  inv.DiscountAmount,
		GrandTotal:      inv.GrandTotal,
		TemplateID:      inv.TemplateID,
		Notes:           inv.Notes,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
}
