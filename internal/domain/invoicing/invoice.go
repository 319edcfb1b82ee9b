package invoicing

import (
	"strings"
	"time"

	"github.com/quoteflow/backend/internal/domain/pricing"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the settlement status of an invoice
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCleared   Status = "CLEARED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a valid invoice status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCleared, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusCleared || target == StatusCancelled
	case StatusCleared, StatusCancelled:
		return false
	}
	return false
}

// Invoice is a billing document materialized from a quotation snapshot.
// Client fields are copied, not referenced, and line rates are frozen at
// generation time: later edits to services, bundles or the source
// quotation never change an issued invoice.
type Invoice struct {
	ID              string
	Number          string
	QuotationID     string // back-reference to the source quotation, if any
	ClientName      string
	ClientContact   string
	ClientAddress   string
	ProjectTitle    string
	Currency        string
	IssueDate       time.Time
	DueDate         time.Time
	Status          Status
	HeaderBufferPct decimal.Decimal
	TaxRatePct      decimal.Decimal
	DiscountType    pricing.DiscountType
	DiscountValue   decimal.Decimal
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	DiscountAmount  decimal.Decimal
	GrandTotal      decimal.Decimal
	TemplateID      string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// InvoiceLine is one line of an invoice. Rate already includes every
// buffer applied at generation time; downstream totals must treat it as
// final and never multiply it by a buffer again.
type InvoiceLine struct {
	ID           string
	InvoiceID    string
	ServiceID    string
	BundleID     string
	SourceLineID string // quotation line this was generated from
	Name         string
	Rate         decimal.Decimal
	Quantity     decimal.Decimal
	LineTotal    decimal.Decimal
	SortOrder    int
	CreatedAt    time.Time
}

// NewInvoice creates a pending invoice after validating required fields.
func NewInvoice(number, clientName, currency string, issueDate, dueDate time.Time) (*Invoice, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if strings.TrimSpace(clientName) == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client name cannot be empty")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot precede the issue date")
	}

	now := time.Now()
	return &Invoice{
		Number:       number,
		ClientName:   clientName,
		Currency:     currency,
		IssueDate:    issueDate,
		DueDate:      dueDate,
		Status:       StatusPending,
		DiscountType: pricing.DiscountNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// MarkCleared settles the invoice.
func (inv *Invoice) MarkCleared() error {
	if !inv.Status.CanTransitionTo(StatusCleared) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot clear invoice in status "+inv.Status.String())
	}
	inv.Status = StatusCleared
	inv.UpdatedAt = time.Now()
	return nil
}

// MarkCancelled voids the invoice.
func (inv *Invoice) MarkCancelled() error {
	if !inv.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot cancel invoice in status "+inv.Status.String())
	}
	inv.Status = StatusCancelled
	inv.UpdatedAt = time.Now()
	return nil
}

// ApplyTotals stores the computed totals snapshot on the invoice.
func (inv *Invoice) ApplyTotals(t pricing.Totals) {
	inv.Subtotal = t.Subtotal
	inv.TaxAmount = t.Tax
	inv.DiscountAmount = t.Discount
	inv.GrandTotal = t.GrandTotal
	inv.UpdatedAt = time.Now()
}
