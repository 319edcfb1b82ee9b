package quoting

import (
	"strings"
	"time"

	"github.com/quoteflow/backend/internal/domain/pricing"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of a quotation
type Status string

const (
	StatusCurrent Status = "CURRENT"
	StatusRevised Status = "REVISED"
	StatusExpired Status = "EXPIRED"
)

// IsValid checks if the status is a valid quotation status
func (s Status) IsValid() bool {
	switch s {
	case StatusCurrent, StatusRevised, StatusExpired:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Revised and Expired are terminal for their row.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusCurrent:
		return target == StatusRevised || target == StatusExpired
	case StatusRevised, StatusExpired:
		return false
	}
	return false
}

// Quotation is a priced offer to a client. A quotation row is never
// edited in place: an edit supersedes it with a new row (a revision) and
// flips this row to Revised, freezing its lines and stored totals.
type Quotation struct {
	ID               string
	Number           string
	ClientName       string
	ClientContact    string
	ClientAddress    string
	ProjectTitle     string
	Currency         string
	IssueDate        time.Time
	ValidUntil       time.Time
	Status           Status
	HeaderBufferPct  decimal.Decimal
	TaxRatePct       decimal.Decimal
	DiscountType     pricing.DiscountType
	DiscountValue    decimal.Decimal
	Subtotal         decimal.Decimal
	TaxAmount        decimal.Decimal
	DiscountAmount   decimal.Decimal
	GrandTotal       decimal.Decimal
	Version          int
	ParentID         string
	ParentNumber     string
	InvoiceGenerated bool
	TemplateID       string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// QuotationLine is one priced line of a quotation. Lines are append-only
// per quotation: a revision writes an entirely new set and leaves the
// superseded quotation's lines untouched.
type QuotationLine struct {
	ID            string
	QuotationID   string
	ServiceID     string
	BundleID      string
	Name          string
	Description   string
	BaseRate      decimal.Decimal
	BundleCost    decimal.Decimal
	LineBufferPct decimal.Decimal
	AdjustedRate  decimal.Decimal
	Quantity      decimal.Decimal
	LineTotal     decimal.Decimal
	IsBundle      bool
	FromBundle    string
	SortOrder     int
	CreatedAt     time.Time
}

// NewQuotation creates a fresh quotation (version 1, status Current).
func NewQuotation(number, clientName, currency string, issueDate, validUntil time.Time) (*Quotation, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Quotation number cannot be empty")
	}
	if strings.TrimSpace(clientName) == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client name cannot be empty")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if validUntil.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_VALIDITY", "Valid-until date cannot precede the issue date")
	}

	now := time.Now()
	return &Quotation{
		Number:       number,
		ClientName:   clientName,
		Currency:     currency,
		IssueDate:    issueDate,
		ValidUntil:   validUntil,
		Status:       StatusCurrent,
		DiscountType: pricing.DiscountNone,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsExpired reports whether the quotation should flip to Expired as of
// the given day. Comparison is date-only and end-of-day inclusive: the
// quotation stays valid through the whole of its valid-until day.
func (q *Quotation) IsExpired(today time.Time) bool {
	if q.Status != StatusCurrent {
		return false
	}
	vy, vm, vd := q.ValidUntil.Date()
	ty, tm, td := today.Date()
	validDay := time.Date(vy, vm, vd, 0, 0, 0, 0, time.UTC)
	currentDay := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return validDay.Before(currentDay)
}

// MarkExpired transitions the quotation to Expired.
func (q *Quotation) MarkExpired() error {
	if !q.Status.CanTransitionTo(StatusExpired) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot expire quotation in status "+q.Status.String())
	}
	q.Status = StatusExpired
	q.UpdatedAt = time.Now()
	return nil
}

// MarkRevised transitions the quotation to Revised, freezing it.
func (q *Quotation) MarkRevised() error {
	if !q.Status.CanTransitionTo(StatusRevised) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Cannot revise quotation in status "+q.Status.String())
	}
	q.Status = StatusRevised
	q.UpdatedAt = time.Now()
	return nil
}

// NewRevision derives the successor row for an edit: version incremented,
// parent back-references set, status Current, invoice flag cleared.
// Client, pricing and validity fields start from the parent's values; the
// caller overlays the edited values before pricing.
func (q *Quotation) NewRevision(number string, issueDate, validUntil time.Time) *Quotation {
	now := time.Now()
	return &Quotation{
		Number:          number,
		ClientName:      q.ClientName,
		ClientContact:   q.ClientContact,
		ClientAddress:   q.ClientAddress,
		ProjectTitle:    q.ProjectTitle,
		Currency:        q.Currency,
		IssueDate:       issueDate,
		ValidUntil:      validUntil,
		Status:          StatusCurrent,
		HeaderBufferPct: q.HeaderBufferPct,
		TaxRatePct:      q.TaxRatePct,
		DiscountType:    q.DiscountType,
		DiscountValue:   q.DiscountValue,
		Version:         q.Version + 1,
		ParentID:        q.ID,
		ParentNumber:    q.Number,
		TemplateID:      q.TemplateID,
		Notes:           q.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// CanGenerateInvoice checks the one-shot invoice generation guard:
// only a Current, not-yet-invoiced quotation is eligible. Revised and
// Expired quotations are rejected even if somehow still unflagged.
func (q *Quotation) CanGenerateInvoice() error {
	if q.Status != StatusCurrent {
		return shared.NewDomainError("QUOTATION_NOT_CURRENT",
			"Invoices can only be generated from a Current quotation, not "+q.Status.String())
	}
	if q.InvoiceGenerated {
		return shared.ErrAlreadyInvoiced
	}
	return nil
}

// MarkInvoiceGenerated flips the idempotency guard after generation.
func (q *Quotation) MarkInvoiceGenerated() {
	q.InvoiceGenerated = true
	q.UpdatedAt = time.Now()
}

// ApplyTotals stores the computed totals snapshot on the quotation.
func (q *Quotation) ApplyTotals(t pricing.Totals) {
	q.Subtotal = t.Subtotal
	q.TaxAmount = t.Tax
	q.DiscountAmount = t.Discount
	q.GrandTotal = t.GrandTotal
	q.UpdatedAt = time.Now()
}
