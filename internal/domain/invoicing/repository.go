package invoicing

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/shared"
)

// InvoiceRepository provides access to invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id string) (*Invoice, error)
	FindByNumber(ctx context.Context, number string) (*Invoice, error)
	FindByQuotation(ctx context.Context, quotationID string) (*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, int64, error)
	Create(ctx context.Context, inv *Invoice) error
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id string) error
	// MaxSequence returns the highest numeric suffix among numbers with
	// the given "PREFIX-YYYYMM-" stem, 0 when none exist.
	MaxSequence(ctx context.Context, stem string) (int, error)
}

// InvoiceLineRepository provides access to invoice lines
type InvoiceLineRepository interface {
	FindByInvoice(ctx context.Context, invoiceID string) ([]InvoiceLine, error)
	Create(ctx context.Context, line *InvoiceLine) error
}
