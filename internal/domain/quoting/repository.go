package quoting

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/shared"
)

// QuotationRepository provides access to quotation rows
type QuotationRepository interface {
	FindByID(ctx context.Context, id string) (*Quotation, error)
	FindByNumber(ctx context.Context, number string) (*Quotation, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Quotation, int64, error)
	Create(ctx context.Context, q *Quotation) error
	Update(ctx context.Context, q *Quotation) error
	Delete(ctx context.Context, id string) error
	// MaxSequence returns the highest numeric suffix among numbers with
	// the given "PREFIX-YYYYMM-" stem, 0 when none exist.
	MaxSequence(ctx context.Context, stem string) (int, error)
}

// QuotationLineRepository provides access to quotation lines
type QuotationLineRepository interface {
	FindByQuotation(ctx context.Context, quotationID string) ([]QuotationLine, error)
	Create(ctx context.Context, line *QuotationLine) error
	DeleteByQuotation(ctx context.Context, quotationID string) error
}
