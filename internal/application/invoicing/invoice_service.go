package invoicing

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/invoicing"
	"github.com/quoteflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoiceService handles invoice lifecycle operations. Invoices are
// created through quotation generation, never directly; this service
// covers reading and settlement.
type InvoiceService struct {
	invoices invoicing.InvoiceRepository
	lines    invoicing.InvoiceLineRepository
	logger   *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoices invoicing.InvoiceRepository, lines invoicing.InvoiceLineRepository, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{invoices: invoices, lines: lines, logger: logger}
}

// GetByID retrieves an invoice and its lines
func (s *InvoiceService) GetByID(ctx context.Context, id string) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.lines.FindByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(inv)
	for i := range lines {
		resp.Lines = append(resp.Lines, ToInvoiceLineResponse(&lines[i]))
	}
	return &resp, nil
}

// GetByNumber retrieves an invoice by its display number
func (s *InvoiceService) GetByNumber(ctx context.Context, number string) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, inv.ID)
}

// List retrieves invoices with search and pagination
func (s *InvoiceService) List(ctx context.Context, filter shared.Filter) ([]InvoiceResponse, int64, error) {
	invoices, total, err := s.invoices.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, ToInvoiceResponse(&invoices[i]))
	}
	return responses, total, nil
}

// MarkCleared settles a pending invoice
func (s *InvoiceService) MarkCleared(ctx context.Context, id string) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.MarkCleared(); err != nil {
		return nil, err
	}
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// MarkCancelled voids a pending invoice
func (s *InvoiceService) MarkCancelled(ctx context.Context, id string) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.MarkCancelled(); err != nil {
		return nil, err
	}
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// Delete removes an invoice. Settled invoices are kept for the record
// and cannot be deleted.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status == invoicing.StatusCleared {
		return shared.NewDomainError("INVALID_STATE", "A cleared invoice cannot be deleted")
	}
	return s.invoices.Delete(ctx, id)
}
