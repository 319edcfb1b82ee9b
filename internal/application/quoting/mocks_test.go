package quoting

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/catalog"
	"github.com/quoteflow/backend/internal/domain/invoicing"
	"github.com/quoteflow/backend/internal/domain/pricing"
	"github.com/quoteflow/backend/internal/domain/quoting"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockQuotationRepository is a mock implementation of quoting.QuotationRepository
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) FindByID(ctx context.Context, id string) (*quoting.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quoting.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindByNumber(ctx context.Context, number string) (*quoting.Quotation, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quoting.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quoting.Quotation, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]quoting.Quotation), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuotationRepository) Create(ctx context.Context, q *quoting.Quotation) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuotationRepository) Update(ctx context.Context, q *quoting.Quotation) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuotationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuotationRepository) MaxSequence(ctx context.Context, stem string) (int, error) {
	args := m.Called(ctx, stem)
	return args.Int(0), args.Error(1)
}

// MockQuotationLineRepository is a mock implementation of quoting.QuotationLineRepository
type MockQuotationLineRepository struct {
	mock.Mock
}

func (m *MockQuotationLineRepository) FindByQuotation(ctx context.Context, quotationID string) ([]quoting.QuotationLine, error) {
	args := m.Called(ctx, quotationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quoting.QuotationLine), args.Error(1)
}

func (m *MockQuotationLineRepository) Create(ctx context.Context, line *quoting.QuotationLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockQuotationLineRepository) DeleteByQuotation(ctx context.Context, quotationID string) error {
	args := m.Called(ctx, quotationID)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of invoicing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id string) (*invoicing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, number string) (*invoicing.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByQuotation(ctx context.Context, quotationID string) (*invoicing.Invoice, error) {
	args := m.Called(ctx, quotationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]invoicing.Invoice, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]invoicing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *invoicing.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, inv *invoicing.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MaxSequence(ctx context.Context, stem string) (int, error) {
	args := m.Called(ctx, stem)
	return args.Int(0), args.Error(1)
}

// MockInvoiceLineRepository is a mock implementation of invoicing.InvoiceLineRepository
type MockInvoiceLineRepository struct {
	mock.Mock
}

func (m *MockInvoiceLineRepository) FindByInvoice(ctx context.Context, invoiceID string) ([]invoicing.InvoiceLine, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]invoicing.InvoiceLine), args.Error(1)
}

func (m *MockInvoiceLineRepository) Create(ctx context.Context, line *invoicing.InvoiceLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

// mapView is a minimal pricing.CatalogView for tests
type mapView struct {
	services map[string]catalog.Service
	bundles  map[string]catalog.Bundle
	items    map[string][]catalog.BundleItem
}

func (v *mapView) ServiceByID(id string) (*catalog.Service, bool) {
	svc, ok := v.services[id]
	if !ok {
		return nil, false
	}
	return &svc, true
}

func (v *mapView) BundleByID(id string) (*catalog.Bundle, bool) {
	b, ok := v.bundles[id]
	if !ok {
		return nil, false
	}
	return &b, true
}

func (v *mapView) ItemsByBundle(bundleID string) []catalog.BundleItem {
	return v.items[bundleID]
}

// stubSnapshotSource serves a fixed catalog view
type stubSnapshotSource struct {
	view pricing.CatalogView
	err  error
}

func (s *stubSnapshotSource) Get(ctx context.Context) (pricing.CatalogView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.view, nil
}
