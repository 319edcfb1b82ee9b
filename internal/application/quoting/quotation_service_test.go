package quoting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quoteflow/backend/internal/domain/catalog"
	"github.com/quoteflow/backend/internal/domain/invoicing"
	"github.com/quoteflow/backend/internal/domain/pricing"
	"github.com/quoteflow/backend/internal/domain/quoting"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testConfig() config.QuotingConfig {
	return config.QuotingConfig{
		QuotationPrefix: "QT",
		InvoicePrefix:   "INV",
		ValidityDays:    30,
		InvoiceDueDays:  30,
		DefaultCurrency: "USD",
	}
}

func testView() *mapView {
	return &mapView{
		services: map[string]catalog.Service{
			"1": {ID: "1", Name: "Consulting", BaseRate: decimal.NewFromInt(100), MaxQty: decimal.NewFromInt(100)},
			"2": {ID: "2", Name: "Training", BaseRate: decimal.NewFromInt(50)},
		},
		bundles: map[string]catalog.Bundle{
			"10": {ID: "10", Name: "Onboarding"},
		},
		items: map[string][]catalog.BundleItem{
			"10": {
				{ID: "1", BundleID: "10", ServiceID: "1", Quantity: 1},
				{ID: "2", BundleID: "10", ServiceID: "2", Quantity: 2},
			},
		},
	}
}

type serviceFixture struct {
	quotations   *MockQuotationRepository
	lines        *MockQuotationLineRepository
	invoices     *MockInvoiceRepository
	invoiceLines *MockInvoiceLineRepository
	view         *mapView
	service      *QuotationService
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		quotations:   new(MockQuotationRepository),
		lines:        new(MockQuotationLineRepository),
		invoices:     new(MockInvoiceRepository),
		invoiceLines: new(MockInvoiceLineRepository),
		view:         testView(),
	}
	f.service = NewQuotationService(f.quotations, f.lines, f.invoices, f.invoiceLines,
		&stubSnapshotSource{view: f.view}, testConfig(), nil)
	return f
}

func TestCreate_GeneratesSequentialNumber(t *testing.T) {
	f := newFixture()
	issue := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	f.quotations.On("MaxSequence", mock.Anything, "QT-202608-").Return(2, nil)
	f.quotations.On("Create", mock.Anything, mock.MatchedBy(func(q *quoting.Quotation) bool {
		return q.Number == "QT-202608-000003"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*quoting.Quotation).ID = "7"
	}).Return(nil)
	f.lines.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.service.Create(context.Background(), CreateQuotationRequest{
		ClientName: "Acme Ltd",
		IssueDate:  &issue,
		Lines:      []LineRequest{{ServiceID: "1"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "QT-202608-000003", resp.Number)
	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, 1, resp.Version)
	assert.Equal(t, issue.AddDate(0, 0, 30), resp.ValidUntil)
	f.quotations.AssertExpectations(t)
}

func TestCreate_RejectsDuplicateNumber(t *testing.T) {
	f := newFixture()

	f.quotations.On("FindByNumber", mock.Anything, "QT-202608-000001").
		Return(&quoting.Quotation{ID: "1", Number: "QT-202608-000001"}, nil)

	_, err := f.service.Create(context.Background(), CreateQuotationRequest{
		Number:     "QT-202608-000001",
		ClientName: "Acme Ltd",
		Lines:      []LineRequest{{ServiceID: "1"}},
	})

	assert.ErrorIs(t, err, shared.ErrDuplicateNumber)
	f.quotations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_BuffersStackMultiplicatively(t *testing.T) {
	f := newFixture()

	f.quotations.On("FindByNumber", mock.Anything, "QT-X").Return(nil, shared.ErrNotFound)
	f.quotations.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*quoting.Quotation).ID = "7"
	}).Return(nil)

	var saved []*quoting.QuotationLine
	f.lines.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(*quoting.QuotationLine))
	}).Return(nil)

	resp, err := f.service.Create(context.Background(), CreateQuotationRequest{
		Number:          "QT-X",
		ClientName:      "Acme Ltd",
		HeaderBufferPct: decimal.NewFromInt(10),
		Lines:           []LineRequest{{ServiceID: "1", LineBufferPct: decimal.NewFromInt(10)}},
	})

	require.NoError(t, err)
	require.Len(t, saved, 1)
	// 100 x 1.10 x 1.10 = 121, never 120
	assert.True(t, saved[0].AdjustedRate.Equal(dec("121")), "got %s", saved[0].AdjustedRate)
	require.Len(t, resp.Lines, 1)
}

func TestCreate_ExpandedBundleEmitsPerUnitLines(t *testing.T) {
	f := newFixture()

	f.quotations.On("FindByNumber", mock.Anything, "QT-X").Return(nil, shared.ErrNotFound)
	f.quotations.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*quoting.Quotation).ID = "7"
	}).Return(nil)

	var saved []*quoting.QuotationLine
	f.lines.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(*quoting.QuotationLine))
	}).Return(nil)

	_, err := f.service.Create(context.Background(), CreateQuotationRequest{
		Number:     "QT-X",
		ClientName: "Acme Ltd",
		Lines:      []LineRequest{{BundleID: "10", ExpandBundle: true}},
	})

	require.NoError(t, err)
	// 1x Consulting + 2x Training, one line per unit
	require.Len(t, saved, 3)
	for i, line := range saved {
		assert.Equal(t, "Onboarding", line.FromBundle)
		assert.Equal(t, i, line.SortOrder)
		assert.True(t, line.Quantity.Equal(decimal.NewFromInt(1)))
	}
}

func TestCreate_AggregatedBundleLine(t *testing.T) {
	f := newFixture()

	f.quotations.On("FindByNumber", mock.Anything, "QT-X").Return(nil, shared.ErrNotFound)
	f.quotations.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*quoting.Quotation).ID = "7"
	}).Return(nil)

	var saved []*quoting.QuotationLine
	f.lines.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(*quoting.QuotationLine))
	}).Return(nil)

	resp, err := f.service.Create(context.Background(), CreateQuotationRequest{
		Number:     "QT-X",
		ClientName: "Acme Ltd",
		Lines:      []LineRequest{{BundleID: "10"}},
	})

	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.True(t, saved[0].IsBundle)
	assert.True(t, saved[0].BaseRate.IsZero())
	// 100 + 2x50 aggregated into the bundle cost
	assert.True(t, saved[0].BundleCost.Equal(dec("200")))
	assert.True(t, resp.GrandTotal.Equal(dec("200")))
}

func TestCreate_QuantityOutsideBounds(t *testing.T) {
	f := newFixture()

	f.quotations.On("FindByNumber", mock.Anything, "QT-X").Return(nil, shared.ErrNotFound)

	_, err := f.service.Create(context.Background(), CreateQuotationRequest{
		Number:     "QT-X",
		ClientName: "Acme Ltd",
		Lines:      []LineRequest{{ServiceID: "1", Quantity: decimal.NewFromInt(500)}},
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
}

func TestList_LazyExpiryFlipsAndPersists(t *testing.T) {
	f := newFixture()

	stale := quoting.Quotation{
		ID:         "1",
		Number:     "QT-202607-000001",
		ClientName: "Acme Ltd",
		Status:     quoting.StatusCurrent,
		ValidUntil: time.Now().AddDate(0, 0, -2),
	}
	fresh := quoting.Quotation{
		ID:         "2",
		Number:     "QT-202608-000001",
		ClientName: "Acme Ltd",
		Status:     quoting.StatusCurrent,
		ValidUntil: time.Now().AddDate(0, 0, 10),
	}
	f.quotations.On("FindAll", mock.Anything, mock.Anything).
		Return([]quoting.Quotation{stale, fresh}, int64(2), nil)
	f.quotations.On("Update", mock.Anything, mock.MatchedBy(func(q *quoting.Quotation) bool {
		return q.ID == "1" && q.Status == quoting.StatusExpired
	})).Return(nil)

	responses, total, err := f.service.List(context.Background(), shared.Filter{})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "EXPIRED", responses[0].Status)
	assert.Equal(t, "CURRENT", responses[1].Status)
	f.quotations.AssertExpectations(t)
}

func TestGetByID_ValidThroughEndOfValidUntilDay(t *testing.T) {
	f := newFixture()

	today := time.Now()
	q := &quoting.Quotation{
		ID:         "1",
		Number:     "QT-202608-000001",
		ClientName: "Acme Ltd",
		Status:     quoting.StatusCurrent,
		ValidUntil: time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
	}
	f.quotations.On("FindByID", mock.Anything, "1").Return(q, nil)
	f.lines.On("FindByQuotation", mock.Anything, "1").Return([]quoting.QuotationLine{}, nil)

	resp, err := f.service.GetByID(context.Background(), "1")

	require.NoError(t, err)
	assert.Equal(t, "CURRENT", resp.Status, "still valid on its valid-until day")
	f.quotations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRevise_CreatesSuccessorAndFreezesParent(t *testing.T) {
	f := newFixture()

	parent := &quoting.Quotation{
		ID:              "1",
		Number:          "QT-202608-000007",
		ClientName:      "Acme Ltd",
		Currency:        "USD",
		Status:          quoting.StatusCurrent,
		ValidUntil:      time.Now().AddDate(0, 0, 10),
		HeaderBufferPct: decimal.NewFromInt(15),
		Version:         1,
	}
	f.quotations.On("FindByID", mock.Anything, "1").Return(parent, nil)
	f.quotations.On("FindByNumber", mock.Anything, "QT-202608-000008").Return(nil, shared.ErrNotFound)
	f.quotations.On("Create", mock.Anything, mock.MatchedBy(func(q *quoting.Quotation) bool {
		return q.Number == "QT-202608-000008" && q.Version == 2 &&
			q.ParentID == "1" && q.ParentNumber == "QT-202608-000007" &&
			q.Status == quoting.StatusCurrent
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*quoting.Quotation).ID = "2"
	}).Return(nil)
	f.lines.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.quotations.On("Update", mock.Anything, mock.MatchedBy(func(q *quoting.Quotation) bool {
		return q.ID == "1" && q.Status == quoting.StatusRevised
	})).Return(nil)

	resp, err := f.service.Revise(context.Background(), "1", ReviseQuotationRequest{
		Lines: []LineRequest{{ServiceID: "2"}},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Version)
	assert.False(t, resp.InvoiceGenerated, "revision starts unflagged")
	f.quotations.AssertExpectations(t)
}

func TestRevise_RejectsNonCurrentParent(t *testing.T) {
	f := newFixture()

	parent := &quoting.Quotation{
		ID:         "1",
		Number:     "QT-202608-000007",
		Status:     quoting.StatusRevised,
		ValidUntil: time.Now().AddDate(0, 0, 10),
	}
	f.quotations.On("FindByID", mock.Anything, "1").Return(parent, nil)

	_, err := f.service.Revise(context.Background(), "1", ReviseQuotationRequest{
		Lines: []LineRequest{{ServiceID: "1"}},
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "QUOTATION_NOT_CURRENT", domainErr.Code)
}

func TestRevise_ExpiredParentIsFlippedThenRejected(t *testing.T) {
	f := newFixture()

	parent := &quoting.Quotation{
		ID:         "1",
		Number:     "QT-202606-000001",
		Status:     quoting.StatusCurrent,
		ValidUntil: time.Now().AddDate(0, 0, -5),
	}
	f.quotations.On("FindByID", mock.Anything, "1").Return(parent, nil)
	f.quotations.On("Update", mock.Anything, mock.MatchedBy(func(q *quoting.Quotation) bool {
		return q.Status == quoting.StatusExpired
	})).Return(nil)

	_, err := f.service.Revise(context.Background(), "1", ReviseQuotationRequest{
		Lines: []LineRequest{{ServiceID: "1"}},
	})

	require.Error(t, err)
	f.quotations.AssertExpectations(t)
}

func TestRevise_FreezeFailureWritesNoRevision(t *testing.T) {
	f := newFixture()

	parent := &quoting.Quotation{
		ID:         "1",
		Number:     "QT-202608-000007",
		ClientName: "Acme Ltd",
		Currency:   "USD",
		Status:     quoting.StatusCurrent,
		ValidUntil: time.Now().AddDate(0, 0, 10),
		Version:    1,
	}
	f.quotations.On("FindByID", mock.Anything, "1").Return(parent, nil)
	f.quotations.On("FindByNumber", mock.Anything, "QT-202608-000008").Return(nil, shared.ErrNotFound)
	f.quotations.On("Update", mock.Anything, mock.MatchedBy(func(q *quoting.Quotation) bool {
		return q.ID == "1" && q.Status == quoting.StatusRevised
	})).Return(errors.New("connection reset"))

	_, err := f.service.Revise(context.Background(), "1", ReviseQuotationRequest{
		Lines: []LineRequest{{ServiceID: "1"}},
	})

	require.Error(t, err)
	// The parent freezes first; a failed freeze must not leave a second
	// Current quotation behind.
	f.quotations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.lines.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRevise_RevisionWriteFailureUnfreezesParent(t *testing.T) {
	f := newFixture()

	parent := &quoting.Quotation{
		ID:         "1",
		Number:     "QT-202608-000007",
		ClientName: "Acme Ltd",
		Currency:   "USD",
		Status:     quoting.StatusCurrent,
		ValidUntil: time.Now().AddDate(0, 0, 10),
		Version:    1,
	}
	f.quotations.On("FindByID", mock.Anything, "1").Return(parent, nil)
	f.quotations.On("FindByNumber", mock.Anything, "QT-202608-000008").Return(nil, shared.ErrNotFound)
	f.quotations.On("Update", mock.Anything, mock.MatchedBy(func(q *quoting.Quotation) bool {
		return q.ID == "1" && q.Status == quoting.StatusRevised
	})).Return(nil).Once()
	f.quotations.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
	f.quotations.On("Update", mock.Anything, mock.MatchedBy(func(q *quoting.Quotation) bool {
		return q.ID == "1" && q.Status == quoting.StatusCurrent
	})).Return(nil).Once()

	_, err := f.service.Revise(context.Background(), "1", ReviseQuotationRequest{
		Lines: []LineRequest{{ServiceID: "1"}},
	})

	require.Error(t, err)
	// The frozen parent is restored so the document keeps a Current head
	// and a retry can run.
	assert.Equal(t, quoting.StatusCurrent, parent.Status)
	f.quotations.AssertExpectations(t)
	f.lines.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPreviewTotals(t *testing.T) {
	f := newFixture()

	// Single line of 1000: 10 units of Consulting at 100
	resp, err := f.service.PreviewTotals(context.Background(), PreviewTotalsRequest{
		HeaderBufferPct: decimal.NewFromInt(15),
		TaxRatePct:      decimal.NewFromInt(9),
		DiscountType:    pricing.DiscountPercent,
		DiscountValue:   decimal.NewFromInt(10),
		Lines:           []LineRequest{{ServiceID: "1", Quantity: decimal.NewFromInt(10)}},
	})

	require.NoError(t, err)
	// Line totals already include the header buffer once; the quotation
	// document level applies it again on top.
	assert.True(t, resp.Subtotal.Equal(dec("1150")), "got %s", resp.Subtotal)
	assert.True(t, resp.BufferedSubtotal.Equal(dec("1322.5")), "got %s", resp.BufferedSubtotal)
	assert.True(t, resp.TaxAmount.Equal(dec("119.025")), "got %s", resp.TaxAmount)
	assert.True(t, resp.DiscountAmount.Equal(dec("132.25")), "got %s", resp.DiscountAmount)
	assert.True(t, resp.GrandTotal.Equal(dec("1309.275")), "got %s", resp.GrandTotal)
}

func TestGenerateInvoice_SnapshotsQuotation(t *testing.T) {
	f := newFixture()

	q := &quoting.Quotation{
		ID:              "1",
		Number:          "QT-202608-000001",
		ClientName:      "Acme Ltd",
		ClientContact:   "Jo",
		Currency:        "USD",
		Status:          quoting.StatusCurrent,
		ValidUntil:      time.Now().AddDate(0, 0, 10),
		HeaderBufferPct: decimal.NewFromInt(10),
		TaxRatePct:      decimal.NewFromInt(9),
	}
	qlines := []quoting.QuotationLine{
		{ID: "11", QuotationID: "1", ServiceID: "1", Name: "Consulting",
			BaseRate: decimal.NewFromInt(100), LineBufferPct: decimal.NewFromInt(50),
			Quantity: decimal.NewFromInt(2), SortOrder: 0},
		{ID: "12", QuotationID: "1", BundleID: "10", Name: "Onboarding",
			BundleCost: decimal.NewFromInt(200), IsBundle: true,
			Quantity: decimal.NewFromInt(1), SortOrder: 1},
	}

	f.quotations.On("FindByID", mock.Anything, "1").Return(q, nil)
	f.lines.On("FindByQuotation", mock.Anything, "1").Return(qlines, nil)
	f.invoices.On("FindByQuotation", mock.Anything, "1").Return(nil, shared.ErrNotFound)
	f.invoices.On("MaxSequence", mock.Anything, mock.Anything).Return(0, nil)
	f.invoices.On("Create", mock.Anything, mock.MatchedBy(func(inv *invoicing.Invoice) bool {
		return inv.QuotationID == "1" && inv.Status == invoicing.StatusPending &&
			inv.ClientName == "Acme Ltd"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*invoicing.Invoice).ID = "100"
	}).Return(nil)

	var savedLines []*invoicing.InvoiceLine
	f.invoiceLines.On("FindByInvoice", mock.Anything, "100").Return([]invoicing.InvoiceLine{}, nil).Once()
	f.invoiceLines.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		savedLines = append(savedLines, args.Get(1).(*invoicing.InvoiceLine))
	}).Return(nil)
	f.invoiceLines.On("FindByInvoice", mock.Anything, "100").Return([]invoicing.InvoiceLine{}, nil).Once()

	f.quotations.On("Update", mock.Anything, mock.MatchedBy(func(q *quoting.Quotation) bool {
		return q.InvoiceGenerated
	})).Return(nil)

	resp, err := f.service.GenerateInvoice(context.Background(), "1", GenerateInvoiceRequest{})

	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
	require.Len(t, savedLines, 2)
	// Service line: base rate with the header buffer baked in once; the
	// quotation's 50% line buffer is display-only and not reapplied.
	assert.True(t, savedLines[0].Rate.Equal(dec("110")), "got %s", savedLines[0].Rate)
	assert.Equal(t, "11", savedLines[0].SourceLineID)
	// Bundle line: bundle cost takes the place of the base rate
	assert.True(t, savedLines[1].Rate.Equal(dec("220")), "got %s", savedLines[1].Rate)
	f.quotations.AssertExpectations(t)
}

func TestGenerateInvoice_RatesFrozenAgainstCatalogEdits(t *testing.T) {
	f := newFixture()

	q := &quoting.Quotation{
		ID:              "1",
		Number:          "QT-202608-000001",
		ClientName:      "Acme Ltd",
		Currency:        "USD",
		Status:          quoting.StatusCurrent,
		ValidUntil:      time.Now().AddDate(0, 0, 10),
		HeaderBufferPct: decimal.NewFromInt(10),
	}
	qlines := []quoting.QuotationLine{
		{ID: "11", QuotationID: "1", ServiceID: "1", Name: "Consulting",
			BaseRate: decimal.NewFromInt(100), Quantity: decimal.NewFromInt(2), SortOrder: 0},
	}

	f.quotations.On("FindByID", mock.Anything, "1").Return(q, nil)
	f.lines.On("FindByQuotation", mock.Anything, "1").Return(qlines, nil)
	f.invoices.On("FindByQuotation", mock.Anything, "1").Return(nil, shared.ErrNotFound)
	f.invoices.On("MaxSequence", mock.Anything, mock.Anything).Return(0, nil)
	f.invoices.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*invoicing.Invoice).ID = "100"
	}).Return(nil)

	var saved []*invoicing.InvoiceLine
	f.invoiceLines.On("FindByInvoice", mock.Anything, "100").Return([]invoicing.InvoiceLine{}, nil)
	f.invoiceLines.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(*invoicing.InvoiceLine))
	}).Return(nil)
	f.quotations.On("Update", mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.GenerateInvoice(context.Background(), "1", GenerateInvoiceRequest{})
	require.NoError(t, err)
	require.Len(t, saved, 1)

	// Raise the catalog rate after generation. New pricing sees it
	svc := f.view.services["1"]
	svc.BaseRate = decimal.NewFromInt(999)
	f.view.services["1"] = svc

	preview, err := f.service.PreviewTotals(context.Background(), PreviewTotalsRequest{
		Lines: []LineRequest{{ServiceID: "1", Quantity: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)
	assert.True(t, preview.Subtotal.Equal(dec("1998")), "got %s", preview.Subtotal)

	// but the generated line keeps the values priced from the quotation
	assert.True(t, saved[0].Rate.Equal(dec("110")), "got %s", saved[0].Rate)
	assert.True(t, saved[0].LineTotal.Equal(dec("220")), "got %s", saved[0].LineTotal)
}

func TestGenerateInvoice_RejectsSecondRun(t *testing.T) {
	f := newFixture()

	q := &quoting.Quotation{
		ID:               "1",
		Status:           quoting.StatusCurrent,
		ValidUntil:       time.Now().AddDate(0, 0, 10),
		InvoiceGenerated: true,
	}
	f.quotations.On("FindByID", mock.Anything, "1").Return(q, nil)

	_, err := f.service.GenerateInvoice(context.Background(), "1", GenerateInvoiceRequest{})
	assert.ErrorIs(t, err, shared.ErrAlreadyInvoiced)
	f.invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGenerateInvoice_RejectsNonCurrent(t *testing.T) {
	f := newFixture()

	q := &quoting.Quotation{
		ID:         "1",
		Status:     quoting.StatusRevised,
		ValidUntil: time.Now().AddDate(0, 0, 10),
	}
	f.quotations.On("FindByID", mock.Anything, "1").Return(q, nil)

	_, err := f.service.GenerateInvoice(context.Background(), "1", GenerateInvoiceRequest{})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "QUOTATION_NOT_CURRENT", domainErr.Code)
}

func TestGenerateInvoice_ResumesPartialRun(t *testing.T) {
	f := newFixture()

	q := &quoting.Quotation{
		ID:              "1",
		ClientName:      "Acme Ltd",
		Currency:        "USD",
		Status:          quoting.StatusCurrent,
		ValidUntil:      time.Now().AddDate(0, 0, 10),
		HeaderBufferPct: decimal.NewFromInt(10),
	}
	qlines := []quoting.QuotationLine{
		{ID: "11", QuotationID: "1", ServiceID: "1", Name: "Consulting",
			BaseRate: decimal.NewFromInt(100), Quantity: decimal.NewFromInt(1), SortOrder: 0},
		{ID: "12", QuotationID: "1", ServiceID: "2", Name: "Training",
			BaseRate: decimal.NewFromInt(50), Quantity: decimal.NewFromInt(1), SortOrder: 1},
	}
	partialInvoice := &invoicing.Invoice{ID: "100", QuotationID: "1", Status: invoicing.StatusPending}

	f.quotations.On("FindByID", mock.Anything, "1").Return(q, nil)
	f.lines.On("FindByQuotation", mock.Anything, "1").Return(qlines, nil)
	f.invoices.On("FindByQuotation", mock.Anything, "1").Return(partialInvoice, nil)

	// Line 11 survived the earlier partial run; only line 12 is written
	f.invoiceLines.On("FindByInvoice", mock.Anything, "100").Return([]invoicing.InvoiceLine{
		{ID: "201", InvoiceID: "100", SourceLineID: "11"},
	}, nil).Once()

	var savedLines []*invoicing.InvoiceLine
	f.invoiceLines.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		savedLines = append(savedLines, args.Get(1).(*invoicing.InvoiceLine))
	}).Return(nil)
	f.invoiceLines.On("FindByInvoice", mock.Anything, "100").Return([]invoicing.InvoiceLine{
		{ID: "201", InvoiceID: "100", SourceLineID: "11"},
		{ID: "202", InvoiceID: "100", SourceLineID: "12"},
	}, nil).Once()

	f.quotations.On("Update", mock.Anything, mock.MatchedBy(func(q *quoting.Quotation) bool {
		return q.InvoiceGenerated
	})).Return(nil)

	resp, err := f.service.GenerateInvoice(context.Background(), "1", GenerateInvoiceRequest{})

	require.NoError(t, err)
	require.Len(t, savedLines, 1, "only the missing line is created")
	assert.Equal(t, "12", savedLines[0].SourceLineID)
	assert.Len(t, resp.Lines, 2)
	// No new invoice row, no second number consumed
	f.invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.invoices.AssertNotCalled(t, "MaxSequence", mock.Anything, mock.Anything)
}
