package quoting

import (
	"context"
	"errors"
	"fmt"
	"time"

	appinvoicing "github.com/quoteflow/backend/internal/application/invoicing"
	"github.com/quoteflow/backend/internal/domain/invoicing"
	"github.com/quoteflow/backend/internal/domain/pricing"
	"github.com/quoteflow/backend/internal/domain/quoting"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SnapshotSource provides catalog views for pricing. Wire a fresh
// (uncached) source here: persisted documents must be priced from
// current catalog state, not a stale snapshot.
type SnapshotSource interface {
	Get(ctx context.Context) (pricing.CatalogView, error)
}

// QuotationService orchestrates the quotation lifecycle: creation,
// lazy expiry, revision chains and one-shot invoice generation.
type QuotationService struct {
	quotations   quoting.QuotationRepository
	lines        quoting.QuotationLineRepository
	invoices     invoicing.InvoiceRepository
	invoiceLines invoicing.InvoiceLineRepository
	snapshots    SnapshotSource
	cfg          config.QuotingConfig
	logger       *zap.Logger
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	quotations quoting.QuotationRepository,
	lines quoting.QuotationLineRepository,
	invoices invoicing.InvoiceRepository,
	invoiceLines invoicing.InvoiceLineRepository,
	snapshots SnapshotSource,
	cfg config.QuotingConfig,
	logger *zap.Logger,
) *QuotationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuotationService{
		quotations:   quotations,
		lines:        lines,
		invoices:     invoices,
		invoiceLines: invoiceLines,
		snapshots:    snapshots,
		cfg:          cfg,
		logger:       logger,
	}
}

// pricedLine pairs a resolved draft with its applied line buffer and
// the resulting price.
type pricedLine struct {
	draft         pricing.LineDraft
	lineBufferPct decimal.Decimal
	price         pricing.LinePrice
}

// Create creates and prices a new quotation with its lines
func (s *QuotationService) Create(ctx context.Context, req CreateQuotationRequest) (*QuotationResponse, error) {
	currency := req.Currency
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	issueDate := dateOrToday(req.IssueDate)
	validUntil := issueDate.AddDate(0, 0, s.cfg.ValidityDays)
	if req.ValidUntil != nil {
		validUntil = *req.ValidUntil
	}

	number := req.Number
	if number == "" {
		generated, err := s.nextQuotationNumber(ctx, issueDate)
		if err != nil {
			return nil, err
		}
		number = generated
	} else if err := s.ensureQuotationNumberFree(ctx, number); err != nil {
		return nil, err
	}

	q, err := quoting.NewQuotation(number, req.ClientName, currency, issueDate, validUntil)
	if err != nil {
		return nil, err
	}
	q.ClientContact = req.ClientContact
	q.ClientAddress = req.ClientAddress
	q.ProjectTitle = req.ProjectTitle
	q.HeaderBufferPct = req.HeaderBufferPct
	q.TaxRatePct = req.TaxRatePct
	q.TemplateID = req.TemplateID
	q.Notes = req.Notes
	if err := applyDiscount(q, req.DiscountType, req.DiscountValue); err != nil {
		return nil, err
	}

	priced, missing, err := s.resolveAndPrice(ctx, req.Lines, q.HeaderBufferPct)
	if err != nil {
		return nil, err
	}

	totals := pricing.Totalize(lineTotals(priced), q.HeaderBufferPct, q.TaxRatePct, q.DiscountType, q.DiscountValue, pricing.KindQuotation)
	q.ApplyTotals(totals)

	if err := s.quotations.Create(ctx, q); err != nil {
		return nil, err
	}
	savedLines, err := s.persistLines(ctx, q.ID, priced)
	if err != nil {
		return nil, err
	}

	s.warnMissing(q.ID, missing)
	resp := s.buildResponse(q, savedLines, missing)
	return &resp, nil
}

// GetByID retrieves a quotation and its lines, applying lazy expiry
func (s *QuotationService) GetByID(ctx context.Context, id string) (*QuotationResponse, error) {
	q, err := s.quotations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.autoExpire(ctx, q)

	qlines, err := s.lines.FindByQuotation(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	resp := s.buildResponse(q, qlines, nil)
	return &resp, nil
}

// List retrieves quotations with search and pagination, applying lazy
// expiry to each returned row
func (s *QuotationService) List(ctx context.Context, filter shared.Filter) ([]QuotationResponse, int64, error) {
	quotations, total, err := s.quotations.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]QuotationResponse, 0, len(quotations))
	for i := range quotations {
		s.autoExpire(ctx, &quotations[i])
		responses = append(responses, ToQuotationResponse(&quotations[i]))
	}
	return responses, total, nil
}

// Delete removes a quotation and its lines
func (s *QuotationService) Delete(ctx context.Context, id string) error {
	if err := s.lines.DeleteByQuotation(ctx, id); err != nil {
		return err
	}
	return s.quotations.Delete(ctx, id)
}

// Revise supersedes a Current quotation with a freshly priced revision.
// The parent row is frozen as Revised before the revision is written, so
// at most one quotation in the chain is ever Current; if the revision row
// then fails to persist the freeze is rolled back. The parent's lines and
// stored totals are never touched.
func (s *QuotationService) Revise(ctx context.Context, parentID string, req ReviseQuotationRequest) (*QuotationResponse, error) {
	parent, err := s.quotations.FindByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	s.autoExpire(ctx, parent)
	if parent.Status != quoting.StatusCurrent {
		return nil, shared.NewDomainError("QUOTATION_NOT_CURRENT",
			"Only a Current quotation can be revised, not "+parent.Status.String())
	}
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A revision requires its full set of lines")
	}

	number := quoting.NextRevisionNumber(parent.Number)
	if err := s.ensureQuotationNumberFree(ctx, number); err != nil {
		return nil, err
	}

	issueDate := dateOrToday(req.IssueDate)
	validUntil := issueDate.AddDate(0, 0, s.cfg.ValidityDays)
	if req.ValidUntil != nil {
		validUntil = *req.ValidUntil
	}

	rev := parent.NewRevision(number, issueDate, validUntil)
	if req.ClientName != nil {
		if *req.ClientName == "" {
			return nil, shared.NewDomainError("INVALID_CLIENT", "Client name cannot be empty")
		}
		rev.ClientName = *req.ClientName
	}
	if req.ClientContact != nil {
		rev.ClientContact = *req.ClientContact
	}
	if req.ClientAddress != nil {
		rev.ClientAddress = *req.ClientAddress
	}
	if req.ProjectTitle != nil {
		rev.ProjectTitle = *req.ProjectTitle
	}
	if req.HeaderBufferPct != nil {
		rev.HeaderBufferPct = *req.HeaderBufferPct
	}
	if req.TaxRatePct != nil {
		rev.TaxRatePct = *req.TaxRatePct
	}
	if req.DiscountType != nil || req.DiscountValue != nil {
		dt := rev.DiscountType
		dv := rev.DiscountValue
		if req.DiscountType != nil {
			dt = *req.DiscountType
		}
		if req.DiscountValue != nil {
			dv = *req.DiscountValue
		}
		if err := applyDiscount(rev, dt, dv); err != nil {
			return nil, err
		}
	}
	if req.TemplateID != nil {
		rev.TemplateID = *req.TemplateID
	}
	if req.Notes != nil {
		rev.Notes = *req.Notes
	}

	priced, missing, err := s.resolveAndPrice(ctx, req.Lines, rev.HeaderBufferPct)
	if err != nil {
		return nil, err
	}
	totals := pricing.Totalize(lineTotals(priced), rev.HeaderBufferPct, rev.TaxRatePct, rev.DiscountType, rev.DiscountValue, pricing.KindQuotation)
	rev.ApplyTotals(totals)

	if err := parent.MarkRevised(); err != nil {
		return nil, err
	}
	if err := s.quotations.Update(ctx, parent); err != nil {
		return nil, err
	}

	if err := s.quotations.Create(ctx, rev); err != nil {
		s.unfreezeParent(ctx, parent)
		return nil, err
	}
	savedLines, err := s.persistLines(ctx, rev.ID, priced)
	if err != nil {
		return nil, err
	}

	s.warnMissing(rev.ID, missing)
	resp := s.buildResponse(rev, savedLines, missing)
	return &resp, nil
}

// PreviewTotals prices a prospective line set without persisting anything
func (s *QuotationService) PreviewTotals(ctx context.Context, req PreviewTotalsRequest) (*TotalsResponse, error) {
	discountType := req.DiscountType
	if discountType == "" {
		discountType = pricing.DiscountNone
	}
	if !discountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Unknown discount type "+string(discountType))
	}

	priced, missing, err := s.resolveAndPrice(ctx, req.Lines, req.HeaderBufferPct)
	if err != nil {
		return nil, err
	}
	totals := pricing.Totalize(lineTotals(priced), req.HeaderBufferPct, req.TaxRatePct, discountType, req.DiscountValue, pricing.KindQuotation)

	return &TotalsResponse{
		Subtotal:          totals.Subtotal,
		BufferedSubtotal:  totals.BufferedSubtotal,
		TaxAmount:         totals.Tax,
		DiscountAmount:    totals.Discount,
		GrandTotal:        totals.GrandTotal,
		MissingServiceIDs: missing,
	}, nil
}

// GenerateInvoice materializes the one invoice a quotation may produce.
//
// The write order is deliberate: invoice row first, then its lines, then
// the quotation's generated flag. A crash between steps leaves a resumable
// trail instead of a lost invoice, and re-running resumes by source line
// instead of duplicating lines or consuming a second number.
func (s *QuotationService) GenerateInvoice(ctx context.Context, quotationID string, req GenerateInvoiceRequest) (*appinvoicing.InvoiceResponse, error) {
	q, err := s.quotations.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	s.autoExpire(ctx, q)
	if err := q.CanGenerateInvoice(); err != nil {
		return nil, err
	}

	qlines, err := s.lines.FindByQuotation(ctx, q.ID)
	if err != nil {
		return nil, err
	}

	inv, err := s.invoices.FindByQuotation(ctx, q.ID)
	switch {
	case err == nil:
		// Partial earlier run: the invoice exists but the quotation was
		// never flagged. Resume line creation below.
	case errors.Is(err, shared.ErrNotFound):
		inv, err = s.newInvoiceFromQuotation(ctx, q, qlines, req)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	existing, err := s.invoiceLines.FindByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	written := make(map[string]bool, len(existing))
	for i := range existing {
		written[existing[i].SourceLineID] = true
	}

	for i := range qlines {
		ql := &qlines[i]
		if written[ql.ID] {
			continue
		}
		rate, total := invoiceLinePrice(ql, q.HeaderBufferPct)
		line := &invoicing.InvoiceLine{
			InvoiceID:    inv.ID,
			ServiceID:    ql.ServiceID,
			BundleID:     ql.BundleID,
			SourceLineID: ql.ID,
			Name:         ql.Name,
			Rate:         rate,
			Quantity:     ql.Quantity,
			LineTotal:    total,
			SortOrder:    ql.SortOrder,
			CreatedAt:    time.Now(),
		}
		if err := s.invoiceLines.Create(ctx, line); err != nil {
			return nil, err
		}
	}

	q.MarkInvoiceGenerated()
	if err := s.quotations.Update(ctx, q); err != nil {
		return nil, err
	}

	finalLines, err := s.invoiceLines.FindByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	resp := appinvoicing.ToInvoiceResponse(inv)
	for i := range finalLines {
		resp.Lines = append(resp.Lines, appinvoicing.ToInvoiceLineResponse(&finalLines[i]))
	}
	return &resp, nil
}

// newInvoiceFromQuotation snapshots the quotation into a pending invoice
// row with final totals.
func (s *QuotationService) newInvoiceFromQuotation(ctx context.Context, q *quoting.Quotation, qlines []quoting.QuotationLine, req GenerateInvoiceRequest) (*invoicing.Invoice, error) {
	issueDate := dateOrToday(req.IssueDate)
	dueDate := issueDate.AddDate(0, 0, s.cfg.InvoiceDueDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	stem := numberStem(s.cfg.InvoicePrefix, issueDate)
	seq, err := s.invoices.MaxSequence(ctx, stem)
	if err != nil {
		return nil, err
	}
	number := quoting.NewNumber(s.cfg.InvoicePrefix, issueDate, seq+1)

	inv, err := invoicing.NewInvoice(number, q.ClientName, q.Currency, issueDate, dueDate)
	if err != nil {
		return nil, err
	}
	inv.QuotationID = q.ID
	inv.ClientContact = q.ClientContact
	inv.ClientAddress = q.ClientAddress
	inv.ProjectTitle = q.ProjectTitle
	inv.HeaderBufferPct = q.HeaderBufferPct
	inv.TaxRatePct = q.TaxRatePct
	inv.DiscountType = q.DiscountType
	inv.DiscountValue = q.DiscountValue
	inv.TemplateID = q.TemplateID
	inv.Notes = req.Notes
	if inv.Notes == "" {
		inv.Notes = q.Notes
	}

	totals := make([]decimal.Decimal, 0, len(qlines))
	for i := range qlines {
		_, total := invoiceLinePrice(&qlines[i], q.HeaderBufferPct)
		totals = append(totals, total)
	}
	inv.ApplyTotals(pricing.Totalize(totals, q.HeaderBufferPct, q.TaxRatePct, q.DiscountType, q.DiscountValue, pricing.KindInvoice))

	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// invoiceLinePrice derives the final invoice rate from a quotation line:
// the bundle cost for bundle lines, the base rate otherwise, with the
// header buffer baked in once. The quotation's line buffer shaped the
// displayed quote rate only and is intentionally not reapplied here.
func invoiceLinePrice(ql *quoting.QuotationLine, headerBufferPct decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	base := ql.BaseRate
	if ql.IsBundle {
		base = ql.BundleCost
	}
	price := pricing.Price(base, decimal.Zero, headerBufferPct, decimal.Zero, ql.Quantity)
	return price.AdjustedRate, price.LineTotal
}

// resolveAndPrice turns line requests into priced lines against a fresh
// catalog view. Dangling references are collected, not raised.
func (s *QuotationService) resolveAndPrice(ctx context.Context, reqs []LineRequest, headerBufferPct decimal.Decimal) ([]pricedLine, []string, error) {
	if len(reqs) == 0 {
		return nil, nil, shared.NewDomainError("INVALID_INPUT", "A quotation needs at least one line")
	}
	view, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, nil, err
	}

	var priced []pricedLine
	var missing []string
	for i := range reqs {
		req := &reqs[i]
		quantity := req.Quantity
		if quantity.IsZero() {
			quantity = decimal.NewFromInt(1)
		}

		var drafts []pricing.LineDraft
		switch {
		case req.BundleID != "":
			bundle, ok := view.BundleByID(req.BundleID)
			if !ok {
				return nil, nil, shared.NewDomainError("NOT_FOUND", "Bundle "+req.BundleID+" does not exist")
			}
			result := pricing.ExpandBundle(bundle, view.ItemsByBundle(bundle.ID), view, req.ExpandBundle)
			missing = append(missing, result.Missing...)
			drafts = result.Lines
			if !req.ExpandBundle && len(drafts) == 1 {
				drafts[0].Quantity = quantity
			}
		case req.ServiceID != "":
			svc, ok := view.ServiceByID(req.ServiceID)
			if !ok {
				return nil, nil, shared.NewDomainError("NOT_FOUND", "Service "+req.ServiceID+" does not exist")
			}
			if !svc.QuantityAllowed(quantity) {
				return nil, nil, shared.NewDomainError("INVALID_QUANTITY",
					"Quantity outside the allowed range for service "+svc.Name)
			}
			drafts = []pricing.LineDraft{pricing.PassThrough(svc, quantity)}
		default:
			return nil, nil, shared.NewDomainError("INVALID_INPUT", "A line needs a service or bundle reference")
		}

		// Overrides apply only when the request resolved to a single line
		if len(drafts) == 1 {
			if req.Name != "" {
				drafts[0].Name = req.Name
			}
			if req.Description != "" {
				drafts[0].Description = req.Description
			}
		}

		for _, draft := range drafts {
			priced = append(priced, pricedLine{
				draft:         draft,
				lineBufferPct: req.LineBufferPct,
				price:         pricing.Price(draft.BaseRate, draft.BundleCost, headerBufferPct, req.LineBufferPct, draft.Quantity),
			})
		}
	}
	return priced, missing, nil
}

// persistLines writes the priced lines in order
func (s *QuotationService) persistLines(ctx context.Context, quotationID string, priced []pricedLine) ([]quoting.QuotationLine, error) {
	saved := make([]quoting.QuotationLine, 0, len(priced))
	for i := range priced {
		p := &priced[i]
		line := &quoting.QuotationLine{
			QuotationID:   quotationID,
			ServiceID:     p.draft.ServiceID,
			BundleID:      p.draft.BundleID,
			Name:          p.draft.Name,
			Description:   p.draft.Description,
			BaseRate:      p.draft.BaseRate,
			BundleCost:    p.draft.BundleCost,
			LineBufferPct: p.lineBufferPct,
			AdjustedRate:  p.price.AdjustedRate,
			Quantity:      p.draft.Quantity,
			LineTotal:     p.price.LineTotal,
			IsBundle:      p.draft.IsBundle,
			FromBundle:    p.draft.FromBundle,
			SortOrder:     i,
			CreatedAt:     time.Now(),
		}
		if p.draft.Note != "" && line.Description == "" {
			line.Description = p.draft.Note
		}
		if err := s.lines.Create(ctx, line); err != nil {
			return nil, err
		}
		saved = append(saved, *line)
	}
	return saved, nil
}

// unfreezeParent undoes a parent freeze after the revision row failed to
// persist. Revised is terminal in the status machine, so this is a raw
// compensation write, not a transition.
func (s *QuotationService) unfreezeParent(ctx context.Context, parent *quoting.Quotation) {
	parent.Status = quoting.StatusCurrent
	parent.UpdatedAt = time.Now()
	if err := s.quotations.Update(ctx, parent); err != nil {
		s.logger.Error("failed to unfreeze parent after revision write failure",
			zap.String("quotation_id", parent.ID),
			zap.Error(err),
		)
	}
}

// autoExpire flips a quotation past its validity window to Expired and
// persists the flip. Expiry is lazy: nothing scans for stale rows, they
// are expired as reads touch them.
func (s *QuotationService) autoExpire(ctx context.Context, q *quoting.Quotation) {
	if !q.IsExpired(time.Now()) {
		return
	}
	if err := q.MarkExpired(); err != nil {
		return
	}
	if err := s.quotations.Update(ctx, q); err != nil {
		s.logger.Warn("failed to persist quotation expiry",
			zap.String("quotation_id", q.ID),
			zap.Error(err),
		)
	}
}

func (s *QuotationService) nextQuotationNumber(ctx context.Context, issueDate time.Time) (string, error) {
	stem := numberStem(s.cfg.QuotationPrefix, issueDate)
	seq, err := s.quotations.MaxSequence(ctx, stem)
	if err != nil {
		return "", err
	}
	return quoting.NewNumber(s.cfg.QuotationPrefix, issueDate, seq+1), nil
}

func (s *QuotationService) ensureQuotationNumberFree(ctx context.Context, number string) error {
	_, err := s.quotations.FindByNumber(ctx, number)
	if err == nil {
		return shared.ErrDuplicateNumber
	}
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	return err
}

func (s *QuotationService) buildResponse(q *quoting.Quotation, qlines []quoting.QuotationLine, missing []string) QuotationResponse {
	resp := ToQuotationResponse(q)
	for i := range qlines {
		resp.Lines = append(resp.Lines, ToQuotationLineResponse(&qlines[i]))
	}
	resp.MissingServiceIDs = missing
	return resp
}

func (s *QuotationService) warnMissing(quotationID string, missing []string) {
	if len(missing) == 0 {
		return
	}
	s.logger.Warn("quotation priced with missing catalog references",
		zap.String("quotation_id", quotationID),
		zap.Strings("service_ids", missing),
	)
}

func applyDiscount(q *quoting.Quotation, discountType pricing.DiscountType, value decimal.Decimal) error {
	if discountType == "" {
		discountType = pricing.DiscountNone
	}
	if !discountType.IsValid() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Unknown discount type "+string(discountType))
	}
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount value cannot be negative")
	}
	q.DiscountType = discountType
	q.DiscountValue = value
	return nil
}

func lineTotals(priced []pricedLine) []decimal.Decimal {
	totals := make([]decimal.Decimal, 0, len(priced))
	for i := range priced {
		totals = append(totals, priced[i].price.LineTotal)
	}
	return totals
}

func dateOrToday(d *time.Time) time.Time {
	if d != nil {
		return *d
	}
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func numberStem(prefix string, issued time.Time) string {
	return fmt.Sprintf("%s-%s-", prefix, issued.Format("200601"))
}
