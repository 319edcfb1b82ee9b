package persistence

import (
	"context"
	"sort"
	"strings"

	"github.com/quoteflow/backend/internal/domain/pricing"
	"github.com/quoteflow/backend/internal/domain/quoting"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/infrastructure/recordstore"
)

// RecordQuotationRepository implements quoting.QuotationRepository over
// the generic record store.
type RecordQuotationRepository struct {
	store recordstore.Store
}

// NewRecordQuotationRepository creates a new RecordQuotationRepository
func NewRecordQuotationRepository(store recordstore.Store) *RecordQuotationRepository {
	return &RecordQuotationRepository{store: store}
}

// FindByID finds a quotation by its ID
func (r *RecordQuotationRepository) FindByID(ctx context.Context, id string) (*quoting.Quotation, error) {
	rec, err := r.store.Get(ctx, recordstore.TableQuotations, id)
	if err != nil {
		return nil, err
	}
	q := decodeQuotation(rec)
	return &q, nil
}

// FindByNumber finds a quotation by its display number. The store only
// knows substring search, so the exact match happens here.
func (r *RecordQuotationRepository) FindByNumber(ctx context.Context, number string) (*quoting.Quotation, error) {
	result, err := r.store.List(ctx, recordstore.TableQuotations, recordstore.ListOptions{Search: number})
	if err != nil {
		return nil, err
	}
	for _, rec := range result.Data {
		if getString(rec, "number") == number {
			q := decodeQuotation(rec)
			return &q, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll lists quotations with search and pagination
func (r *RecordQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quoting.Quotation, int64, error) {
	filter = filter.Normalize()
	result, err := r.store.List(ctx, recordstore.TableQuotations, recordstore.ListOptions{
		Search: filter.Search,
		Page:   filter.Page,
		Limit:  filter.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	quotations := make([]quoting.Quotation, 0, len(result.Data))
	for _, rec := range result.Data {
		quotations = append(quotations, decodeQuotation(rec))
	}
	return quotations, result.Total, nil
}

// Create stores a new quotation and assigns its ID
func (r *RecordQuotationRepository) Create(ctx context.Context, q *quoting.Quotation) error {
	created, err := r.store.Create(ctx, recordstore.TableQuotations, encodeQuotation(q))
	if err != nil {
		return err
	}
	q.ID = getString(created, "id")
	return nil
}

// Update overwrites the stored quotation
func (r *RecordQuotationRepository) Update(ctx context.Context, q *quoting.Quotation) error {
	_, err := r.store.Update(ctx, recordstore.TableQuotations, q.ID, encodeQuotation(q))
	return err
}

// Delete removes a quotation
func (r *RecordQuotationRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, recordstore.TableQuotations, id)
}

// MaxSequence returns the highest numeric suffix among quotation numbers
// sharing the given "PREFIX-YYYYMM-" stem.
func (r *RecordQuotationRepository) MaxSequence(ctx context.Context, stem string) (int, error) {
	result, err := r.store.List(ctx, recordstore.TableQuotations, recordstore.ListOptions{Search: stem})
	if err != nil {
		return 0, err
	}
	return maxSequence(result.Data, stem), nil
}

// RecordQuotationLineRepository implements quoting.QuotationLineRepository
// over the generic record store.
type RecordQuotationLineRepository struct {
	store recordstore.Store
}

// NewRecordQuotationLineRepository creates a new RecordQuotationLineRepository
func NewRecordQuotationLineRepository(store recordstore.Store) *RecordQuotationLineRepository {
	return &RecordQuotationLineRepository{store: store}
}

// FindByQuotation lists a quotation's lines in their explicit order
func (r *RecordQuotationLineRepository) FindByQuotation(ctx context.Context, quotationID string) ([]quoting.QuotationLine, error) {
	result, err := r.store.List(ctx, recordstore.TableQuotationLines, recordstore.ListOptions{})
	if err != nil {
		return nil, err
	}
	lines := make([]quoting.QuotationLine, 0)
	for _, rec := range result.Data {
		if getString(rec, "quotation_id") == quotationID {
			lines = append(lines, decodeQuotationLine(rec))
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].SortOrder < lines[j].SortOrder
	})
	return lines, nil
}

// Create stores a new quotation line and assigns its ID
func (r *RecordQuotationLineRepository) Create(ctx context.Context, line *quoting.QuotationLine) error {
	created, err := r.store.Create(ctx, recordstore.TableQuotationLines, encodeQuotationLine(line))
	if err != nil {
		return err
	}
	line.ID = getString(created, "id")
	return nil
}

// DeleteByQuotation removes every line of a quotation
func (r *RecordQuotationLineRepository) DeleteByQuotation(ctx context.Context, quotationID string) error {
	lines, err := r.FindByQuotation(ctx, quotationID)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := r.store.Delete(ctx, recordstore.TableQuotationLines, line.ID); err != nil {
			return err
		}
	}
	return nil
}

func maxSequence(records []recordstore.Record, stem string) int {
	max := 0
	for _, rec := range records {
		number := getString(rec, "number")
		if !strings.HasPrefix(number, stem) {
			continue
		}
		if seq, ok := quoting.SequencePart(number); ok && seq > max {
			max = seq
		}
	}
	return max
}

func decodeQuotation(rec recordstore.Record) quoting.Quotation {
	discountType := pricing.DiscountType(getString(rec, "discount_type"))
	if !discountType.IsValid() {
		discountType = pricing.DiscountNone
	}
	status := quoting.Status(getString(rec, "status"))
	if !status.IsValid() {
		status = quoting.StatusCurrent
	}
	return quoting.Quotation{
		ID:               getString(rec, "id"),
		Number:           getString(rec, "number"),
		ClientName:       getString(rec, "client_name"),
		ClientContact:    getString(rec, "client_contact"),
		ClientAddress:    getString(rec, "client_address"),
		ProjectTitle:     getString(rec, "project_title"),
		Currency:         getString(rec, "currency"),
		IssueDate:        getDate(rec, "issue_date"),
		ValidUntil:       getDate(rec, "valid_until"),
		Status:           status,
		HeaderBufferPct:  getDecimal(rec, "header_buffer_pct"),
		TaxRatePct:       normalizePct(getDecimal(rec, "tax_rate_pct")),
		DiscountType:     discountType,
		DiscountValue:    getDecimal(rec, "discount_value"),
		Subtotal:         getDecimal(rec, "subtotal"),
		TaxAmount:        getDecimal(rec, "tax_amount"),
		DiscountAmount:   getDecimal(rec, "discount_amount"),
		GrandTotal:       getDecimal(rec, "grand_total"),
		Version:          getInt(rec, "version"),
		ParentID:         getString(rec, "parent_id"),
		ParentNumber:     getString(rec, "parent_number"),
		InvoiceGenerated: getBool(rec, "invoice_generated"),
		TemplateID:       getString(rec, "template_id"),
		Notes:            getString(rec, "notes"),
		CreatedAt:        getTimestamp(rec, "created_at"),
		UpdatedAt:        getTimestamp(rec, "updated_at"),
	}
}

func encodeQuotation(q *quoting.Quotation) recordstore.Record {
	rec := recordstore.Record{
		"number":            q.Number,
		"client_name":       q.ClientName,
		"client_contact":    q.ClientContact,
		"client_address":    q.ClientAddress,
		"project_title":     q.ProjectTitle,
		"currency":          q.Currency,
		"issue_date":        putDate(q.IssueDate),
		"valid_until":       putDate(q.ValidUntil),
		"status":            q.Status.String(),
		"header_buffer_pct": q.HeaderBufferPct.String(),
		"tax_rate_pct":      q.TaxRatePct.String(),
		"discount_type":     string(q.DiscountType),
		"discount_value":    q.DiscountValue.String(),
		"subtotal":          q.Subtotal.String(),
		"tax_amount":        q.TaxAmount.String(),
		"discount_amount":   q.DiscountAmount.String(),
		"grand_total":       q.GrandTotal.String(),
		"version":           q.Version,
		"parent_id":         q.ParentID,
		"parent_number":     q.ParentNumber,
		"invoice_generated": q.InvoiceGenerated,
		"template_id":       q.TemplateID,
		"notes":             q.Notes,
		"created_at":        putTimestamp(q.CreatedAt),
		"updated_at":        putTimestamp(q.UpdatedAt),
	}
	if q.ID != "" {
		rec["id"] = q.ID
	}
	return rec
}

func decodeQuotationLine(rec recordstore.Record) quoting.QuotationLine {
	return quoting.QuotationLine{
		ID:            getString(rec, "id"),
		QuotationID:   getString(rec, "quotation_id"),
		ServiceID:     getString(rec, "service_id"),
		BundleID:      getString(rec, "bundle_id"),
		Name:          getString(rec, "name"),
		Description:   getString(rec, "description"),
		BaseRate:      getDecimal(rec, "base_rate"),
		BundleCost:    getDecimal(rec, "bundle_cost"),
		LineBufferPct: getDecimal(rec, "line_buffer_pct"),
		AdjustedRate:  getDecimal(rec, "adjusted_rate"),
		Quantity:      getDecimal(rec, "quantity"),
		LineTotal:     getDecimal(rec, "line_total"),
		IsBundle:      getBool(rec, "is_bundle"),
		FromBundle:    getString(rec, "from_bundle"),
		SortOrder:     getInt(rec, "sort_order"),
		CreatedAt:     getTimestamp(rec, "created_at"),
	}
}

func encodeQuotationLine(line *quoting.QuotationLine) recordstore.Record {
	rec := recordstore.Record{
		"quotation_id":    line.QuotationID,
		"service_id":      line.ServiceID,
		"bundle_id":       line.BundleID,
		"name":            line.Name,
		"description":     line.Description,
		"base_rate":       line.BaseRate.String(),
		"bundle_cost":     line.BundleCost.String(),
		"line_buffer_pct": line.LineBufferPct.String(),
		"adjusted_rate":   line.AdjustedRate.String(),
		"quantity":        line.Quantity.String(),
		"line_total":      line.LineTotal.String(),
		"is_bundle":       line.IsBundle,
		"from_bundle":     line.FromBundle,
		"sort_order":      line.SortOrder,
		"created_at":      putTimestamp(line.CreatedAt),
	}
	if line.ID != "" {
		rec["id"] = line.ID
	}
	return rec
}
