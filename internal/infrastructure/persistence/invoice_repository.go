package persistence

import (
	"context"
	"sort"

	"github.com/quoteflow/backend/internal/domain/invoicing"
	"github.com/quoteflow/backend/internal/domain/pricing"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/infrastructure/recordstore"
)

// RecordInvoiceRepository implements invoicing.InvoiceRepository over
// the generic record store.
type RecordInvoiceRepository struct {
	store recordstore.Store
}

// NewRecordInvoiceRepository creates a new RecordInvoiceRepository
func NewRecordInvoiceRepository(store recordstore.Store) *RecordInvoiceRepository {
	return &RecordInvoiceRepository{store: store}
}

// FindByID finds an invoice by its ID
func (r *RecordInvoiceRepository) FindByID(ctx context.Context, id string) (*invoicing.Invoice, error) {
	rec, err := r.store.Get(ctx, recordstore.TableInvoices, id)
	if err != nil {
		return nil, err
	}
	inv := decodeInvoice(rec)
	return &inv, nil
}

// FindByNumber finds an invoice by its display number
func (r *RecordInvoiceRepository) FindByNumber(ctx context.Context, number string) (*invoicing.Invoice, error) {
	result, err := r.store.List(ctx, recordstore.TableInvoices, recordstore.ListOptions{Search: number})
	if err != nil {
		return nil, err
	}
	for _, rec := range result.Data {
		if getString(rec, "number") == number {
			inv := decodeInvoice(rec)
			return &inv, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindByQuotation finds the invoice generated from a quotation, if any
func (r *RecordInvoiceRepository) FindByQuotation(ctx context.Context, quotationID string) (*invoicing.Invoice, error) {
	if quotationID == "" {
		return nil, shared.ErrNotFound
	}
	result, err := r.store.List(ctx, recordstore.TableInvoices, recordstore.ListOptions{})
	if err != nil {
		return nil, err
	}
	for _, rec := range result.Data {
		if getString(rec, "quotation_id") == quotationID {
			inv := decodeInvoice(rec)
			return &inv, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll lists invoices with search and pagination
func (r *RecordInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]invoicing.Invoice, int64, error) {
	filter = filter.Normalize()
	result, err := r.store.List(ctx, recordstore.TableInvoices, recordstore.ListOptions{
		Search: filter.Search,
		Page:   filter.Page,
		Limit:  filter.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	invoices := make([]invoicing.Invoice, 0, len(result.Data))
	for _, rec := range result.Data {
		invoices = append(invoices, decodeInvoice(rec))
	}
	return invoices, result.Total, nil
}

// Create stores a new invoice and assigns its ID
func (r *RecordInvoiceRepository) Create(ctx context.Context, inv *invoicing.Invoice) error {
	created, err := r.store.Create(ctx, recordstore.TableInvoices, encodeInvoice(inv))
	if err != nil {
		return err
	}
	inv.ID = getString(created, "id")
	return nil
}

// Update overwrites the stored invoice
func (r *RecordInvoiceRepository) Update(ctx context.Context, inv *invoicing.Invoice) error {
	_, err := r.store.Update(ctx, recordstore.TableInvoices, inv.ID, encodeInvoice(inv))
	return err
}

// Delete removes an invoice
func (r *RecordInvoiceRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, recordstore.TableInvoices, id)
}

// MaxSequence returns the highest numeric suffix among invoice numbers
// sharing the given "PREFIX-YYYYMM-" stem.
func (r *RecordInvoiceRepository) MaxSequence(ctx context.Context, stem string) (int, error) {
	result, err := r.store.List(ctx, recordstore.TableInvoices, recordstore.ListOptions{Search: stem})
	if err != nil {
		return 0, err
	}
	return maxSequence(result.Data, stem), nil
}

// RecordInvoiceLineRepository implements invoicing.InvoiceLineRepository
// over the generic record store.
type RecordInvoiceLineRepository struct {
	store recordstore.Store
}

// NewRecordInvoiceLineRepository creates a new RecordInvoiceLineRepository
func NewRecordInvoiceLineRepository(store recordstore.Store) *RecordInvoiceLineRepository {
	return &RecordInvoiceLineRepository{store: store}
}

// FindByInvoice lists an invoice's lines in their explicit order
func (r *RecordInvoiceLineRepository) FindByInvoice(ctx context.Context, invoiceID string) ([]invoicing.InvoiceLine, error) {
	result, err := r.store.List(ctx, recordstore.TableInvoiceLines, recordstore.ListOptions{})
	if err != nil {
		return nil, err
	}
	lines := make([]invoicing.InvoiceLine, 0)
	for _, rec := range result.Data {
		if getString(rec, "invoice_id") == invoiceID {
			lines = append(lines, decodeInvoiceLine(rec))
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].SortOrder < lines[j].SortOrder
	})
	return lines, nil
}

// Create stores a new invoice line and assigns its ID
func (r *RecordInvoiceLineRepository) Create(ctx context.Context, line *invoicing.InvoiceLine) error {
	created, err := r.store.Create(ctx, recordstore.TableInvoiceLines, encodeInvoiceLine(line))
	if err != nil {
		return err
	}
	line.ID = getString(created, "id")
	return nil
}

func decodeInvoice(rec recordstore.Record) invoicing.Invoice {
	discountType := pricing.DiscountType(getString(rec, "discount_type"))
	if !discountType.IsValid() {
		discountType = pricing.DiscountNone
	}
	status := invoicing.Status(getString(rec, "status"))
	if !status.IsValid() {
		status = invoicing.StatusPending
	}
	return invoicing.Invoice{
		ID:              getString(rec, "id"),
		Number:          getString(rec, "number"),
		QuotationID:     getString(rec, "quotation_id"),
		ClientName:      getString(rec, "client_name"),
		ClientContact:   getString(rec, "client_contact"),
		ClientAddress:   getString(rec, "client_address"),
		ProjectTitle:    getString(rec, "project_title"),
		Currency:        getString(rec, "currency"),
		IssueDate:       getDate(rec, "issue_date"),
		DueDate:         getDate(rec, "due_date"),
		Status:          status,
		HeaderBufferPct: getDecimal(rec, "header_buffer_pct"),
		TaxRatePct:      normalizePct(getDecimal(rec, "tax_rate_pct")),
		DiscountType:    discountType,
		DiscountValue:   getDecimal(rec, "discount_value"),
		Subtotal:        getDecimal(rec, "subtotal"),
		TaxAmount:       getDecimal(rec, "tax_amount"),
		DiscountAmount:  getDecimal(rec, "discount_amount"),
		GrandTotal:      getDecimal(rec, "grand_total"),
		TemplateID:      getString(rec, "template_id"),
		Notes:           getString(rec, "notes"),
		CreatedAt:       getTimestamp(rec, "created_at"),
		UpdatedAt:       getTimestamp(rec, "updated_at"),
	}
}

func encodeInvoice(inv *invoicing.Invoice) recordstore.Record {
	rec := recordstore.Record{
		"number":            inv.Number,
		"quotation_id":      inv.QuotationID,
		"client_name":       inv.ClientName,
		"client_contact":    inv.ClientContact,
		"client_address":    inv.ClientAddress,
		"project_title":     inv.ProjectTitle,
		"currency":          inv.Currency,
		"issue_date":        putDate(inv.IssueDate),
		"due_date":          putDate(inv.DueDate),
		"status":            inv.Status.String(),
		"header_buffer_pct": inv.HeaderBufferPct.String(),
		"tax_rate_pct":      inv.TaxRatePct.String(),
		"discount_type":     string(inv.DiscountType),
		"discount_value":    inv.DiscountValue.String(),
		"subtotal":          inv.Subtotal.String(),
		"tax_amount":        inv.TaxAmount.String(),
		"discount_amount":   inv.DiscountAmount.String(),
		"grand_total":       inv.GrandTotal.String(),
		"template_id":       inv.TemplateID,
		"notes":             inv.Notes,
		"created_at":        putTimestamp(inv.CreatedAt),
		"updated_at":        putTimestamp(inv.UpdatedAt),
	}
	if inv.ID != "" {
		rec["id"] = inv.ID
	}
	return rec
}

func decodeInvoiceLine(rec recordstore.Record) invoicing.InvoiceLine {
	return invoicing.InvoiceLine{
		ID:           getString(rec, "id"),
		InvoiceID:    getString(rec, "invoice_id"),
		ServiceID:    getString(rec, "service_id"),
		BundleID:     getString(rec, "bundle_id"),
		SourceLineID: getString(rec, "source_line_id"),
		Name:         getString(rec, "name"),
		Rate:         getDecimal(rec, "rate"),
		Quantity:     getDecimal(rec, "quantity"),
		LineTotal:    getDecimal(rec, "line_total"),
		SortOrder:    getInt(rec, "sort_order"),
		CreatedAt:    getTimestamp(rec, "created_at"),
	}
}

func encodeInvoiceLine(line *invoicing.InvoiceLine) recordstore.Record {
	rec := recordstore.Record{
		"invoice_id":     line.InvoiceID,
		"service_id":     line.ServiceID,
		"bundle_id":      line.BundleID,
		"source_line_id": line.SourceLineID,
		"name":           line.Name,
		"rate":           line.Rate.String(),
		"quantity":       line.Quantity.String(),
		"line_total":     line.LineTotal.String(),
		"sort_order":     line.SortOrder,
		"created_at":     putTimestamp(line.CreatedAt),
	}
	if line.ID != "" {
		rec["id"] = line.ID
	}
	return rec
}
