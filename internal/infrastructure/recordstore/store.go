package recordstore

import (
	"context"
)

// Record is one schema-less row of a logical table, as stored: a flat
// key/value map serialized as JSON text. The engine, not the store,
// enforces any data model on top of it.
type Record = map[string]any

// ListOptions holds list query parameters for a logical table.
type ListOptions struct {
	// Search is a case-insensitive substring matched against the
	// serialized form of any record field.
	Search string
	// Page is 1-based.
	Page int
	// Limit 0 means "all".
	Limit int
}

// ListResult is one page of records.
type ListResult struct {
	Data  []Record `json:"data"`
	Total int64    `json:"total"`
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
}

// Store is the generic per-table record store the engine persists
// through. It has no schema knowledge: one physical table keyed by
// (logical table name, id) holding an opaque serialized record.
type Store interface {
	List(ctx context.Context, table string, opts ListOptions) (*ListResult, error)
	Get(ctx context.Context, table, id string) (Record, error)
	// Create stores a record, assigning id = max(existing numeric ids)+1,
	// stringified, when the record carries none.
	Create(ctx context.Context, table string, rec Record) (Record, error)
	// Update shallow-merges the partial record over the existing fields.
	Update(ctx context.Context, table, id string, partial Record) (Record, error)
	Delete(ctx context.Context, table, id string) error
}

// Logical table names used by the engine.
const (
	TableServices       = "services"
	TableBundles        = "bundles"
	TableBundleItems    = "bundle_items"
	TableQuotations     = "quotations"
	TableQuotationLines = "quotation_lines"
	TableInvoices       = "invoices"
	TableInvoiceLines   = "invoice_lines"
	TableCurrencyRates  = "currency_rates"
	TableCustomers      = "customers"
	TableTemplates      = "templates"
)
