package persistence

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/catalog"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/infrastructure/recordstore"
)

// RecordBundleRepository implements catalog.BundleRepository over the
// generic record store.
type RecordBundleRepository struct {
	store recordstore.Store
}

// NewRecordBundleRepository creates a new RecordBundleRepository
func NewRecordBundleRepository(store recordstore.Store) *RecordBundleRepository {
	return &RecordBundleRepository{store: store}
}

// FindByID finds a bundle by its ID
func (r *RecordBundleRepository) FindByID(ctx context.Context, id string) (*catalog.Bundle, error) {
	rec, err := r.store.Get(ctx, recordstore.TableBundles, id)
	if err != nil {
		return nil, err
	}
	b := decodeBundle(rec)
	return &b, nil
}

// FindAll lists bundles with search and pagination
func (r *RecordBundleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Bundle, int64, error) {
	filter = filter.Normalize()
	result, err := r.store.List(ctx, recordstore.TableBundles, recordstore.ListOptions{
		Search: filter.Search,
		Page:   filter.Page,
		Limit:  filter.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	bundles := make([]catalog.Bundle, 0, len(result.Data))
	for _, rec := range result.Data {
		bundles = append(bundles, decodeBundle(rec))
	}
	return bundles, result.Total, nil
}

// Create stores a new bundle and assigns its ID
func (r *RecordBundleRepository) Create(ctx context.Context, b *catalog.Bundle) error {
	created, err := r.store.Create(ctx, recordstore.TableBundles, encodeBundle(b))
	if err != nil {
		return err
	}
	b.ID = getString(created, "id")
	return nil
}

// Update overwrites the stored bundle
func (r *RecordBundleRepository) Update(ctx context.Context, b *catalog.Bundle) error {
	_, err := r.store.Update(ctx, recordstore.TableBundles, b.ID, encodeBundle(b))
	return err
}

// Delete removes a bundle
func (r *RecordBundleRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, recordstore.TableBundles, id)
}

// RecordBundleItemRepository implements catalog.BundleItemRepository over
// the generic record store.
type RecordBundleItemRepository struct {
	store recordstore.Store
}

// NewRecordBundleItemRepository creates a new RecordBundleItemRepository
func NewRecordBundleItemRepository(store recordstore.Store) *RecordBundleItemRepository {
	return &RecordBundleItemRepository{store: store}
}

// FindByID finds a bundle item by its ID
func (r *RecordBundleItemRepository) FindByID(ctx context.Context, id string) (*catalog.BundleItem, error) {
	rec, err := r.store.Get(ctx, recordstore.TableBundleItems, id)
	if err != nil {
		return nil, err
	}
	item := decodeBundleItem(rec)
	return &item, nil
}

// FindByBundle lists the items of one bundle
func (r *RecordBundleItemRepository) FindByBundle(ctx context.Context, bundleID string) ([]catalog.BundleItem, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]catalog.BundleItem, 0, len(all))
	for _, item := range all {
		if item.BundleID == bundleID {
			items = append(items, item)
		}
	}
	return items, nil
}

// FindAll lists every bundle item
func (r *RecordBundleItemRepository) FindAll(ctx context.Context) ([]catalog.BundleItem, error) {
	result, err := r.store.List(ctx, recordstore.TableBundleItems, recordstore.ListOptions{})
	if err != nil {
		return nil, err
	}
	items := make([]catalog.BundleItem, 0, len(result.Data))
	for _, rec := range result.Data {
		items = append(items, decodeBundleItem(rec))
	}
	return items, nil
}

// Create stores a new bundle item and assigns its ID
func (r *RecordBundleItemRepository) Create(ctx context.Context, item *catalog.BundleItem) error {
	created, err := r.store.Create(ctx, recordstore.TableBundleItems, encodeBundleItem(item))
	if err != nil {
		return err
	}
	item.ID = getString(created, "id")
	return nil
}

// Update overwrites the stored bundle item
func (r *RecordBundleItemRepository) Update(ctx context.Context, item *catalog.BundleItem) error {
	_, err := r.store.Update(ctx, recordstore.TableBundleItems, item.ID, encodeBundleItem(item))
	return err
}

// Delete removes a bundle item
func (r *RecordBundleItemRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, recordstore.TableBundleItems, id)
}

func decodeBundle(rec recordstore.Record) catalog.Bundle {
	return catalog.Bundle{
		ID:          getString(rec, "id"),
		Code:        getString(rec, "code"),
		Name:        getString(rec, "name"),
		Description: getString(rec, "description"),
		Unit:        getString(rec, "unit"),
		CreatedAt:   getTimestamp(rec, "created_at"),
		UpdatedAt:   getTimestamp(rec, "updated_at"),
	}
}

func encodeBundle(b *catalog.Bundle) recordstore.Record {
	rec := recordstore.Record{
		"code":        b.Code,
		"name":        b.Name,
		"description": b.Description,
		"unit":        b.Unit,
		"created_at":  putTimestamp(b.CreatedAt),
		"updated_at":  putTimestamp(b.UpdatedAt),
	}
	if b.ID != "" {
		rec["id"] = b.ID
	}
	return rec
}

// decodeBundleItem resolves the canonical billable flags once, at load
// time: legacy records carry a single `include` flag instead of the
// (is_optional, default_selected) pair.
func decodeBundleItem(rec recordstore.Record) catalog.BundleItem {
	optional, selected := catalog.NormalizeItemFlags(
		getOptBool(rec, "is_optional"),
		getOptBool(rec, "default_selected"),
		getOptBool(rec, "include"),
	)
	qty := getInt(rec, "quantity")
	if qty < 1 {
		qty = 1
	}
	return catalog.BundleItem{
		ID:              getString(rec, "id"),
		BundleID:        getString(rec, "bundle_id"),
		ServiceID:       getString(rec, "service_id"),
		Quantity:        qty,
		IsOptional:      optional,
		DefaultSelected: selected,
		Notes:           getString(rec, "notes"),
		CreatedAt:       getTimestamp(rec, "created_at"),
		UpdatedAt:       getTimestamp(rec, "updated_at"),
	}
}

func encodeBundleItem(item *catalog.BundleItem) recordstore.Record {
	rec := recordstore.Record{
		"bundle_id":        item.BundleID,
		"service_id":       item.ServiceID,
		"quantity":         item.Quantity,
		"is_optional":      item.IsOptional,
		"default_selected": item.DefaultSelected,
		"notes":            item.Notes,
		"created_at":       putTimestamp(item.CreatedAt),
		"updated_at":       putTimestamp(item.UpdatedAt),
	}
	if item.ID != "" {
		rec["id"] = item.ID
	}
	return rec
}
