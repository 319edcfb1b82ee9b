package persistence

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/catalog"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/infrastructure/recordstore"
)

// RecordServiceRepository implements catalog.ServiceRepository over the
// generic record store.
type RecordServiceRepository struct {
	store recordstore.Store
}

// NewRecordServiceRepository creates a new RecordServiceRepository
func NewRecordServiceRepository(store recordstore.Store) *RecordServiceRepository {
	return &RecordServiceRepository{store: store}
}

// FindByID finds a service by its ID
func (r *RecordServiceRepository) FindByID(ctx context.Context, id string) (*catalog.Service, error) {
	rec, err := r.store.Get(ctx, recordstore.TableServices, id)
	if err != nil {
		return nil, err
	}
	svc := decodeService(rec)
	return &svc, nil
}

// FindAll lists services with search and pagination
func (r *RecordServiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Service, int64, error) {
	filter = filter.Normalize()
	result, err := r.store.List(ctx, recordstore.TableServices, recordstore.ListOptions{
		Search: filter.Search,
		Page:   filter.Page,
		Limit:  filter.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	services := make([]catalog.Service, 0, len(result.Data))
	for _, rec := range result.Data {
		services = append(services, decodeService(rec))
	}
	return services, result.Total, nil
}

// Create stores a new service and assigns its ID
func (r *RecordServiceRepository) Create(ctx context.Context, svc *catalog.Service) error {
	created, err := r.store.Create(ctx, recordstore.TableServices, encodeService(svc))
	if err != nil {
		return err
	}
	svc.ID = getString(created, "id")
	return nil
}

// Update overwrites the stored service
func (r *RecordServiceRepository) Update(ctx context.Context, svc *catalog.Service) error {
	_, err := r.store.Update(ctx, recordstore.TableServices, svc.ID, encodeService(svc))
	return err
}

// Delete removes a service
func (r *RecordServiceRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, recordstore.TableServices, id)
}

func decodeService(rec recordstore.Record) catalog.Service {
	svc := catalog.Service{
		ID:         getString(rec, "id"),
		Code:       getString(rec, "code"),
		Name:       getString(rec, "name"),
		Category:   getString(rec, "category"),
		Unit:       getString(rec, "unit"),
		Currency:   getString(rec, "currency"),
		Negotiable: getBool(rec, "negotiable"),
		MinQty:     getDecimal(rec, "min_qty"),
		MaxQty:     getDecimal(rec, "max_qty"),
		Notes:      getString(rec, "notes"),
		CreatedAt:  getTimestamp(rec, "created_at"),
		UpdatedAt:  getTimestamp(rec, "updated_at"),
	}
	// a missing or unparseable base rate means "TBD", not zero
	if hasDecimal(rec, "base_rate") {
		svc.BaseRate = getDecimal(rec, "base_rate")
	} else {
		svc.RateTBD = true
	}
	return svc
}

func encodeService(svc *catalog.Service) recordstore.Record {
	rec := recordstore.Record{
		"code":       svc.Code,
		"name":       svc.Name,
		"category":   svc.Category,
		"unit":       svc.Unit,
		"currency":   svc.Currency,
		"negotiable": svc.Negotiable,
		"min_qty":    svc.MinQty.String(),
		"max_qty":    svc.MaxQty.String(),
		"notes":      svc.Notes,
		"created_at": putTimestamp(svc.CreatedAt),
		"updated_at": putTimestamp(svc.UpdatedAt),
	}
	if svc.RateTBD {
		rec["base_rate"] = nil
	} else {
		rec["base_rate"] = svc.BaseRate.String()
	}
	if svc.ID != "" {
		rec["id"] = svc.ID
	}
	return rec
}
