package persistence

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/partner"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/infrastructure/recordstore"
)

// RecordCustomerRepository implements partner.CustomerRepository over the
// generic record store.
type RecordCustomerRepository struct {
	store recordstore.Store
}

// NewRecordCustomerRepository creates a new RecordCustomerRepository
func NewRecordCustomerRepository(store recordstore.Store) *RecordCustomerRepository {
	return &RecordCustomerRepository{store: store}
}

// FindByID finds a customer by its ID
func (r *RecordCustomerRepository) FindByID(ctx context.Context, id string) (*partner.Customer, error) {
	rec, err := r.store.Get(ctx, recordstore.TableCustomers, id)
	if err != nil {
		return nil, err
	}
	c := decodeCustomer(rec)
	return &c, nil
}

// FindAll lists customers with search and pagination
func (r *RecordCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, int64, error) {
	filter = filter.Normalize()
	result, err := r.store.List(ctx, recordstore.TableCustomers, recordstore.ListOptions{
		Search: filter.Search,
		Page:   filter.Page,
		Limit:  filter.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	customers := make([]partner.Customer, 0, len(result.Data))
	for _, rec := range result.Data {
		customers = append(customers, decodeCustomer(rec))
	}
	return customers, result.Total, nil
}

// Create stores a new customer and assigns its ID
func (r *RecordCustomerRepository) Create(ctx context.Context, c *partner.Customer) error {
	created, err := r.store.Create(ctx, recordstore.TableCustomers, encodeCustomer(c))
	if err != nil {
		return err
	}
	c.ID = getString(created, "id")
	return nil
}

// Update overwrites the stored customer
func (r *RecordCustomerRepository) Update(ctx context.Context, c *partner.Customer) error {
	_, err := r.store.Update(ctx, recordstore.TableCustomers, c.ID, encodeCustomer(c))
	return err
}

// Delete removes a customer
func (r *RecordCustomerRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, recordstore.TableCustomers, id)
}

func decodeCustomer(rec recordstore.Record) partner.Customer {
	return partner.Customer{
		ID:        getString(rec, "id"),
		Name:      getString(rec, "name"),
		Contact:   getString(rec, "contact"),
		Email:     getString(rec, "email"),
		Address:   getString(rec, "address"),
		Notes:     getString(rec, "notes"),
		CreatedAt: getTimestamp(rec, "created_at"),
		UpdatedAt: getTimestamp(rec, "updated_at"),
	}
}

func encodeCustomer(c *partner.Customer) recordstore.Record {
	rec := recordstore.Record{
		"name":       c.Name,
		"contact":    c.Contact,
		"email":      c.Email,
		"address":    c.Address,
		"notes":      c.Notes,
		"created_at": putTimestamp(c.CreatedAt),
		"updated_at": putTimestamp(c.UpdatedAt),
	}
	if c.ID != "" {
		rec["id"] = c.ID
	}
	return rec
}
