package partner

import (
	"context"
	"strings"
	"time"

	"github.com/quoteflow/backend/internal/domain/shared"
)

// Customer is a reference-data entry used to prefill a document's client
// fields. Documents copy these values rather than referencing them, so a
// later customer edit never changes an issued quotation or invoice.
type Customer struct {
	ID        string
	Name      string
	Contact   string
	Email     string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCustomer creates a customer after validating required fields.
func NewCustomer(name, contact, email, address string) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	now := time.Now()
	return &Customer{
		Name:      strings.TrimSpace(name),
		Contact:   contact,
		Email:     email,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CustomerRepository provides access to customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, int64, error)
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id string) error
}
