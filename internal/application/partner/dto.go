package partner

import (
	"time"

	"github.com/quoteflow/backend/internal/domain/partner"
)

// CreateCustomerRequest carries the fields for a new customer
type CreateCustomerRequest struct {
	Name    string
	Contact string
	Email   string
	Address string
	Notes   string
}

// UpdateCustomerRequest carries the editable fields of a customer.
// Nil pointers leave the stored value unchanged.
type UpdateCustomerRequest struct {
	Name    *string
	Contact *string
	Email   *string
	Address *string
	Notes   *string
}

// CustomerResponse is the API representation of a customer
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCustomerResponse converts a domain customer to its API representation
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Contact:   c.Contact,
		Email:     c.Email,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
