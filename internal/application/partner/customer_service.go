package partner

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/partner"
	"github.com/quoteflow/backend/internal/domain/shared"
)

// CustomerService handles customer reference-data operations
type CustomerService struct {
	customers partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customers partner.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	c, err := partner.NewCustomer(req.Name, req.Contact, req.Email, req.Address)
	if err != nil {
		return nil, err
	}
	c.Notes = req.Notes

	if err := s.customers.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id string) (*CustomerResponse, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// List retrieves customers with search and pagination
func (s *CustomerService) List(ctx context.Context, filter shared.Filter) ([]CustomerResponse, int64, error) {
	customers, total, err := s.customers.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, ToCustomerResponse(&customers[i]))
	}
	return responses, total, nil
}

// Update applies the requested edits to a customer. Documents copy
// customer fields at creation, so edits never rewrite issued documents.
func (s *CustomerService) Update(ctx context.Context, id string, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
		}
		c.Name = *req.Name
	}
	if req.Contact != nil {
		c.Contact = *req.Contact
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}

	if err := s.customers.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	return s.customers.Delete(ctx, id)
}
