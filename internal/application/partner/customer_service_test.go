package partner

import (
	"context"
	"testing"

	"github.com/quoteflow/backend/internal/domain/partner"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id string) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *partner.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *partner.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCustomerService_Create(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *partner.Customer) bool {
		return c.Name == "Acme Ltd" && c.Email == "billing@acme.test"
	})).Return(nil)

	resp, err := svc.Create(context.Background(), CreateCustomerRequest{
		Name:  "Acme Ltd",
		Email: "billing@acme.test",
	})

	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", resp.Name)
	repo.AssertExpectations(t)
}

func TestCustomerService_Create_RequiresName(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo)

	_, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "   "})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCustomerService_Update_PartialEdit(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo)

	repo.On("FindByID", mock.Anything, "1").Return(&partner.Customer{
		ID: "1", Name: "Acme Ltd", Contact: "Jo", Email: "old@acme.test",
	}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(c *partner.Customer) bool {
		return c.Email == "new@acme.test" && c.Contact == "Jo"
	})).Return(nil)

	email := "new@acme.test"
	resp, err := svc.Update(context.Background(), "1", UpdateCustomerRequest{Email: &email})

	require.NoError(t, err)
	assert.Equal(t, "new@acme.test", resp.Email)
	assert.Equal(t, "Jo", resp.Contact, "untouched field preserved")
}

func TestCustomerService_Update_NotFound(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo)

	repo.On("FindByID", mock.Anything, "99").Return(nil, shared.ErrNotFound)

	_, err := svc.Update(context.Background(), "99", UpdateCustomerRequest{})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
