package catalog

import (
	"context"
	"testing"

	"github.com/quoteflow/backend/internal/domain/catalog"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestServiceService_Create(t *testing.T) {
	repo := new(MockServiceRepository)
	inv := &stubInvalidator{}
	svc := NewServiceService(repo, inv, nil)

	rate := decimal.NewFromInt(150)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *catalog.Service) bool {
		return s.Code == "CONSULT" && !s.RateTBD && s.BaseRate.Equal(rate)
	})).Return(nil)

	resp, err := svc.Create(context.Background(), CreateServiceRequest{
		Code:     "CONSULT",
		Name:     "Consulting",
		Currency: "USD",
		BaseRate: &rate,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.BaseRate)
	assert.True(t, resp.BaseRate.Equal(rate))
	assert.False(t, resp.RateTBD)
	assert.Equal(t, 1, inv.calls)
	repo.AssertExpectations(t)
}

func TestServiceService_Create_RateTBD(t *testing.T) {
	repo := new(MockServiceRepository)
	svc := NewServiceService(repo, &stubInvalidator{}, nil)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *catalog.Service) bool {
		return s.RateTBD
	})).Return(nil)

	resp, err := svc.Create(context.Background(), CreateServiceRequest{
		Code:     "TBD-SVC",
		Name:     "Rate pending",
		Currency: "USD",
	})

	require.NoError(t, err)
	assert.True(t, resp.RateTBD)
	assert.Nil(t, resp.BaseRate)
}

func TestServiceService_Create_InvalidCode(t *testing.T) {
	repo := new(MockServiceRepository)
	svc := NewServiceService(repo, &stubInvalidator{}, nil)

	_, err := svc.Create(context.Background(), CreateServiceRequest{
		Name:     "Nameless code",
		Currency: "USD",
	})

	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestServiceService_Update_ClearRate(t *testing.T) {
	repo := new(MockServiceRepository)
	inv := &stubInvalidator{}
	svc := NewServiceService(repo, inv, nil)

	existing := &catalog.Service{ID: "1", Code: "CONSULT", Name: "Consulting", Currency: "USD", BaseRate: decimal.NewFromInt(100)}
	repo.On("FindByID", mock.Anything, "1").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(s *catalog.Service) bool {
		return s.RateTBD && s.BaseRate.IsZero()
	})).Return(nil)

	resp, err := svc.Update(context.Background(), "1", UpdateServiceRequest{ClearRate: true})

	require.NoError(t, err)
	assert.True(t, resp.RateTBD)
	assert.Equal(t, 1, inv.calls)
	repo.AssertExpectations(t)
}

func TestServiceService_Update_NotFound(t *testing.T) {
	repo := new(MockServiceRepository)
	svc := NewServiceService(repo, &stubInvalidator{}, nil)

	repo.On("FindByID", mock.Anything, "99").Return(nil, shared.ErrNotFound)

	_, err := svc.Update(context.Background(), "99", UpdateServiceRequest{})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceService_List(t *testing.T) {
	repo := new(MockServiceRepository)
	svc := NewServiceService(repo, &stubInvalidator{}, nil)

	services := []catalog.Service{
		{ID: "1", Code: "A", Name: "Alpha", Currency: "USD"},
		{ID: "2", Code: "B", Name: "Beta", Currency: "USD", RateTBD: true},
	}
	repo.On("FindAll", mock.Anything, mock.Anything).Return(services, int64(2), nil)

	responses, total, err := svc.List(context.Background(), shared.Filter{})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, responses, 2)
	assert.Nil(t, responses[1].BaseRate)
}

func TestServiceService_Delete_Invalidates(t *testing.T) {
	repo := new(MockServiceRepository)
	inv := &stubInvalidator{}
	svc := NewServiceService(repo, inv, nil)

	repo.On("Delete", mock.Anything, "1").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), "1"))
	assert.Equal(t, 1, inv.calls)
}
