package catalog

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/catalog"
	"github.com/quoteflow/backend/internal/domain/pricing"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockServiceRepository is a mock implementation of catalog.ServiceRepository
type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) FindByID(ctx context.Context, id string) (*catalog.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Service), args.Error(1)
}

func (m *MockServiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Service, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Service), args.Get(1).(int64), args.Error(2)
}

func (m *MockServiceRepository) Create(ctx context.Context, svc *catalog.Service) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *MockServiceRepository) Update(ctx context.Context, svc *catalog.Service) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *MockServiceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBundleRepository is a mock implementation of catalog.BundleRepository
type MockBundleRepository struct {
	mock.Mock
}

func (m *MockBundleRepository) FindByID(ctx context.Context, id string) (*catalog.Bundle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Bundle), args.Error(1)
}

func (m *MockBundleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Bundle, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Bundle), args.Get(1).(int64), args.Error(2)
}

func (m *MockBundleRepository) Create(ctx context.Context, b *catalog.Bundle) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBundleRepository) Update(ctx context.Context, b *catalog.Bundle) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBundleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBundleItemRepository is a mock implementation of catalog.BundleItemRepository
type MockBundleItemRepository struct {
	mock.Mock
}

func (m *MockBundleItemRepository) FindByID(ctx context.Context, id string) (*catalog.BundleItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.BundleItem), args.Error(1)
}

func (m *MockBundleItemRepository) FindByBundle(ctx context.Context, bundleID string) ([]catalog.BundleItem, error) {
	args := m.Called(ctx, bundleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.BundleItem), args.Error(1)
}

func (m *MockBundleItemRepository) FindAll(ctx context.Context) ([]catalog.BundleItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.BundleItem), args.Error(1)
}

func (m *MockBundleItemRepository) Create(ctx context.Context, item *catalog.BundleItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockBundleItemRepository) Update(ctx context.Context, item *catalog.BundleItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockBundleItemRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// stubInvalidator counts cache invalidations
type stubInvalidator struct {
	calls int
	err   error
}

func (s *stubInvalidator) Invalidate(ctx context.Context) error {
	s.calls++
	return s.err
}

// stubSnapshotSource serves a fixed catalog view
type stubSnapshotSource struct {
	view pricing.CatalogView
	err  error
}

func (s *stubSnapshotSource) Get(ctx context.Context) (pricing.CatalogView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.view, nil
}

// mapView is a minimal pricing.CatalogView for tests
type mapView struct {
	services map[string]catalog.Service
	bundles  map[string]catalog.Bundle
	items    map[string][]catalog.BundleItem
}

func (v *mapView) ServiceByID(id string) (*catalog.Service, bool) {
	svc, ok := v.services[id]
	if !ok {
		return nil, false
	}
	return &svc, true
}

func (v *mapView) BundleByID(id string) (*catalog.Bundle, bool) {
	b, ok := v.bundles[id]
	if !ok {
		return nil, false
	}
	return &b, true
}

func (v *mapView) ItemsByBundle(bundleID string) []catalog.BundleItem {
	return v.items[bundleID]
}
