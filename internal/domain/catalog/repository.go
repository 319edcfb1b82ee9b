package catalog

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/shared"
)

// ServiceRepository provides access to service offerings
type ServiceRepository interface {
	FindByID(ctx context.Context, id string) (*Service, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Service, int64, error)
	Create(ctx context.Context, svc *Service) error
	Update(ctx context.Context, svc *Service) error
	Delete(ctx context.Context, id string) error
}

// BundleRepository provides access to bundles
type BundleRepository interface {
	FindByID(ctx context.Context, id string) (*Bundle, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Bundle, int64, error)
	Create(ctx context.Context, b *Bundle) error
	Update(ctx context.Context, b *Bundle) error
	Delete(ctx context.Context, id string) error
}

// BundleItemRepository provides access to bundle membership rows
type BundleItemRepository interface {
	FindByID(ctx context.Context, id string) (*BundleItem, error)
	FindByBundle(ctx context.Context, bundleID string) ([]BundleItem, error)
	FindAll(ctx context.Context) ([]BundleItem, error)
	Create(ctx context.Context, item *BundleItem) error
	Update(ctx context.Context, item *BundleItem) error
	Delete(ctx context.Context, id string) error
}
