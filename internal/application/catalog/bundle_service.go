package catalog

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/catalog"
	"github.com/quoteflow/backend/internal/domain/pricing"
	"github.com/quoteflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SnapshotSource provides catalog views for pricing previews
type SnapshotSource interface {
	Get(ctx context.Context) (pricing.CatalogView, error)
}

// BundleService handles bundle and bundle-membership operations
type BundleService struct {
	bundles   catalog.BundleRepository
	items     catalog.BundleItemRepository
	snapshots SnapshotSource
	cache     Invalidator
	logger    *zap.Logger
}

// NewBundleService creates a new BundleService
func NewBundleService(bundles catalog.BundleRepository, items catalog.BundleItemRepository, snapshots SnapshotSource, cache Invalidator, logger *zap.Logger) *BundleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BundleService{
		bundles:   bundles,
		items:     items,
		snapshots: snapshots,
		cache:     cache,
		logger:    logger,
	}
}

// Create creates a new bundle
func (s *BundleService) Create(ctx context.Context, req CreateBundleRequest) (*BundleResponse, error) {
	b, err := catalog.NewBundle(req.Code, req.Name, req.Description, req.Unit)
	if err != nil {
		return nil, err
	}
	if err := s.bundles.Create(ctx, b); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToBundleResponse(b)
	return &resp, nil
}

// GetByID retrieves a bundle by ID
func (s *BundleService) GetByID(ctx context.Context, id string) (*BundleResponse, error) {
	b, err := s.bundles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBundleResponse(b)
	return &resp, nil
}

// List retrieves bundles with search and pagination
func (s *BundleService) List(ctx context.Context, filter shared.Filter) ([]BundleResponse, int64, error) {
	bundles, total, err := s.bundles.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]BundleResponse, 0, len(bundles))
	for i := range bundles {
		responses = append(responses, ToBundleResponse(&bundles[i]))
	}
	return responses, total, nil
}

// Update applies the requested edits to a bundle
func (s *BundleService) Update(ctx context.Context, id string, req UpdateBundleRequest) (*BundleResponse, error) {
	b, err := s.bundles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewDomainError("INVALID_BUNDLE_NAME", "Bundle name cannot be empty")
		}
		b.Name = *req.Name
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if req.Unit != nil {
		b.Unit = *req.Unit
	}

	if err := s.bundles.Update(ctx, b); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToBundleResponse(b)
	return &resp, nil
}

// Delete removes a bundle and its membership rows
func (s *BundleService) Delete(ctx context.Context, id string) error {
	items, err := s.items.FindByBundle(ctx, id)
	if err != nil {
		return err
	}
	for i := range items {
		if err := s.items.Delete(ctx, items[i].ID); err != nil {
			return err
		}
	}
	if err := s.bundles.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// AddItem attaches a child service to a bundle
func (s *BundleService) AddItem(ctx context.Context, bundleID string, req AddBundleItemRequest) (*BundleItemResponse, error) {
	if _, err := s.bundles.FindByID(ctx, bundleID); err != nil {
		return nil, err
	}

	item, err := catalog.NewBundleItem(bundleID, req.ServiceID, req.Quantity, req.IsOptional, req.DefaultSelected)
	if err != nil {
		return nil, err
	}
	item.Notes = req.Notes

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToBundleItemResponse(item)
	return &resp, nil
}

// UpdateItem applies the requested edits to a bundle item
func (s *BundleService) UpdateItem(ctx context.Context, itemID string, req UpdateBundleItemRequest) (*BundleItemResponse, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Bundle item quantity must be at least 1")
		}
		item.Quantity = *req.Quantity
	}
	if req.IsOptional != nil {
		item.IsOptional = *req.IsOptional
	}
	if req.DefaultSelected != nil {
		item.DefaultSelected = *req.DefaultSelected
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToBundleItemResponse(item)
	return &resp, nil
}

// RemoveItem detaches a child service from its bundle
func (s *BundleService) RemoveItem(ctx context.Context, itemID string) error {
	if err := s.items.Delete(ctx, itemID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListItems lists a bundle's membership rows
func (s *BundleService) ListItems(ctx context.Context, bundleID string) ([]BundleItemResponse, error) {
	items, err := s.items.FindByBundle(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	responses := make([]BundleItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToBundleItemResponse(&items[i]))
	}
	return responses, nil
}

// Cost previews the aggregated cost of a bundle's billable children.
// Dangling child references contribute zero and are reported, not raised.
func (s *BundleService) Cost(ctx context.Context, bundleID string) (*BundleCostResponse, error) {
	if _, err := s.bundles.FindByID(ctx, bundleID); err != nil {
		return nil, err
	}
	items, err := s.items.FindByBundle(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	view, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}

	cost, missing := pricing.ResolveBundleCost(items, view)
	if len(missing) > 0 {
		s.logger.Warn("bundle references missing services",
			zap.String("bundle_id", bundleID),
			zap.Strings("service_ids", missing),
		)
	}
	return &BundleCostResponse{
		BundleID:          bundleID,
		Cost:              cost,
		MissingServiceIDs: missing,
	}, nil
}

// Expand previews the line drafts of adding a bundle to a document,
// either as one aggregated line or one line per billable child unit.
func (s *BundleService) Expand(ctx context.Context, bundleID string, expand bool) (*BundleExpansionResponse, error) {
	bundle, err := s.bundles.FindByID(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	items, err := s.items.FindByBundle(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	view, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}

	result := pricing.ExpandBundle(bundle, items, view, expand)
	if len(result.Missing) > 0 {
		s.logger.Warn("bundle expansion skipped missing services",
			zap.String("bundle_id", bundleID),
			zap.Strings("service_ids", result.Missing),
		)
	}
	return &BundleExpansionResponse{
		BundleID:          bundleID,
		Expanded:          expand,
		Lines:             toLinePreviews(result.Lines),
		MissingServiceIDs: result.Missing,
	}, nil
}

func (s *BundleService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate catalog snapshot cache", zap.Error(err))
	}
}
