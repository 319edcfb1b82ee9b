package cache

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/pricing"
)

// ViewSource adapts a SnapshotCache to consumers that only need the
// read-side pricing.CatalogView contract.
type ViewSource struct {
	cache SnapshotCache
}

// NewViewSource creates a ViewSource over the given cache
func NewViewSource(cache SnapshotCache) ViewSource {
	return ViewSource{cache: cache}
}

// Get returns the current snapshot as a catalog view
func (v ViewSource) Get(ctx context.Context) (pricing.CatalogView, error) {
	snap, err := v.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// FreshViewSource always loads a fresh snapshot, bypassing any cache.
// Pricing paths that persist a document use this so stored numbers are
// computed from current catalog state.
type FreshViewSource struct {
	loader Loader
}

// NewFreshViewSource creates a FreshViewSource over the given loader
func NewFreshViewSource(loader Loader) FreshViewSource {
	return FreshViewSource{loader: loader}
}

// Get loads a fresh snapshot as a catalog view
func (v FreshViewSource) Get(ctx context.Context) (pricing.CatalogView, error) {
	snap, err := v.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap, nil
}
