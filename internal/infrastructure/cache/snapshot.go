package cache

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/catalog"
	"github.com/quoteflow/backend/internal/domain/shared"
)

// Snapshot is an immutable, internally consistent view of the catalog
// taken at a single point in time. It satisfies pricing.CatalogView so
// one snapshot can back a whole pricing computation.
type Snapshot struct {
	services map[string]catalog.Service
	bundles  map[string]catalog.Bundle
	items    map[string][]catalog.BundleItem
}

// NewSnapshot builds a snapshot from loaded catalog rows
func NewSnapshot(services []catalog.Service, bundles []catalog.Bundle, items []catalog.BundleItem) *Snapshot {
	s := &Snapshot{
		services: make(map[string]catalog.Service, len(services)),
		bundles:  make(map[string]catalog.Bundle, len(bundles)),
		items:    make(map[string][]catalog.BundleItem),
	}
	for _, svc := range services {
		s.services[svc.ID] = svc
	}
	for _, b := range bundles {
		s.bundles[b.ID] = b
	}
	for _, item := range items {
		s.items[item.BundleID] = append(s.items[item.BundleID], item)
	}
	return s
}

// ServiceByID implements pricing.CatalogView
func (s *Snapshot) ServiceByID(id string) (*catalog.Service, bool) {
	svc, ok := s.services[id]
	if !ok {
		return nil, false
	}
	return &svc, true
}

// BundleByID implements pricing.CatalogView
func (s *Snapshot) BundleByID(id string) (*catalog.Bundle, bool) {
	b, ok := s.bundles[id]
	if !ok {
		return nil, false
	}
	return &b, true
}

// ItemsByBundle implements pricing.CatalogView
func (s *Snapshot) ItemsByBundle(bundleID string) []catalog.BundleItem {
	return s.items[bundleID]
}

// SnapshotLoader builds fresh snapshots from the catalog repositories
type SnapshotLoader struct {
	services catalog.ServiceRepository
	bundles  catalog.BundleRepository
	items    catalog.BundleItemRepository
}

// NewSnapshotLoader creates a new SnapshotLoader
func NewSnapshotLoader(services catalog.ServiceRepository, bundles catalog.BundleRepository, items catalog.BundleItemRepository) *SnapshotLoader {
	return &SnapshotLoader{services: services, bundles: bundles, items: items}
}

// Load reads the whole catalog and assembles a snapshot
func (l *SnapshotLoader) Load(ctx context.Context) (*Snapshot, error) {
	services, _, err := l.services.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	bundles, _, err := l.bundles.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	items, err := l.items.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(services, bundles, items), nil
}
