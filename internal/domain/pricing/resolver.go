package pricing

import (
	"github.com/quoteflow/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CatalogView is the read-only catalog snapshot the resolver prices from.
// Implementations must be internally consistent for the duration of one
// pricing operation; staleness across operations is handled by the caller
// re-fetching before any computation that writes.
type CatalogView interface {
	ServiceByID(id string) (*catalog.Service, bool)
	BundleByID(id string) (*catalog.Bundle, bool)
	ItemsByBundle(bundleID string) []catalog.BundleItem
}

// ResolveServiceRate returns the base amount for a plain service line.
// A TBD rate resolves to zero.
func ResolveServiceRate(svc *catalog.Service) decimal.Decimal {
	if svc == nil {
		return decimal.Zero
	}
	return svc.EffectiveRate()
}

// ResolveBundleCost aggregates the cost of a bundle's billable children:
// the sum of childService.baseRate * item.quantity over billable items.
//
// A dangling service reference contributes zero and is reported in the
// second return value rather than raised as an error, so historical
// documents stay viewable after a child service is deleted.
func ResolveBundleCost(items []catalog.BundleItem, view CatalogView) (decimal.Decimal, []string) {
	cost := decimal.Zero
	var missing []string
	for i := range items {
		item := &items[i]
		if !item.Billable() {
			continue
		}
		svc, ok := view.ServiceByID(item.ServiceID)
		if !ok {
			missing = append(missing, item.ServiceID)
			continue
		}
		cost = cost.Add(svc.EffectiveRate().Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return cost, missing
}
