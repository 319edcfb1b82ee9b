package pricing

import (
	"github.com/quoteflow/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// LineDraft is a pre-pricing line produced by resolution/expansion.
// The pricer turns drafts into adjusted rates and totals.
type LineDraft struct {
	ServiceID   string
	BundleID    string
	Name        string
	Description string
	BaseRate    decimal.Decimal
	BundleCost  decimal.Decimal
	Quantity    decimal.Decimal
	IsBundle    bool
	FromBundle  string // provenance label when produced by expansion
	Note        string
}

// ExpandResult carries the drafts plus any dangling service references
// encountered while resolving child rates.
type ExpandResult struct {
	Lines   []LineDraft
	Missing []string
}

// ExpandBundle turns a bundle into billable line drafts.
//
// With expand=false the bundle stays a single aggregated line: rate zero,
// bundle cost carrying the aggregated child cost. With expand=true every
// billable item emits one draft per child unit (not one draft with
// quantity=N) so each unit keeps its own annotation slot, each carrying
// the child's own base rate and zero bundle cost.
func ExpandBundle(bundle *catalog.Bundle, items []catalog.BundleItem, view CatalogView, expand bool) ExpandResult {
	if !expand {
		cost, missing := ResolveBundleCost(items, view)
		return ExpandResult{
			Lines: []LineDraft{{
				BundleID:    bundle.ID,
				Name:        bundle.Name,
				Description: bundle.Description,
				BaseRate:    decimal.Zero,
				BundleCost:  cost,
				Quantity:    decimal.NewFromInt(1),
				IsBundle:    true,
			}},
			Missing: missing,
		}
	}

	var result ExpandResult
	for i := range items {
		item := &items[i]
		if !item.Billable() {
			continue
		}
		svc, ok := view.ServiceByID(item.ServiceID)
		if !ok {
			result.Missing = append(result.Missing, item.ServiceID)
			continue
		}
		for unit := 0; unit < item.Quantity; unit++ {
			result.Lines = append(result.Lines, LineDraft{
				ServiceID:  svc.ID,
				BundleID:   bundle.ID,
				Name:       svc.Name,
				BaseRate:   svc.EffectiveRate(),
				BundleCost: decimal.Zero,
				Quantity:   decimal.NewFromInt(1),
				FromBundle: bundle.Name,
				Note:       item.Notes,
			})
		}
	}
	return result
}

// PassThrough wraps a plain (non-bundle) service as a single line draft
// with zero bundle cost.
func PassThrough(svc *catalog.Service, quantity decimal.Decimal) LineDraft {
	return LineDraft{
		ServiceID: svc.ID,
		Name:      svc.Name,
		BaseRate:  svc.EffectiveRate(),
		Quantity:  quantity,
	}
}
