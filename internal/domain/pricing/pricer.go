package pricing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountType selects how a document-level discount is interpreted.
type DiscountType string

const (
	DiscountNone    DiscountType = "NONE"
	DiscountPercent DiscountType = "PERCENT"
	DiscountAmount  DiscountType = "AMOUNT"
)

// IsValid checks if the discount type is known
func (d DiscountType) IsValid() bool {
	switch d {
	case DiscountNone, DiscountPercent, DiscountAmount:
		return true
	}
	return false
}

// DocumentKind distinguishes quotation totals from invoice totals.
// Quotations apply the header buffer once more at the document level;
// invoices bake it into line rates at generation time and never again.
type DocumentKind int

const (
	KindQuotation DocumentKind = iota
	KindInvoice
)

// LinePrice is the result of pricing a single line.
type LinePrice struct {
	AdjustedRate decimal.Decimal
	LineTotal    decimal.Decimal
}

// Price applies the two-level buffer stack to a base amount.
//
// The header and line buffers stack multiplicatively: a 10% header buffer
// and a 10% line buffer combine to x1.21, not x1.20. This is deliberate
// and must not be collapsed into a single additive markup.
func Price(baseRate, bundleCost, headerBufferPct, lineBufferPct, quantity decimal.Decimal) LinePrice {
	adjusted := baseRate.Add(bundleCost).
		Mul(onePlusPct(headerBufferPct)).
		Mul(onePlusPct(lineBufferPct))
	return LinePrice{
		AdjustedRate: adjusted,
		LineTotal:    adjusted.Mul(quantity),
	}
}

// Totals aggregates a document's monetary summary.
type Totals struct {
	Subtotal         decimal.Decimal
	BufferedSubtotal decimal.Decimal
	Tax              decimal.Decimal
	Discount         decimal.Decimal
	GrandTotal       decimal.Decimal
}

// Totalize aggregates line totals into a document summary.
//
// For quotations the header buffer is applied a second time at the
// document level: line-level buffering shapes the rate shown per line,
// document-level buffering shapes the subtotal that tax and discount are
// computed from. Both multiplications exist in historical documents and
// are kept separate here so stored totals remain reproducible. Invoice
// line rates already carry the header buffer, so invoices skip it.
func Totalize(lineTotals []decimal.Decimal, headerBufferPct, taxRatePct decimal.Decimal, discountType DiscountType, discountValue decimal.Decimal, kind DocumentKind) Totals {
	subtotal := decimal.Zero
	for _, t := range lineTotals {
		subtotal = subtotal.Add(t)
	}

	buffered := subtotal
	if kind == KindQuotation {
		buffered = subtotal.Mul(onePlusPct(headerBufferPct))
	}

	tax := buffered.Mul(taxRatePct.Div(hundred))

	var discount decimal.Decimal
	switch discountType {
	case DiscountPercent:
		discount = buffered.Mul(discountValue.Div(hundred))
	case DiscountAmount:
		discount = discountValue
	default:
		discount = decimal.Zero
	}

	return Totals{
		Subtotal:         subtotal,
		BufferedSubtotal: buffered,
		Tax:              tax,
		Discount:         discount,
		GrandTotal:       buffered.Add(tax).Sub(discount),
	}
}

func onePlusPct(pct decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(pct.Div(hundred))
}
