package currency

import (
	"context"
	"strings"
	"time"

	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Rate is one directed entry of the flat pairwise conversion table.
type Rate struct {
	ID        string
	From      string
	To        string
	Rate      decimal.Decimal
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRate creates a conversion rate after validating the pair.
func NewRate(from, to string, rate decimal.Decimal) (*Rate, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY_PAIR", "Both currencies of a pair are required")
	}
	if from == to {
		return nil, shared.NewDomainError("INVALID_CURRENCY_PAIR", "A conversion pair needs two distinct currencies")
	}
	if !rate.IsPositive() {
		return nil, shared.NewDomainError("INVALID_RATE", "Conversion rate must be positive")
	}

	now := time.Now()
	return &Rate{
		From:      from,
		To:        to,
		Rate:      rate,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Convert converts an amount between currencies using the flat table.
//
// Only a direct entry or a single reverse hop (1/rate) is attempted; no
// rate is ever inferred transitively through a third currency.
func Convert(amount decimal.Decimal, from, to string, rates []Rate) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return amount, nil
	}
	for i := range rates {
		if rates[i].From == from && rates[i].To == to {
			return amount.Mul(rates[i].Rate), nil
		}
	}
	for i := range rates {
		if rates[i].From == to && rates[i].To == from && rates[i].Rate.IsPositive() {
			return amount.Div(rates[i].Rate), nil
		}
	}
	return decimal.Zero, shared.ErrNoConversionRate
}

// RateRepository provides access to the conversion table
type RateRepository interface {
	FindByID(ctx context.Context, id string) (*Rate, error)
	FindAll(ctx context.Context) ([]Rate, error)
	Create(ctx context.Context, r *Rate) error
	Update(ctx context.Context, r *Rate) error
	Delete(ctx context.Context, id string) error
}
