package catalog

import (
	"strings"
	"time"

	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Service represents a billable service offering.
//
// Identity is immutable; the base rate may change over time, and such
// changes never retroactively affect already-generated invoice lines.
type Service struct {
	ID         string
	Code       string
	Name       string
	Category   string
	Unit       string
	BaseRate   decimal.Decimal
	RateTBD    bool // true when no base rate has been agreed yet
	Currency   string
	Negotiable bool
	MinQty     decimal.Decimal
	MaxQty     decimal.Decimal // zero means unbounded
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewService creates a service offering after validating required fields.
func NewService(code, name, category, unit, currency string) (*Service, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_SERVICE_CODE", "Service code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SERVICE_NAME", "Service name cannot be empty")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Service currency cannot be empty")
	}

	now := time.Now()
	return &Service{
		Code:      code,
		Name:      name,
		Category:  category,
		Unit:      unit,
		RateTBD:   true,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetBaseRate fixes the current base rate. A negative rate is rejected.
func (s *Service) SetBaseRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Base rate cannot be negative")
	}
	s.BaseRate = rate
	s.RateTBD = false
	s.UpdatedAt = time.Now()
	return nil
}

// ClearBaseRate marks the rate as "to be determined".
func (s *Service) ClearBaseRate() {
	s.BaseRate = decimal.Zero
	s.RateTBD = true
	s.UpdatedAt = time.Now()
}

// SetQuantityBounds sets the allowed quantity range for the service.
func (s *Service) SetQuantityBounds(min, max decimal.Decimal) error {
	if min.IsNegative() || max.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY_BOUNDS", "Quantity bounds cannot be negative")
	}
	if !max.IsZero() && max.LessThan(min) {
		return shared.NewDomainError("INVALID_QUANTITY_BOUNDS", "Maximum quantity cannot be below minimum")
	}
	s.MinQty = min
	s.MaxQty = max
	s.UpdatedAt = time.Now()
	return nil
}

// QuantityAllowed reports whether qty falls within the service's bounds.
func (s *Service) QuantityAllowed(qty decimal.Decimal) bool {
	if qty.LessThan(s.MinQty) {
		return false
	}
	if !s.MaxQty.IsZero() && qty.GreaterThan(s.MaxQty) {
		return false
	}
	return true
}

// EffectiveRate returns the base rate, or zero while the rate is TBD.
func (s *Service) EffectiveRate() decimal.Decimal {
	if s.RateTBD {
		return decimal.Zero
	}
	return s.BaseRate
}
