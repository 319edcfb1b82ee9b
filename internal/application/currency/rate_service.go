package currency

import (
	"context"
	"strings"

	"github.com/quoteflow/backend/internal/domain/currency"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RateService manages the flat pairwise conversion table and performs
// conversions against it.
type RateService struct {
	rates currency.RateRepository
}

// NewRateService creates a new RateService
func NewRateService(rates currency.RateRepository) *RateService {
	return &RateService{rates: rates}
}

// Create adds a directed conversion entry
func (s *RateService) Create(ctx context.Context, req CreateRateRequest) (*RateResponse, error) {
	r, err := currency.NewRate(req.From, req.To, req.Rate)
	if err != nil {
		return nil, err
	}
	r.Notes = req.Notes

	existing, err := s.rates.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].From == r.From && existing[i].To == r.To {
			return nil, shared.NewDomainError("ALREADY_EXISTS",
				"A conversion rate for "+r.From+" to "+r.To+" already exists")
		}
	}

	if err := s.rates.Create(ctx, r); err != nil {
		return nil, err
	}
	resp := ToRateResponse(r)
	return &resp, nil
}

// List returns the whole conversion table
func (s *RateService) List(ctx context.Context) ([]RateResponse, error) {
	rates, err := s.rates.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]RateResponse, 0, len(rates))
	for i := range rates {
		responses = append(responses, ToRateResponse(&rates[i]))
	}
	return responses, nil
}

// Update changes the multiplier or notes of an entry; the pair itself
// is immutable
func (s *RateService) Update(ctx context.Context, id string, req UpdateRateRequest) (*RateResponse, error) {
	r, err := s.rates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Rate != nil {
		if !req.Rate.IsPositive() {
			return nil, shared.NewDomainError("INVALID_RATE", "Conversion rate must be positive")
		}
		r.Rate = *req.Rate
	}
	if req.Notes != nil {
		r.Notes = *req.Notes
	}

	if err := s.rates.Update(ctx, r); err != nil {
		return nil, err
	}
	resp := ToRateResponse(r)
	return &resp, nil
}

// Delete removes a conversion entry
func (s *RateService) Delete(ctx context.Context, id string) error {
	return s.rates.Delete(ctx, id)
}

// Convert converts an amount between two currencies using a direct
// entry or a single reverse hop, never a transitive chain.
func (s *RateService) Convert(ctx context.Context, req ConvertRequest) (*ConvertResponse, error) {
	from := strings.ToUpper(strings.TrimSpace(req.From))
	to := strings.ToUpper(strings.TrimSpace(req.To))
	if from == "" || to == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY_PAIR", "Both currencies of a pair are required")
	}

	var rates []currency.Rate
	if from != to {
		var err error
		rates, err = s.rates.FindAll(ctx)
		if err != nil {
			return nil, err
		}
	}

	converted, err := currency.Convert(req.Amount, from, to, rates)
	if err != nil {
		return nil, err
	}
	return &ConvertResponse{
		From:      from,
		To:        to,
		Amount:    req.Amount,
		Converted: converted,
	}, nil
}

// CreateRateRequest carries the fields for a new conversion entry
type CreateRateRequest struct {
	From  string
	To    string
	Rate  decimal.Decimal
	Notes string
}

// UpdateRateRequest carries the editable fields of a conversion entry
type UpdateRateRequest struct {
	Rate  *decimal.Decimal
	Notes *string
}

// ConvertRequest asks for a currency conversion
type ConvertRequest struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// ConvertResponse is the result of a conversion
type ConvertResponse struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Converted decimal.Decimal `json:"converted"`
}

// RateResponse is the API representation of a conversion entry
type RateResponse struct {
	ID    string          `json:"id"`
	From  string          `json:"from"`
	To    string          `json:"to"`
	Rate  decimal.Decimal `json:"rate"`
	Notes string          `json:"notes,omitempty"`
}

// ToRateResponse converts a domain rate to its API representation
func ToRateResponse(r *currency.Rate) RateResponse {
	return RateResponse{
		ID:    r.ID,
		From:  r.From,
		To:    r.To,
		Rate:  r.Rate,
		Notes: r.Notes,
	}
}
