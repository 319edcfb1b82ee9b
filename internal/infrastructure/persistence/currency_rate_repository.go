package persistence

import (
	"context"
	"strings"

	"github.com/quoteflow/backend/internal/domain/currency"
	"github.com/quoteflow/backend/internal/infrastructure/recordstore"
)

// RecordCurrencyRateRepository implements currency.RateRepository over
// the generic record store.
type RecordCurrencyRateRepository struct {
	store recordstore.Store
}

// NewRecordCurrencyRateRepository creates a new RecordCurrencyRateRepository
func NewRecordCurrencyRateRepository(store recordstore.Store) *RecordCurrencyRateRepository {
	return &RecordCurrencyRateRepository{store: store}
}

// FindByID finds a conversion rate by its ID
func (r *RecordCurrencyRateRepository) FindByID(ctx context.Context, id string) (*currency.Rate, error) {
	rec, err := r.store.Get(ctx, recordstore.TableCurrencyRates, id)
	if err != nil {
		return nil, err
	}
	rate := decodeCurrencyRate(rec)
	return &rate, nil
}

// FindAll lists the whole conversion table
func (r *RecordCurrencyRateRepository) FindAll(ctx context.Context) ([]currency.Rate, error) {
	result, err := r.store.List(ctx, recordstore.TableCurrencyRates, recordstore.ListOptions{})
	if err != nil {
		return nil, err
	}
	rates := make([]currency.Rate, 0, len(result.Data))
	for _, rec := range result.Data {
		rates = append(rates, decodeCurrencyRate(rec))
	}
	return rates, nil
}

// Create stores a new conversion rate and assigns its ID
func (r *RecordCurrencyRateRepository) Create(ctx context.Context, rate *currency.Rate) error {
	created, err := r.store.Create(ctx, recordstore.TableCurrencyRates, encodeCurrencyRate(rate))
	if err != nil {
		return err
	}
	rate.ID = getString(created, "id")
	return nil
}

// Update overwrites the stored conversion rate
func (r *RecordCurrencyRateRepository) Update(ctx context.Context, rate *currency.Rate) error {
	_, err := r.store.Update(ctx, recordstore.TableCurrencyRates, rate.ID, encodeCurrencyRate(rate))
	return err
}

// Delete removes a conversion rate
func (r *RecordCurrencyRateRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, recordstore.TableCurrencyRates, id)
}

func decodeCurrencyRate(rec recordstore.Record) currency.Rate {
	return currency.Rate{
		ID:        getString(rec, "id"),
		From:      strings.ToUpper(getString(rec, "from_currency")),
		To:        strings.ToUpper(getString(rec, "to_currency")),
		Rate:      getDecimal(rec, "rate"),
		Notes:     getString(rec, "notes"),
		CreatedAt: getTimestamp(rec, "created_at"),
		UpdatedAt: getTimestamp(rec, "updated_at"),
	}
}

func encodeCurrencyRate(rate *currency.Rate) recordstore.Record {
	rec := recordstore.Record{
		"from_currency": rate.From,
		"to_currency":   rate.To,
		"rate":          rate.Rate.String(),
		"notes":         rate.Notes,
		"created_at":    putTimestamp(rate.CreatedAt),
		"updated_at":    putTimestamp(rate.UpdatedAt),
	}
	if rate.ID != "" {
		rec["id"] = rate.ID
	}
	return rec
}
