package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNewRate_Validation(t *testing.T) {
	r, err := NewRate("usd", "eur", dec("0.9"))
	assert.NoError(t, err)
	assert.Equal(t, "USD", r.From)
	assert.Equal(t, "EUR", r.To)

	_, err = NewRate("USD", "USD", dec("1"))
	assert.Error(t, err)

	_, err = NewRate("USD", "", dec("1"))
	assert.Error(t, err)

	_, err = NewRate("USD", "EUR", dec("0"))
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	rates := []Rate{
		{From: "USD", To: "EUR", Rate: dec("0.8")},
		{From: "GBP", To: "USD", Rate: dec("1.25")},
	}

	// same currency is the identity
	got, err := Convert(dec("100"), "USD", "USD", rates)
	assert.NoError(t, err)
	assert.True(t, got.Equal(dec("100")))

	// direct lookup
	got, err = Convert(dec("100"), "USD", "EUR", rates)
	assert.NoError(t, err)
	assert.True(t, got.Equal(dec("80")))

	// single-hop reverse lookup (1/rate)
	got, err = Convert(dec("80"), "EUR", "USD", rates)
	assert.NoError(t, err)
	assert.True(t, got.Equal(dec("100")))

	// no transitive inference: EUR->GBP would need USD in the middle
	_, err = Convert(dec("100"), "EUR", "GBP", rates)
	assert.Error(t, err)
}
