package invoicing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewInvoice(t *testing.T) {
	inv, err := NewInvoice("INV-202608-000001", "Acme Ltd", "USD",
		day(2026, 8, 1), day(2026, 8, 31))
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, inv.Status)

	_, err = NewInvoice("", "Acme", "USD", day(2026, 8, 1), day(2026, 8, 31))
	assert.Error(t, err)

	_, err = NewInvoice("INV-1", "Acme", "USD", day(2026, 8, 31), day(2026, 8, 1))
	assert.Error(t, err)
}

func TestInvoice_StatusTransitions(t *testing.T) {
	inv, _ := NewInvoice("INV-1", "Acme", "USD", day(2026, 8, 1), day(2026, 8, 31))

	assert.NoError(t, inv.MarkCleared())
	assert.Equal(t, StatusCleared, inv.Status)
	assert.Error(t, inv.MarkCancelled(), "cleared is terminal")

	inv2, _ := NewInvoice("INV-2", "Acme", "USD", day(2026, 8, 1), day(2026, 8, 31))
	assert.NoError(t, inv2.MarkCancelled())
	assert.Error(t, inv2.MarkCleared(), "cancelled is terminal")
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusCleared.IsValid())
	assert.True(t, StatusCancelled.IsValid())
	assert.False(t, Status("PAID").IsValid())
}
