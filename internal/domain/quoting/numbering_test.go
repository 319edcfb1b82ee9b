package quoting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewNumber(t *testing.T) {
	issued := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "QT-202608-000001", NewNumber("QT", issued, 1))
	assert.Equal(t, "INV-202608-000042", NewNumber("INV", issued, 42))
}

func TestSequencePart(t *testing.T) {
	n, ok := SequencePart("QT-202608-000123")
	assert.True(t, ok)
	assert.Equal(t, 123, n)

	_, ok = SequencePart("QT-202608-ABC")
	assert.False(t, ok)

	_, ok = SequencePart("PLAIN")
	assert.False(t, ok)

	_, ok = SequencePart("QT-")
	assert.False(t, ok)
}

func TestNextRevisionNumber_Structured(t *testing.T) {
	assert.Equal(t, "QT-202608-000002", NextRevisionNumber("QT-202608-000001"))
	assert.Equal(t, "QT-202608-000100", NextRevisionNumber("QT-202608-000099"))
	// width preserved, growing only on overflow
	assert.Equal(t, "QT-202608-1000", NextRevisionNumber("QT-202608-999"))
}

func TestNextRevisionNumber_Fallback(t *testing.T) {
	assert.Equal(t, "CUSTOM-R1", NextRevisionNumber("CUSTOM"))
	assert.Equal(t, "QT-202608-FINAL-R1", NextRevisionNumber("QT-202608-FINAL"))
	assert.Equal(t, "QT--R1", NextRevisionNumber("QT-"))
}

func TestNextRevisionNumber_Chained(t *testing.T) {
	// chained revisions walk the immediate parent's suffix forward
	first := NextRevisionNumber("QT-202608-000005")
	second := NextRevisionNumber(first)
	assert.Equal(t, "QT-202608-000006", first)
	assert.Equal(t, "QT-202608-000007", second)
}
