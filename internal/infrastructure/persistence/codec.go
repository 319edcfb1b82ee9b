package persistence

import (
	"time"

	"github.com/quoteflow/backend/internal/infrastructure/recordstore"
	"github.com/shopspring/decimal"
)

// The record store is schema-less: every field arrives as whatever JSON
// type the writer used. These helpers coerce records into the strongly
// typed domain model immediately after retrieval, so fallback handling
// lives here once instead of being scattered through consumers.

const (
	dateLayout = "2006-01-02"
)

func getString(rec recordstore.Record, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

func getBool(rec recordstore.Record, key string) bool {
	if v, ok := rec[key].(bool); ok {
		return v
	}
	return false
}

// getOptBool distinguishes "absent" from "false", which the legacy
// bundle-item flag fallback depends on.
func getOptBool(rec recordstore.Record, key string) *bool {
	if v, ok := rec[key].(bool); ok {
		return &v
	}
	return nil
}

func getInt(rec recordstore.Record, key string) int {
	switch v := rec[key].(type) {
	case float64:
		return int(v)
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return int(d.IntPart())
		}
	}
	return 0
}

// getDecimal accepts both string-encoded decimals (written by this
// engine) and raw JSON numbers (written by older clients).
func getDecimal(rec recordstore.Record, key string) decimal.Decimal {
	switch v := rec[key].(type) {
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(v)
	}
	return decimal.Zero
}

// hasDecimal reports whether the field holds a parseable amount at all,
// used to tell a TBD rate apart from an explicit zero.
func hasDecimal(rec recordstore.Record, key string) bool {
	switch v := rec[key].(type) {
	case string:
		_, err := decimal.NewFromString(v)
		return err == nil
	case float64:
		return true
	}
	return false
}

// getDate accepts date-only and RFC3339 timestamps.
func getDate(rec recordstore.Record, key string) time.Time {
	s := getString(rec, key)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func getTimestamp(rec recordstore.Record, key string) time.Time {
	s := getString(rec, key)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func putDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func putTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// normalizePct lifts a legacy fractional rate (0 < v < 1, e.g. 0.09)
// into the percent scale the engine computes with (9). Values of one or
// more are already percents and pass through.
func normalizePct(d decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if d.IsPositive() && d.LessThan(one) {
		return d.Mul(decimal.NewFromInt(100))
	}
	return d
}
