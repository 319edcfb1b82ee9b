package quoting

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// NewNumber formats a document number as PREFIX-YYYYMM-NNNNNN.
func NewNumber(prefix string, issued time.Time, sequence int) string {
	return fmt.Sprintf("%s-%s-%06d", prefix, issued.Format("200601"), sequence)
}

// SequencePart extracts the numeric suffix of a structured number, or
// false when the number does not end in a digit block.
func SequencePart(number string) (int, bool) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, false
	}
	suffix := number[idx+1:]
	if !allDigits(suffix) {
		return 0, false
	}
	var n int
	_, err := fmt.Sscanf(suffix, "%d", &n)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextRevisionNumber derives a revision's display number from its
// parent's number by incrementing the final digit block, preserving its
// zero padding. A number without a trailing digit block falls back to
// appending a literal "-R1" suffix.
//
// The increment is applied to the immediate parent's number, not the
// root quotation's: chained revisions walk the numeric suffix forward one
// step per revision. The duplicate-number check at creation turns any
// collision this could produce into a validation failure instead of a
// silent duplicate.
func NextRevisionNumber(parent string) string {
	idx := strings.LastIndex(parent, "-")
	if idx < 0 || idx == len(parent)-1 {
		return parent + "-R1"
	}
	suffix := parent[idx+1:]
	if !allDigits(suffix) {
		return parent + "-R1"
	}

	var n int
	if _, err := fmt.Sscanf(suffix, "%d", &n); err != nil {
		return parent + "-R1"
	}
	width := len(suffix)
	next := fmt.Sprintf("%0*d", width, n+1)
	return parent[:idx+1] + next
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
