package recordstore

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"
)

// matchesSearch reports whether any field of the record, in its
// serialized form, contains the needle. Matching is case-folded so that
// it behaves sensibly beyond ASCII. A cases.Caser is stateful, so one
// is created per call rather than shared.
func matchesSearch(rec Record, needle string) bool {
	folder := cases.Fold()
	folded := folder.String(needle)
	for key, value := range rec {
		if strings.Contains(folder.String(key), folded) {
			return true
		}
		if strings.Contains(folder.String(serializeField(value)), folded) {
			return true
		}
	}
	return false
}

func serializeField(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
