package shared

// Filter holds common list query parameters.
//
// Page is 1-based. PageSize 0 means "no limit", mirroring the record
// store's limit=0 contract. Search is a case-insensitive substring match
// over the serialized form of each record field.
type Filter struct {
	Page     int
	PageSize int
	Search   string
}

// Normalize applies defaults for out-of-range values.
func (f Filter) Normalize() Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize < 0 {
		f.PageSize = 0
	}
	return f
}
