package catalog

import (
	"strings"
	"time"

	"github.com/quoteflow/backend/internal/domain/shared"
)

// Bundle is a named, reusable group of services quoted as one unit.
type Bundle struct {
	ID          string
	Code        string
	Name        string
	Description string
	Unit        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBundle creates a bundle after validating required fields.
func NewBundle(code, name, description, unit string) (*Bundle, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_BUNDLE_CODE", "Bundle code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_BUNDLE_NAME", "Bundle name cannot be empty")
	}

	now := time.Now()
	return &Bundle{
		Code:        code,
		Name:        name,
		Description: description,
		Unit:        unit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// BundleItem links a bundle to one of its child services.
type BundleItem struct {
	ID              string
	BundleID        string
	ServiceID       string
	Quantity        int // child units contributed per bundle, always >= 1
	IsOptional      bool
	DefaultSelected bool // meaningful only when IsOptional is true
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBundleItem creates a bundle item after validating its invariants.
func NewBundleItem(bundleID, serviceID string, quantity int, optional, defaultSelected bool) (*BundleItem, error) {
	if bundleID == "" {
		return nil, shared.NewDomainError("INVALID_BUNDLE", "Bundle ID cannot be empty")
	}
	if serviceID == "" {
		return nil, shared.NewDomainError("INVALID_SERVICE", "Service ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Bundle item quantity must be at least 1")
	}

	now := time.Now()
	return &BundleItem{
		BundleID:        bundleID,
		ServiceID:       serviceID,
		Quantity:        quantity,
		IsOptional:      optional,
		DefaultSelected: defaultSelected,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Billable reports whether the item contributes to the bundle's cost.
// A required item is always billable; an optional item only when selected.
func (i *BundleItem) Billable() bool {
	if !i.IsOptional {
		return true
	}
	return i.DefaultSelected
}

// NormalizeItemFlags resolves the canonical (isOptional, defaultSelected)
// pair from a stored record. Older records carry a single `include` flag
// instead of the two newer ones; when both newer flags are absent the item
// falls back to include != false, so omission never reads as "excluded".
// Executed once at load time so consumers never see the legacy field.
func NormalizeItemFlags(isOptional, defaultSelected, legacyInclude *bool) (optional bool, selected bool) {
	if isOptional == nil && defaultSelected == nil {
		included := legacyInclude == nil || *legacyInclude
		if included {
			return false, true
		}
		return true, false
	}
	if isOptional != nil {
		optional = *isOptional
	}
	if defaultSelected != nil {
		selected = *defaultSelected
	}
	return optional, selected
}
