package catalog

import (
	"time"

	"github.com/quoteflow/backend/internal/domain/catalog"
	"github.com/quoteflow/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// CreateServiceRequest carries the fields for a new service offering.
// A nil BaseRate leaves the rate "to be determined".
type CreateServiceRequest struct {
	Code       string
	Name       string
	Category   string
	Unit       string
	Currency   string
	BaseRate   *decimal.Decimal
	Negotiable bool
	MinQty     *decimal.Decimal
	MaxQty     *decimal.Decimal
	Notes      string
}

// UpdateServiceRequest carries the editable fields of a service.
// Nil pointers leave the stored value unchanged; ClearRate marks the
// rate TBD regardless of BaseRate.
type UpdateServiceRequest struct {
	Name       *string
	Category   *string
	Unit       *string
	Currency   *string
	BaseRate   *decimal.Decimal
	ClearRate  bool
	Negotiable *bool
	MinQty     *decimal.Decimal
	MaxQty     *decimal.Decimal
	Notes      *string
}

// ServiceResponse is the API representation of a service
type ServiceResponse struct {
	ID         string           `json:"id"`
	Code       string           `json:"code"`
	Name       string           `json:"name"`
	Category   string           `json:"category,omitempty"`
	Unit       string           `json:"unit,omitempty"`
	BaseRate   *decimal.Decimal `json:"base_rate"`
	RateTBD    bool             `json:"rate_tbd"`
	Currency   string           `json:"currency"`
	Negotiable bool             `json:"negotiable"`
	MinQty     decimal.Decimal  `json:"min_qty"`
	MaxQty     decimal.Decimal  `json:"max_qty"`
	Notes      string           `json:"notes,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// ToServiceResponse converts a domain service to its API representation
func ToServiceResponse(s *catalog.Service) ServiceResponse {
	resp := ServiceResponse{
		ID:         s.ID,
		Code:       s.Code,
		Name:       s.Name,
		Category:   s.Category,
		Unit:       s.Unit,
		RateTBD:    s.RateTBD,
		Currency:   s.Currency,
		Negotiable: s.Negotiable,
		MinQty:     s.MinQty,
		MaxQty:     s.MaxQty,
		Notes:      s.Notes,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	if !s.RateTBD {
		rate := s.BaseRate
		resp.BaseRate = &rate
	}
	return resp
}

// CreateBundleRequest carries the fields for a new bundle
type CreateBundleRequest struct {
	Code        string
	Name        string
	Description string
	Unit        string
}

// UpdateBundleRequest carries the editable fields of a bundle
type UpdateBundleRequest struct {
	Name        *string
	Description *string
	Unit        *string
}

// BundleResponse is the API representation of a bundle
type BundleResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToBundleResponse converts a domain bundle to its API representation
func ToBundleResponse(b *catalog.Bundle) BundleResponse {
	return BundleResponse{
		ID:          b.ID,
		Code:        b.Code,
		Name:        b.Name,
		Description: b.Description,
		Unit:        b.Unit,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// AddBundleItemRequest attaches a child service to a bundle
type AddBundleItemRequest struct {
	ServiceID       string
	Quantity        int
	IsOptional      bool
	DefaultSelected bool
	Notes           string
}

// UpdateBundleItemRequest carries the editable fields of a bundle item
type UpdateBundleItemRequest struct {
	Quantity        *int
	IsOptional      *bool
	DefaultSelected *bool
	Notes           *string
}

// BundleItemResponse is the API representation of a bundle item
type BundleItemResponse struct {
	ID              string    `json:"id"`
	BundleID        string    `json:"bundle_id"`
	ServiceID       string    `json:"service_id"`
	Quantity        int       `json:"quantity"`
	IsOptional      bool      `json:"is_optional"`
	DefaultSelected bool      `json:"default_selected"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToBundleItemResponse converts a domain bundle item to its API representation
func ToBundleItemResponse(i *catalog.BundleItem) BundleItemResponse {
	return BundleItemResponse{
		ID:              i.ID,
		BundleID:        i.BundleID,
		ServiceID:       i.ServiceID,
		Quantity:        i.Quantity,
		IsOptional:      i.IsOptional,
		DefaultSelected: i.DefaultSelected,
		Notes:           i.Notes,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

// BundleCostResponse is the aggregated cost preview of a bundle.
// MissingServiceIDs lists dangling child references that contributed
// zero to the cost.
type BundleCostResponse struct {
	BundleID          string          `json:"bundle_id"`
	Cost              decimal.Decimal `json:"cost"`
	MissingServiceIDs []string        `json:"missing_service_ids,omitempty"`
}

// LinePreview is one line of a bundle expansion preview
type LinePreview struct {
	ServiceID  string          `json:"service_id,omitempty"`
	BundleID   string          `json:"bundle_id,omitempty"`
	Name       string          `json:"name"`
	BaseRate   decimal.Decimal `json:"base_rate"`
	BundleCost decimal.Decimal `json:"bundle_cost"`
	Quantity   decimal.Decimal `json:"quantity"`
	IsBundle   bool            `json:"is_bundle"`
	FromBundle string          `json:"from_bundle,omitempty"`
	Note       string          `json:"note,omitempty"`
}

// BundleExpansionResponse is the line-draft preview of adding a bundle
// to a document, either aggregated or expanded per child unit.
type BundleExpansionResponse struct {
	BundleID          string        `json:"bundle_id"`
	Expanded          bool          `json:"expanded"`
	Lines             []LinePreview `json:"lines"`
	MissingServiceIDs []string      `json:"missing_service_ids,omitempty"`
}

func toLinePreviews(drafts []pricing.LineDraft) []LinePreview {
	previews := make([]LinePreview, 0, len(drafts))
	for _, d := range drafts {
		previews = append(previews, LinePreview{
			ServiceID:  d.ServiceID,
			BundleID:   d.BundleID,
			Name:       d.Name,
			BaseRate:   d.BaseRate,
			BundleCost: d.BundleCost,
			Quantity:   d.Quantity,
			IsBundle:   d.IsBundle,
			FromBundle: d.FromBundle,
			Note:       d.Note,
		})
	}
	return previews
}
