package catalog

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/catalog"
	"github.com/quoteflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Invalidator drops cached catalog snapshots after a write
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// ServiceService handles service-offering business operations
type ServiceService struct {
	services catalog.ServiceRepository
	cache    Invalidator
	logger   *zap.Logger
}

// NewServiceService creates a new ServiceService
func NewServiceService(services catalog.ServiceRepository, cache Invalidator, logger *zap.Logger) *ServiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceService{services: services, cache: cache, logger: logger}
}

// Create creates a new service offering
func (s *ServiceService) Create(ctx context.Context, req CreateServiceRequest) (*ServiceResponse, error) {
	svc, err := catalog.NewService(req.Code, req.Name, req.Category, req.Unit, req.Currency)
	if err != nil {
		return nil, err
	}

	if req.BaseRate != nil {
		if err := svc.SetBaseRate(*req.BaseRate); err != nil {
			return nil, err
		}
	}
	svc.Negotiable = req.Negotiable
	svc.Notes = req.Notes
	if req.MinQty != nil || req.MaxQty != nil {
		min, max := svc.MinQty, svc.MaxQty
		if req.MinQty != nil {
			min = *req.MinQty
		}
		if req.MaxQty != nil {
			max = *req.MaxQty
		}
		if err := svc.SetQuantityBounds(min, max); err != nil {
			return nil, err
		}
	}

	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToServiceResponse(svc)
	return &resp, nil
}

// GetByID retrieves a service by ID
func (s *ServiceService) GetByID(ctx context.Context, id string) (*ServiceResponse, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToServiceResponse(svc)
	return &resp, nil
}

// List retrieves services with search and pagination
func (s *ServiceService) List(ctx context.Context, filter shared.Filter) ([]ServiceResponse, int64, error) {
	services, total, err := s.services.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ServiceResponse, 0, len(services))
	for i := range services {
		responses = append(responses, ToServiceResponse(&services[i]))
	}
	return responses, total, nil
}

// Update applies the requested edits to a service. Rate changes never
// retroactively affect already-generated documents.
func (s *ServiceService) Update(ctx context.Context, id string, req UpdateServiceRequest) (*ServiceResponse, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewDomainError("INVALID_SERVICE_NAME", "Service name cannot be empty")
		}
		svc.Name = *req.Name
	}
	if req.Category != nil {
		svc.Category = *req.Category
	}
	if req.Unit != nil {
		svc.Unit = *req.Unit
	}
	if req.Currency != nil && *req.Currency != "" {
		svc.Currency = *req.Currency
	}
	if req.ClearRate {
		svc.ClearBaseRate()
	} else if req.BaseRate != nil {
		if err := svc.SetBaseRate(*req.BaseRate); err != nil {
			return nil, err
		}
	}
	if req.Negotiable != nil {
		svc.Negotiable = *req.Negotiable
	}
	if req.MinQty != nil || req.MaxQty != nil {
		min, max := svc.MinQty, svc.MaxQty
		if req.MinQty != nil {
			min = *req.MinQty
		}
		if req.MaxQty != nil {
			max = *req.MaxQty
		}
		if err := svc.SetQuantityBounds(min, max); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		svc.Notes = *req.Notes
	}

	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	resp := ToServiceResponse(svc)
	return &resp, nil
}

// Delete removes a service. Bundle items referencing it become dangling
// and are tolerated by pricing, which reports them instead of failing.
func (s *ServiceService) Delete(ctx context.Context, id string) error {
	if err := s.services.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ServiceService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate catalog snapshot cache", zap.Error(err))
	}
}
