package activity

import (
	"context"

	"billing/internal/core/apperror"
	"billing/internal/core/entity"
	"billing/internal/core/id"
	"billing/internal/core/tx"
	"billing/internal/domain"
	"billing/internal/domain/audit"
)

// Service provides business logic for the Activity catalog.
type Service struct {
	*domain.CatalogService[*Activity]
	repo Repository
}

// NewService creates a new Activity service. Deleting an activity deactivates it.
func NewService(repo Repository, txm tx.Manager, recorder audit.Recorder) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Activity]{
		Repo:         repo,
		TxManager:    txm,
		Recorder:     recorder,
		EntityName:   "activity",
		DeletePolicy: entity.DeleteDeactivate,
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.checkCodeUnique)
	base.Hooks().OnBeforeUpdate(svc.checkCodeUnique)

	return svc
}

func (s *Service) checkCodeUnique(ctx context.Context, a *Activity) error {
	existing, err := s.repo.FindByCode(ctx, a.Code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != a.ID {
		return apperror.NewDuplicate("activity", "code", a.Code)
	}
	return nil
}

// FindByCode retrieves an activity by code.
func (s *Service) FindByCode(ctx context.Context, code string) (*Activity, error) {
	return s.repo.FindByCode(ctx, code)
}

// RequireActive loads an activity that can be placed on a new line item.
func (s *Service) RequireActive(ctx context.Context, activityID id.ID) (*Activity, error) {
	a, err := s.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if !a.IsActive() {
		return nil, apperror.NewInactiveReference("activity", activityID.String())
	}
	return a, nil
}
