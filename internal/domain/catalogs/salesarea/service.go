package salesarea

import (
	"context"

	"billing/internal/core/entity"
	"billing/internal/core/tx"
	"billing/internal/domain"
	"billing/internal/domain/audit"
)

// Service provides business logic for the SalesArea catalog.
type Service struct {
	*domain.CatalogService[*SalesArea]
	repo Repository
}

// NewService creates a new SalesArea service. Deleting a referenced area fails.
func NewService(repo Repository, txm tx.Manager, recorder audit.Recorder) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*SalesArea]{
			Repo:         repo,
			TxManager:    txm,
			Recorder:     recorder,
			EntityName:   "sales area",
			DeletePolicy: entity.DeleteProtect,
		}),
		repo: repo,
	}
}

// ListAll returns every area ordered by name.
func (s *Service) ListAll(ctx context.Context) ([]*SalesArea, error) {
	return s.repo.ListAll(ctx)
}
