package client

import (
	"context"

	"billing/internal/core/apperror"
	"billing/internal/core/entity"
	"billing/internal/core/id"
	"billing/internal/core/tx"
	"billing/internal/domain"
	"billing/internal/domain/audit"
)

// Service provides business logic for the Client catalog.
type Service struct {
	*domain.CatalogService[*Client]
	repo Repository
}

// NewService creates a new Client service. Deleting a client deactivates it.
func NewService(repo Repository, txm tx.Manager, recorder audit.Recorder) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Client]{
			Repo:         repo,
			TxManager:    txm,
			Recorder:     recorder,
			EntityName:   "client",
			DeletePolicy: entity.DeleteDeactivate,
		}),
		repo: repo,
	}
}

// RequireActive loads a client that new documents may reference.
func (s *Service) RequireActive(ctx context.Context, clientID id.ID) (*Client, error) {
	c, err := s.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive() {
		return nil, apperror.NewInactiveReference("client", clientID.String())
	}
	return c, nil
}

// CountActive returns the number of active clients.
func (s *Service) CountActive(ctx context.Context) (int64, error) {
	return s.repo.CountActive(ctx)
}
