package status

import (
	"context"
	"fmt"

	"billing/internal/core/apperror"
	"billing/internal/core/entity"
	"billing/internal/core/tx"
	"billing/internal/domain"
	"billing/internal/domain/audit"
	"billing/pkg/logger"
)

// Service provides business logic for the Status catalog.
type Service struct {
	*domain.CatalogService[*Status]
	repo Repository
	txm  tx.Manager
}

// NewService creates a new Status service. Statuses in use cannot be deleted.
func NewService(repo Repository, txm tx.Manager, recorder audit.Recorder) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Status]{
		Repo:         repo,
		TxManager:    txm,
		Recorder:     recorder,
		EntityName:   "status",
		DeletePolicy: entity.DeleteProtect,
	})
	svc := &Service{CatalogService: base, repo: repo, txm: txm}

	base.Hooks().OnBeforeCreate(svc.checkNameUnique)
	base.Hooks().OnBeforeUpdate(svc.checkNameUnique)

	return svc
}

func (s *Service) checkNameUnique(ctx context.Context, st *Status) error {
	existing, err := s.repo.FindByName(ctx, st.Name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != st.ID {
		return apperror.NewDuplicate("status", "name", st.Name)
	}
	return nil
}

// FindByName returns the status with the given name, case-insensitively.
func (s *Service) FindByName(ctx context.Context, name string) (*Status, error) {
	st, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("status", name)
		}
		return nil, err
	}
	return st, nil
}

// Ensure returns the named status, creating it when missing.
func (s *Service) Ensure(ctx context.Context, name string) (*Status, error) {
	st, err := s.FindByName(ctx, name)
	if err == nil {
		return st, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}
	st = NewStatus(name)
	if err := s.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("ensure status %q: %w", name, err)
	}
	logger.Info(ctx, "status created", "name", st.Name)
	return st, nil
}

// Seed makes sure every invoice and offer status exists. Returns the number created.
func (s *Service) Seed(ctx context.Context) (int, error) {
	created := 0
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, names := range [][]string{InvoiceStatuses, OfferStatuses} {
			for _, name := range names {
				if _, err := s.FindByName(ctx, name); err == nil {
					continue
				} else if !apperror.IsNotFound(err) {
					return err
				}
				if _, err := s.Ensure(ctx, name); err != nil {
					return err
				}
				created++
			}
		}
		return nil
	})
	return created, err
}
