package domain

import (
	"context"
	"fmt"

	"billing/internal/core/apperror"
	"billing/internal/core/entity"
	"billing/internal/core/id"
	"billing/internal/core/tx"
	"billing/internal/domain/audit"
	"billing/pkg/logger"
)

// CatalogService provides business logic shared by all catalog entities.
type CatalogService[T entity.Validatable] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	recorder  audit.Recorder
	hooks     *HookRegistry[T]

	entityName   string
	deletePolicy entity.DeletePolicy
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T entity.Validatable] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	Recorder   audit.Recorder
	EntityName string

	// DeletePolicy is DeleteProtect (physical delete guarded by FKs) or
	// DeleteDeactivate (clear the active flag). Defaults to DeleteProtect.
	DeletePolicy entity.DeletePolicy
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T entity.Validatable](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	policy := cfg.DeletePolicy
	if policy == "" {
		policy = entity.DeleteProtect
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &CatalogService[T]{
		repo:         cfg.Repo,
		txManager:    cfg.TxManager,
		recorder:     recorder,
		hooks:        NewHookRegistry[T](),
		entityName:   cfg.EntityName,
		deletePolicy: policy,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// EntityName returns the name used in errors and activity log entries.
func (s *CatalogService[T]) EntityName() string {
	return s.entityName
}

// DeletePolicy returns the configured delete policy.
func (s *CatalogService[T]) DeletePolicy() entity.DeletePolicy {
	return s.deletePolicy
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, key any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, key)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", key)
}

// Create validates and inserts a new catalog entity.
func (s *CatalogService[T]) Create(ctx context.Context, e T) error {
	if err := e.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeCreate, e); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, e); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterCreate, e); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "error", err)
	}
	audit.Log(ctx, s.recorder, s.entityName+".create", map[string]any{"id": idOf(e)})
	return nil
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	e, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return e, s.normalizeGetErr(err, entityID.String())
	}
	return e, nil
}

// Update validates and saves an existing entity.
func (s *CatalogService[T]) Update(ctx context.Context, e T) error {
	if err := e.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeUpdate, e); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, e); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterUpdate, e); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", s.entityName, "error", err)
	}
	audit.Log(ctx, s.recorder, s.entityName+".update", map[string]any{"id": idOf(e)})
	return nil
}

// Delete applies the configured delete policy.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	e, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return s.normalizeGetErr(err, entityID.String())
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeDelete, e); err != nil {
			return err
		}
		var delErr error
		switch s.deletePolicy {
		case entity.DeleteDeactivate:
			delErr = s.repo.SetActive(ctx, entityID, false)
		default:
			delErr = s.repo.Delete(ctx, entityID)
		}
		if delErr != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, delErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	audit.Log(ctx, s.recorder, s.entityName+".delete", map[string]any{
		"id":     entityID.String(),
		"policy": string(s.deletePolicy),
	})
	return nil
}

// SetActive reactivates or deactivates an entity regardless of the delete policy.
func (s *CatalogService[T]) SetActive(ctx context.Context, entityID id.ID, active bool) error {
	if err := s.repo.SetActive(ctx, entityID, active); err != nil {
		return s.normalizeGetErr(err, entityID.String())
	}
	return nil
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter)
}

// Exists checks if entity exists.
func (s *CatalogService[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return s.repo.Exists(ctx, entityID)
}

func idOf(e any) string {
	if v, ok := e.(interface{ GetID() id.ID }); ok {
		return v.GetID().String()
	}
	return ""
}
