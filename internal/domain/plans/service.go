package plans

import (
	"context"
	"fmt"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/core/tx"
	"billing/internal/core/types"
	"billing/internal/domain/audit"
	"billing/internal/domain/catalogs/salesarea"
)

// AreaReader loads the sales area a plan refers to.
type AreaReader interface {
	GetByID(ctx context.Context, areaID id.ID) (*salesarea.SalesArea, error)
}

// Service manages plans.
type Service struct {
	repo     Repository
	areas    AreaReader
	txm      tx.Manager
	recorder audit.Recorder
}

// NewService creates a new plan service.
func NewService(repo Repository, areas AreaReader, txm tx.Manager, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &Service{repo: repo, areas: areas, txm: txm, recorder: recorder}
}

// Create registers a plan. At most one plan exists per (area, year, month);
// a second one is rejected with DUPLICATE_PLAN and the existing plan is left as is.
func (s *Service) Create(ctx context.Context, p *Plan) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	area, err := s.areas.GetByID(ctx, p.SalesAreaID)
	if err != nil {
		return err
	}
	duplicate := apperror.NewDuplicatePlan(area.Name, p.MonthName(), p.Year)

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindByKey(ctx, p.SalesAreaID, p.Year, p.Month); err == nil {
			return duplicate
		} else if !apperror.IsNotFound(err) {
			return err
		}
		if err := s.repo.Create(ctx, p); err != nil {
			if apperror.HasCode(err, apperror.CodeDuplicate) {
				return duplicate
			}
			return fmt.Errorf("create plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	audit.Log(ctx, s.recorder, "plan.create", map[string]any{
		"id": p.ID.String(), "area": area.Name, "year": p.Year, "month": p.Month,
		"amount": types.FormatMoney(p.Amount),
	})
	return nil
}

// UpdateAmount changes the amount of an existing plan. The triple is immutable.
func (s *Service) UpdateAmount(ctx context.Context, planID id.ID, amount types.Money) (*Plan, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	var p *Plan
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetByID(ctx, planID)
		if err != nil {
			return err
		}
		p.Amount = amount
		return s.repo.UpdateAmount(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	audit.Log(ctx, s.recorder, "plan.update", map[string]any{
		"id": planID.String(), "amount": types.FormatMoney(amount),
	})
	return p, nil
}

// Get returns a plan by ID.
func (s *Service) Get(ctx context.Context, planID id.ID) (*Plan, error) {
	return s.repo.GetByID(ctx, planID)
}

// List returns plans matching filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Plan, error) {
	return s.repo.List(ctx, filter)
}

// Delete removes a plan.
func (s *Service) Delete(ctx context.Context, planID id.ID) error {
	if err := s.repo.Delete(ctx, planID); err != nil {
		return err
	}
	audit.Log(ctx, s.recorder, "plan.delete", map[string]any{"id": planID.String()})
	return nil
}

// Years returns the distinct years that have plans, newest first.
func (s *Service) Years(ctx context.Context) ([]int, error) {
	return s.repo.Years(ctx)
}
