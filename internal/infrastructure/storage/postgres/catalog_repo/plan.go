package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/domain/plans"
	"billing/internal/infrastructure/storage/postgres"
)

const planTable = "plans"

// PlanRepo implements plans.Repository.
type PlanRepo struct {
	base *BaseCatalogRepo[*plans.Plan]
}

// NewPlanRepo creates a new plan repository.
func NewPlanRepo(txm *postgres.TxManager) *PlanRepo {
	return &PlanRepo{
		base: NewBaseCatalogRepo(
			txm, planTable, "plan",
			postgres.ExtractDBColumns[plans.Plan](),
			func() *plans.Plan { return &plans.Plan{} },
			WithSearch(),
			WithDefaultOrder("year DESC, month DESC"),
			WithUnique("plans_area_year_month_key", "sales_area_id"),
		),
	}
}

// Create inserts a plan.
func (r *PlanRepo) Create(ctx context.Context, p *plans.Plan) error {
	return r.base.Create(ctx, p)
}

// GetByID retrieves a plan by ID.
func (r *PlanRepo) GetByID(ctx context.Context, planID id.ID) (*plans.Plan, error) {
	return r.base.GetByID(ctx, planID)
}

// FindByKey returns the plan of the triple or NOT_FOUND.
func (r *PlanRepo) FindByKey(ctx context.Context, areaID id.ID, year, month int) (*plans.Plan, error) {
	return r.base.FindOne(ctx, r.base.baseSelect().
		Where(squirrel.Eq{"sales_area_id": areaID, "year": year, "month": month}).
		Limit(1))
}

// UpdateAmount changes only the amount, with optimistic locking on version.
func (r *PlanRepo) UpdateAmount(ctx context.Context, p *plans.Plan) error {
	sql, args, err := r.base.Builder().
		Update(planTable).
		Set("amount", p.Amount).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID, "version": p.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.base.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update plan amount: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("plan", p.ID.String())
	}
	p.Touch()
	return nil
}

// Delete removes a plan.
func (r *PlanRepo) Delete(ctx context.Context, planID id.ID) error {
	return r.base.Delete(ctx, planID)
}

// listQuery selects plans joined with their area for ordering.
func (r *PlanRepo) listQuery(filter plans.Filter) squirrel.SelectBuilder {
	cols := make([]string, len(r.base.selectCols))
	for i, c := range r.base.selectCols {
		cols[i] = "p." + c
	}
	q := r.base.Builder().
		Select(cols...).
		From(planTable + " p").
		Join(salesAreaTable + " a ON a.id = p.sales_area_id").
		OrderBy("p.year DESC", "p.month DESC", "a.name ASC")
	if filter.SalesAreaID != nil {
		q = q.Where(squirrel.Eq{"p.sales_area_id": *filter.SalesAreaID})
	}
	if filter.Year > 0 {
		q = q.Where(squirrel.Eq{"p.year": filter.Year})
	}
	if filter.Month > 0 {
		q = q.Where(squirrel.Eq{"p.month": filter.Month})
	}
	return q
}

// List returns plans ordered by year desc, month desc, area name.
func (r *PlanRepo) List(ctx context.Context, filter plans.Filter) ([]*plans.Plan, error) {
	return r.base.FindAll(ctx, r.listQuery(filter))
}

// Years returns the distinct plan years, newest first.
func (r *PlanRepo) Years(ctx context.Context) ([]int, error) {
	sql, args, err := r.base.Builder().
		Select("DISTINCT year").
		From(planTable).
		OrderBy("year DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var years []int
	if err := pgxscan.Select(ctx, r.base.querier(ctx), &years, sql, args...); err != nil {
		return nil, fmt.Errorf("plan years: %w", err)
	}
	return years, nil
}
