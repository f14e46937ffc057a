package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"billing/internal/core/apperror"
	"billing/internal/domain/catalogs/activity"
	"billing/internal/infrastructure/storage/postgres"
)

const activityTable = "activities"

// ActivityRepo implements activity.Repository.
type ActivityRepo struct {
	*BaseCatalogRepo[*activity.Activity]
}

// NewActivityRepo creates a new activity repository.
func NewActivityRepo(txm *postgres.TxManager) *ActivityRepo {
	return &ActivityRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm, activityTable, "activity",
			postgres.ExtractDBColumns[activity.Activity](),
			func() *activity.Activity { return &activity.Activity{} },
			WithSearch("code", "description"),
			WithDefaultOrder("code ASC"),
			WithUnique("activities_code_key", "code"),
		),
	}
}

// FindByCode retrieves an activity by its unique code.
func (r *ActivityRepo) FindByCode(ctx context.Context, code string) (*activity.Activity, error) {
	a, err := r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"code": code}).Limit(1))
	if apperror.IsNotFound(err) {
		return nil, apperror.NewNotFound("activity", code)
	}
	return a, err
}
