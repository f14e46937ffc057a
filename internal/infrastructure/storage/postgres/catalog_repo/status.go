package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"billing/internal/core/apperror"
	"billing/internal/domain/catalogs/status"
	"billing/internal/infrastructure/storage/postgres"
)

const statusTable = "statuses"

// StatusRepo implements status.Repository.
type StatusRepo struct {
	*BaseCatalogRepo[*status.Status]
}

// NewStatusRepo creates a new status repository.
func NewStatusRepo(txm *postgres.TxManager) *StatusRepo {
	return &StatusRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm, statusTable, "status",
			postgres.ExtractDBColumns[status.Status](),
			func() *status.Status { return &status.Status{} },
			WithUnique("statuses_name_lower_key", "name"),
		),
	}
}

// FindByName matches the name case-insensitively.
func (r *StatusRepo) FindByName(ctx context.Context, name string) (*status.Status, error) {
	st, err := r.FindOne(ctx, r.baseSelect().
		Where(squirrel.Expr("lower(name) = lower(?)", name)).
		Limit(1))
	if apperror.IsNotFound(err) {
		return nil, apperror.NewNotFound("status", name)
	}
	return st, err
}

// ListAll returns every status ordered by name.
func (r *StatusRepo) ListAll(ctx context.Context) ([]*status.Status, error) {
	return r.FindAll(ctx, r.baseSelect().OrderBy("name ASC"))
}
