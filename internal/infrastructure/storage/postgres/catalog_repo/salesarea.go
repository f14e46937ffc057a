package catalog_repo

import (
	"context"

	"billing/internal/domain/catalogs/salesarea"
	"billing/internal/infrastructure/storage/postgres"
)

const salesAreaTable = "sales_areas"

// SalesAreaRepo implements salesarea.Repository.
type SalesAreaRepo struct {
	*BaseCatalogRepo[*salesarea.SalesArea]
}

// NewSalesAreaRepo creates a new sales area repository.
func NewSalesAreaRepo(txm *postgres.TxManager) *SalesAreaRepo {
	return &SalesAreaRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm, salesAreaTable, "sales area",
			postgres.ExtractDBColumns[salesarea.SalesArea](),
			func() *salesarea.SalesArea { return &salesarea.SalesArea{} },
			WithSearch("name", "cost_center"),
			WithUnique("sales_areas_name_key", "name"),
		),
	}
}

// ListAll returns every area ordered by name.
func (r *SalesAreaRepo) ListAll(ctx context.Context) ([]*salesarea.SalesArea, error) {
	return r.FindAll(ctx, r.baseSelect().OrderBy("name ASC"))
}
