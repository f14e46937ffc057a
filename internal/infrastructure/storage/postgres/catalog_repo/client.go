package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"billing/internal/domain/catalogs/client"
	"billing/internal/infrastructure/storage/postgres"
)

const clientTable = "clients"

// ClientRepo implements client.Repository.
type ClientRepo struct {
	*BaseCatalogRepo[*client.Client]
}

// NewClientRepo creates a new client repository.
func NewClientRepo(txm *postgres.TxManager) *ClientRepo {
	return &ClientRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm, clientTable, "client",
			postgres.ExtractDBColumns[client.Client](),
			func() *client.Client { return &client.Client{} },
			WithSearch("name", "contract_number", "reeup_code", "nit_code"),
		),
	}
}

// CountActive returns the number of active clients.
func (r *ClientRepo) CountActive(ctx context.Context) (int64, error) {
	return r.Count(ctx, squirrel.Eq{"active": true})
}
