package catalog_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"billing/internal/domain/catalogs/company"
	"billing/internal/infrastructure/storage/postgres"
)

const companyTable = "company"

// CompanyRepo implements company.Repository over a single-row table.
type CompanyRepo struct {
	base *BaseCatalogRepo[*company.Company]
}

// NewCompanyRepo creates a new company repository.
func NewCompanyRepo(txm *postgres.TxManager) *CompanyRepo {
	return &CompanyRepo{
		base: NewBaseCatalogRepo(
			txm, companyTable, "company",
			postgres.ExtractDBColumns[company.Company](),
			func() *company.Company { return &company.Company{} },
		),
	}
}

// Get returns the profile or NOT_FOUND when it was never saved.
func (r *CompanyRepo) Get(ctx context.Context) (*company.Company, error) {
	return r.base.FindOne(ctx, r.base.baseSelect().OrderBy("updated_at DESC").Limit(1))
}

// Save inserts or replaces the profile.
func (r *CompanyRepo) Save(ctx context.Context, c *company.Company) error {
	data := postgres.StructToMap(c)
	cols := r.base.selectCols
	values := make([]any, len(cols))
	updates := make([]string, 0, len(cols))
	for i, col := range cols {
		values[i] = data[col]
		if col != "id" {
			updates = append(updates, col+" = EXCLUDED."+col)
		}
	}

	sql, args, err := r.base.Builder().
		Insert(companyTable).
		Columns(cols...).
		Values(values...).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + strings.Join(updates, ", ")).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.base.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("save company: %w", err)
	}

	// Only one profile row is kept.
	sql, args, err = r.base.Builder().
		Delete(companyTable).
		Where(squirrel.NotEq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build prune: %w", err)
	}
	if _, err := r.base.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("prune company rows: %w", err)
	}
	return nil
}
