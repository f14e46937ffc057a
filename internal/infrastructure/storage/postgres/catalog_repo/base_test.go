package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/domain"
	"billing/internal/domain/plans"
)

func newTestRepo() *BaseCatalogRepo[*struct{}] {
	return NewBaseCatalogRepo(nil, "clients", "client",
		[]string{"id", "version", "active", "name", "contract_number"},
		func() *struct{} { return &struct{}{} },
		WithSearch("name", "contract_number"),
	)
}

func TestBuildListQuery_SearchAndActive(t *testing.T) {
	repo := newTestRepo()
	active := true

	sql, args, err := repo.buildListQuery(domain.ListFilter{Search: "acme", Active: &active}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, version, active, name, contract_number FROM clients WHERE (name ILIKE $1 OR contract_number ILIKE $2) AND active = $3",
		sql)
	assert.Equal(t, []any{"%acme%", "%acme%", true}, args)
}

func TestBuildListQuery_IDs(t *testing.T) {
	repo := newTestRepo()
	a, b := id.New(), id.New()

	sql, args, err := repo.buildListQuery(domain.ListFilter{IDs: []id.ID{a, b}}).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, version, active, name, contract_number FROM clients WHERE id IN ($1,$2)", sql)
	assert.Len(t, args, 2)
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	got, err := repo.parseOrderBy("")
	require.NoError(t, err)
	assert.Equal(t, "name ASC", got)

	got, err = repo.parseOrderBy("-contract_number")
	require.NoError(t, err)
	assert.Equal(t, "contract_number DESC", got)

	_, err = repo.parseOrderBy("name; DROP TABLE clients")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestPlanListQuery(t *testing.T) {
	repo := NewPlanRepo(nil)
	area := id.New()

	sql, args, err := repo.listQuery(plans.Filter{SalesAreaID: &area, Year: 2025}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM plans p JOIN sales_areas a ON a.id = p.sales_area_id")
	assert.Contains(t, sql, "WHERE p.sales_area_id = $1 AND p.year = $2")
	assert.Contains(t, sql, "ORDER BY p.year DESC, p.month DESC, a.name ASC")
	assert.Equal(t, []any{area.String(), 2025}, args)
}
