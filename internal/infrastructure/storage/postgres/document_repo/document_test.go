package document_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/domain"
	"billing/internal/domain/documents/invoice"
	"billing/internal/domain/documents/offer"
)

func TestInvoiceListQuery_StatusNameAndSearch(t *testing.T) {
	repo := NewInvoiceRepo(nil)

	sql, args, err := repo.listQuery(invoice.ListFilter{
		ListFilter: domain.ListFilter{Search: "acme"},
		StatusName: "firmada",
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM invoices d JOIN sales_areas a ON a.id = d.sales_area_id JOIN clients c ON c.id = d.client_id JOIN statuses s ON s.id = d.status_id")
	assert.Contains(t, sql, "COALESCE((SELECT SUM(i.line_amount) FROM invoice_items i WHERE i.document_id = d.id), 0) AS total")
	assert.Contains(t, sql, "WHERE lower(s.name) = lower($1) AND (d.number ILIKE $2 OR c.name ILIKE $3 OR a.name ILIKE $4)")
	assert.Equal(t, []any{"firmada", "%acme%", "%acme%", "%acme%"}, args)
}

func TestInvoiceListQuery_StatusIDWins(t *testing.T) {
	repo := NewInvoiceRepo(nil)
	statusID := id.New()
	offerID := id.New()

	sql, args, err := repo.listQuery(invoice.ListFilter{
		StatusID:      &statusID,
		StatusName:    "ignored",
		SourceOfferID: &offerID,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "WHERE d.status_id = $1 AND d.source_offer_id = $2")
	assert.NotContains(t, sql, "lower(s.name)")
	assert.Equal(t, []any{statusID.String(), offerID.String()}, args)
}

func TestOfferListQuery_LeftJoinsStatus(t *testing.T) {
	repo := NewOfferRepo(nil)
	area := id.New()

	sql, args, err := repo.listQuery(offer.ListFilter{SalesAreaID: &area}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "LEFT JOIN statuses s ON s.id = d.status_id")
	assert.Contains(t, sql, "FROM offer_items i")
	assert.Contains(t, sql, "WHERE d.sales_area_id = $1")
	assert.Equal(t, []any{area.String()}, args)
}

func TestParseOrderBy(t *testing.T) {
	got, err := parseOrderBy("", invoiceOrder, "d.number DESC")
	require.NoError(t, err)
	assert.Equal(t, "d.number DESC", got)

	got, err = parseOrderBy("-date", invoiceOrder, "d.number DESC")
	require.NoError(t, err)
	assert.Equal(t, "d.date DESC", got)

	got, err = parseOrderBy("client", invoiceOrder, "d.number DESC")
	require.NoError(t, err)
	assert.Equal(t, "c.name ASC", got)

	_, err = parseOrderBy("status", offerOrder, "d.number DESC")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestWritableData_SkipsImmutableColumns(t *testing.T) {
	repo := NewInvoiceRepo(nil)
	inv := invoice.NewInvoice(id.New(), id.New(), "ana@example.com")
	inv.Number = "2025-0001"

	data, err := repo.writableData(inv, "id", "number", "created_at", "created_by")
	require.NoError(t, err)

	assert.NotContains(t, data, "id")
	assert.NotContains(t, data, "number")
	assert.NotContains(t, data, "created_by")
	assert.Contains(t, data, "status_id")
	assert.Contains(t, data, "source_offer_id")
	assert.Equal(t, inv.Version, data["version"])

	full, err := repo.writableData(inv)
	require.NoError(t, err)
	assert.Equal(t, "2025-0001", full["number"])
	assert.Len(t, full, len(invoiceColumns))
}
