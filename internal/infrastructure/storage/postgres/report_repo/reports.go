// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"billing/internal/domain/reports"
	"billing/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository and reports.AreaLister.
// It returns grouped sums only; classification and ratios are computed by the caller.
type ReportRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const invoiceTotalsQuery = `
	SELECT
		inv.sales_area_id,
		EXTRACT(MONTH FROM inv.date)::int AS month,
		s.name AS status_name,
		COUNT(DISTINCT inv.id) AS invoice_count,
		COALESCE(SUM(it.line_amount), 0) AS amount
	FROM invoices inv
	JOIN statuses s ON s.id = inv.status_id
	LEFT JOIN invoice_items it ON it.document_id = inv.id
	WHERE EXTRACT(YEAR FROM inv.date)::int = $1
	GROUP BY inv.sales_area_id, EXTRACT(MONTH FROM inv.date), s.name
	ORDER BY month, s.name
`

const statusTotalsQuery = `
	SELECT
		s.name AS status_name,
		COUNT(DISTINCT inv.id) AS invoice_count,
		COALESCE(SUM(it.line_amount), 0) AS amount
	FROM invoices inv
	JOIN statuses s ON s.id = inv.status_id
	LEFT JOIN invoice_items it ON it.document_id = inv.id
	GROUP BY s.name
	ORDER BY s.name
`

// PlanAmounts returns every plan of the year.
func (r *ReportRepo) PlanAmounts(ctx context.Context, year int) ([]reports.PlanAmount, error) {
	sql, args, err := r.builder.
		Select("sales_area_id", "month", "amount").
		From("plans").
		Where(squirrel.Eq{"year": year}).
		OrderBy("month").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build plans query: %w", err)
	}

	var rows []reports.PlanAmount
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select plans: %w", err)
	}
	return rows, nil
}

// InvoiceTotals groups the invoices dated in year by area, month and status.
func (r *ReportRepo) InvoiceTotals(ctx context.Context, year int) ([]reports.InvoiceTotal, error) {
	var rows []reports.InvoiceTotal
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, invoiceTotalsQuery, year); err != nil {
		return nil, fmt.Errorf("select invoice totals: %w", err)
	}
	return rows, nil
}

// StatusTotals groups all invoices by status.
func (r *ReportRepo) StatusTotals(ctx context.Context) ([]reports.StatusTotal, error) {
	var rows []reports.StatusTotal
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, statusTotalsQuery); err != nil {
		return nil, fmt.Errorf("select status totals: %w", err)
	}
	return rows, nil
}

// ListAreas returns every sales area ordered by name.
func (r *ReportRepo) ListAreas(ctx context.Context) ([]reports.Area, error) {
	sql, args, err := r.builder.
		Select("id", "name").
		From("sales_areas").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build areas query: %w", err)
	}

	var rows []reports.Area
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select areas: %w", err)
	}
	return rows, nil
}

var (
	_ reports.Repository = (*ReportRepo)(nil)
	_ reports.AreaLister = (*ReportRepo)(nil)
)
