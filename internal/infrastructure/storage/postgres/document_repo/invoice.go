package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"billing/internal/domain"
	"billing/internal/domain/documents/invoice"
	"billing/internal/infrastructure/storage/postgres"
)

var invoiceColumns = []string{
	"id", "version", "created_at", "updated_at",
	"number", "date", "sales_area_id", "client_id", "notes", "created_by",
	"status_id", "source_offer_id",
}

var invoiceOrder = map[string]string{
	"number": "d.number",
	"date":   "d.date",
	"client": "c.name",
	"area":   "a.name",
	"status": "s.name",
}

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
}

// NewInvoiceRepo creates an invoice repository.
func NewInvoiceRepo(txm *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txm, "invoices", "invoice_items", "invoice",
			invoiceColumns, func() *invoice.Invoice { return &invoice.Invoice{} }),
	}
}

// listQuery builds the filtered listing without ordering or pagination.
func (r *InvoiceRepo) listQuery(filter invoice.ListFilter) squirrel.SelectBuilder {
	q := r.summarySelect("d.status_id", "s.name AS status_name", "d.source_offer_id").
		Join("statuses s ON s.id = d.status_id")

	if filter.StatusID != nil {
		q = q.Where(squirrel.Eq{"d.status_id": *filter.StatusID})
	} else if filter.StatusName != "" {
		q = q.Where("lower(s.name) = lower(?)", filter.StatusName)
	}
	if filter.SalesAreaID != nil {
		q = q.Where(squirrel.Eq{"d.sales_area_id": *filter.SalesAreaID})
	}
	if filter.ClientID != nil {
		q = q.Where(squirrel.Eq{"d.client_id": *filter.ClientID})
	}
	if filter.SourceOfferID != nil {
		q = q.Where(squirrel.Eq{"d.source_offer_id": *filter.SourceOfferID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"d.date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"d.date": *filter.DateTo})
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"d.id": filter.IDs})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"d.number": pattern},
			squirrel.ILike{"c.name": pattern},
			squirrel.ILike{"a.name": pattern},
		})
	}
	return q
}

// List returns invoice summaries, newest number first unless OrderBy says otherwise.
func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[invoice.Summary], error) {
	orderBy, err := parseOrderBy(filter.OrderBy, invoiceOrder, "d.number DESC")
	if err != nil {
		return domain.ListResult[invoice.Summary]{}, err
	}

	var items []invoice.Summary
	total, err := r.paginate(ctx, r.listQuery(filter), orderBy, filter.Limit, filter.Offset, &items)
	if err != nil {
		return domain.ListResult[invoice.Summary]{}, err
	}

	return domain.ListResult[invoice.Summary]{
		Items:      items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

var _ invoice.Repository = (*InvoiceRepo)(nil)
