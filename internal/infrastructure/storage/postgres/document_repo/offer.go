package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"billing/internal/domain"
	"billing/internal/domain/documents/offer"
	"billing/internal/infrastructure/storage/postgres"
)

var offerColumns = []string{
	"id", "version", "created_at", "updated_at",
	"number", "date", "sales_area_id", "client_id", "notes", "created_by",
	"status_id",
}

var offerOrder = map[string]string{
	"number": "d.number",
	"date":   "d.date",
	"client": "c.name",
	"area":   "a.name",
}

// OfferRepo implements offer.Repository.
type OfferRepo struct {
	*BaseDocumentRepo[*offer.Offer]
}

// NewOfferRepo creates an offer repository.
func NewOfferRepo(txm *postgres.TxManager) *OfferRepo {
	return &OfferRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(txm, "offers", "offer_items", "offer",
			offerColumns, func() *offer.Offer { return &offer.Offer{} }),
	}
}

func (r *OfferRepo) listQuery(filter offer.ListFilter) squirrel.SelectBuilder {
	q := r.summarySelect("s.name AS status_name").
		LeftJoin("statuses s ON s.id = d.status_id")

	if filter.SalesAreaID != nil {
		q = q.Where(squirrel.Eq{"d.sales_area_id": *filter.SalesAreaID})
	}
	if filter.ClientID != nil {
		q = q.Where(squirrel.Eq{"d.client_id": *filter.ClientID})
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

// List returns offer summaries.
func (r *OfferRepo) List(ctx context.Context, filter offer.ListFilter) (domain.ListResult[offer.Summary], error) {
	orderBy, err := parseOrderBy(filter.OrderBy, offerOrder, "d.number DESC")
	if err != nil {
		return domain.ListResult[offer.Summary]{}, err
	}

	var items []offer.Summary
	total, err := r.paginate(ctx, r.listQuery(filter), orderBy, filter.Limit, filter.Offset, &items)
	if err != nil {
		return domain.ListResult[offer.Summary]{}, err
	}

	return domain.ListResult[offer.Summary]{
		Items:      items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

var _ offer.Repository = (*OfferRepo)(nil)
