package offer

import (
	"context"
	"sort"
	"sync"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/domain"
	"billing/internal/domain/documents/lines"
)

// MemoryRepo is an in-memory Repository. Used in tests.
type MemoryRepo struct {
	*lines.MemoryStore

	mu     sync.Mutex
	offers map[id.ID]*Offer
}

// NewMemoryRepo creates an empty repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		MemoryStore: lines.NewMemoryStore(),
		offers:      make(map[id.ID]*Offer),
	}
}

func (r *MemoryRepo) Create(_ context.Context, o *Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.offers {
		if existing.Number == o.Number {
			return apperror.NewNumberCollision("offer", o.Number)
		}
	}
	cp := *o
	cp.Items = nil
	r.offers[o.ID] = &cp
	return nil
}

func (r *MemoryRepo) get(offerID id.ID) (*Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[offerID]
	if !ok {
		return nil, apperror.NewNotFound("offer", offerID.String())
	}
	cp := *o
	return &cp, nil
}

func (r *MemoryRepo) GetByID(_ context.Context, offerID id.ID) (*Offer, error) {
	return r.get(offerID)
}

func (r *MemoryRepo) GetForUpdate(_ context.Context, offerID id.ID) (*Offer, error) {
	return r.get(offerID)
}

func (r *MemoryRepo) Update(_ context.Context, o *Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[o.ID]; !ok {
		return apperror.NewNotFound("offer", o.ID.String())
	}
	cp := *o
	cp.Items = nil
	r.offers[o.ID] = &cp
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, offerID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[offerID]; !ok {
		return apperror.NewNotFound("offer", offerID.String())
	}
	delete(r.offers, offerID)
	r.DeleteDocument(offerID)
	return nil
}

// List ignores filters and orders by number.
func (r *MemoryRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[Summary], error) {
	r.mu.Lock()
	rows := make([]Summary, 0, len(r.offers))
	for _, o := range r.offers {
		rows = append(rows, Summary{
			ID: o.ID, Number: o.Number, Date: o.Date,
			AreaID: o.SalesAreaID, ClientID: o.ClientID,
		})
	}
	r.mu.Unlock()

	for i := range rows {
		items, err := r.ListItems(ctx, rows[i].ID)
		if err != nil {
			return domain.ListResult[Summary]{}, err
		}
		rows[i].Total = items.Total()
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Number < rows[j].Number })
	return domain.ListResult[Summary]{Items: rows, TotalCount: int64(len(rows)), Limit: filter.Limit}, nil
}

var _ Repository = (*MemoryRepo)(nil)
