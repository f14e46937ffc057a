package invoice

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

	mu       sync.Mutex
	invoices map[id.ID]*Invoice

	// TakenNumbers makes Create fail with NUMBER_COLLISION for these numbers.
	TakenNumbers map[string]bool
}

// NewMemoryRepo creates an empty repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		MemoryStore:  lines.NewMemoryStore(),
		invoices:     make(map[id.ID]*Invoice),
		TakenNumbers: make(map[string]bool),
	}
}

func (r *MemoryRepo) Create(_ context.Context, inv *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.TakenNumbers[inv.Number] {
		return apperror.NewNumberCollision("invoice", inv.Number)
	}
	for _, existing := range r.invoices {
		if existing.Number == inv.Number {
			return apperror.NewNumberCollision("invoice", inv.Number)
		}
	}
	cp := *inv
	cp.Items = nil
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *MemoryRepo) get(invoiceID id.ID) (*Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", invoiceID.String())
	}
	cp := *inv
	return &cp, nil
}

func (r *MemoryRepo) GetByID(_ context.Context, invoiceID id.ID) (*Invoice, error) {
	return r.get(invoiceID)
}

func (r *MemoryRepo) GetForUpdate(_ context.Context, invoiceID id.ID) (*Invoice, error) {
	return r.get(invoiceID)
}

func (r *MemoryRepo) GetByNumber(_ context.Context, number string) (*Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.Number == number {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", number)
}

func (r *MemoryRepo) Update(_ context.Context, inv *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[inv.ID]; !ok {
		return apperror.NewNotFound("invoice", inv.ID.String())
	}
	cp := *inv
	cp.Items = nil
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, invoiceID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[invoiceID]; !ok {
		return apperror.NewNotFound("invoice", invoiceID.String())
	}
	delete(r.invoices, invoiceID)
	r.DeleteDocument(invoiceID)
	return nil
}

// List honours SourceOfferID and StatusID only, ordered by number.
func (r *MemoryRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[Summary], error) {
	r.mu.Lock()
	var rows []Summary
	for _, inv := range r.invoices {
		if filter.SourceOfferID != nil && (inv.SourceOfferID == nil || *inv.SourceOfferID != *filter.SourceOfferID) {
			continue
		}
		if filter.StatusID != nil && inv.StatusID != *filter.StatusID {
			continue
		}
		rows = append(rows, Summary{
			ID:            inv.ID,
			Number:        inv.Number,
			Date:          inv.Date,
			AreaID:        inv.SalesAreaID,
			ClientID:      inv.ClientID,
			StatusID:      inv.StatusID,
			SourceOfferID: inv.SourceOfferID,
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

// Count returns the number of stored invoices.
func (r *MemoryRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.invoices)
}

var _ Repository = (*MemoryRepo)(nil)
