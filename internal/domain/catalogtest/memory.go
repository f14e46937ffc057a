// Package catalogtest provides an in-memory catalog repository for service tests.
package catalogtest

import (
	"context"
	"sort"
	"sync"

	"billing/internal/core/apperror"
	"billing/internal/core/entity"
	"billing/internal/core/id"
	"billing/internal/domain"
)

// Entity is the minimum a catalog record must expose to be stored here.
type Entity interface {
	entity.Validatable
	GetID() id.ID
}

type activatable interface {
	Activate()
	Deactivate()
}

// MemoryRepo implements domain.CatalogRepository in memory.
type MemoryRepo[T Entity] struct {
	mu    sync.Mutex
	items map[id.ID]T
	order []id.ID

	// Protected marks IDs whose Delete fails as if a foreign key referenced them.
	Protected map[id.ID]bool
}

// NewMemoryRepo creates an empty repository.
func NewMemoryRepo[T Entity]() *MemoryRepo[T] {
	return &MemoryRepo[T]{
		items:     make(map[id.ID]T),
		Protected: make(map[id.ID]bool),
	}
}

func (r *MemoryRepo[T]) Create(_ context.Context, e T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[e.GetID()]; ok {
		return apperror.NewConflict("entity already exists")
	}
	r.items[e.GetID()] = e
	r.order = append(r.order, e.GetID())
	return nil
}

func (r *MemoryRepo[T]) GetByID(_ context.Context, entityID id.ID) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[entityID]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound("entity", entityID.String())
	}
	return e, nil
}

func (r *MemoryRepo[T]) Update(_ context.Context, e T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[e.GetID()]; !ok {
		return apperror.NewNotFound("entity", e.GetID().String())
	}
	r.items[e.GetID()] = e
	return nil
}

func (r *MemoryRepo[T]) Delete(_ context.Context, entityID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[entityID]; !ok {
		return apperror.NewNotFound("entity", entityID.String())
	}
	if r.Protected[entityID] {
		return apperror.NewProtected("entity", entityID.String())
	}
	delete(r.items, entityID)
	for i, v := range r.order {
		if v == entityID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepo[T]) SetActive(_ context.Context, entityID id.ID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[entityID]
	if !ok {
		return apperror.NewNotFound("entity", entityID.String())
	}
	if a, ok := any(e).(activatable); ok {
		if active {
			a.Activate()
		} else {
			a.Deactivate()
		}
	}
	return nil
}

// List returns items in insertion order. Only IDs and pagination are honoured.
func (r *MemoryRepo[T]) List(_ context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[id.ID]bool, len(filter.IDs))
	for _, v := range filter.IDs {
		want[v] = true
	}

	var items []T
	for _, key := range r.order {
		if len(want) > 0 && !want[key] {
			continue
		}
		items = append(items, r.items[key])
	}
	total := int64(len(items))
	if filter.Offset > 0 && filter.Offset < len(items) {
		items = items[filter.Offset:]
	} else if filter.Offset >= len(items) {
		items = nil
	}
	if filter.Limit > 0 && filter.Limit < len(items) {
		items = items[:filter.Limit]
	}
	return domain.ListResult[T]{Items: items, TotalCount: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (r *MemoryRepo[T]) Exists(_ context.Context, entityID id.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[entityID]
	return ok, nil
}

// All returns every stored item, sorted by ID.
func (r *MemoryRepo[T]) All() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := append([]id.ID(nil), r.order...)
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.items[k])
	}
	return out
}

// Find returns the first item matching pred, or a not-found error.
func (r *MemoryRepo[T]) Find(pred func(T) bool) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range r.order {
		if e := r.items[key]; pred(e) {
			return e, nil
		}
	}
	var zero T
	return zero, apperror.NewNotFound("entity", "")
}
