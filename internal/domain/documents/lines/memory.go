package lines

import (
	"context"
	"sync"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
)

// MemoryStore is an in-memory Store. Used in tests.
type MemoryStore struct {
	mu    sync.Mutex
	items map[id.ID]Items
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[id.ID]Items)}
}

func (m *MemoryStore) ListItems(_ context.Context, documentID id.ID) (Items, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(Items(nil), m.items[documentID]...), nil
}

func (m *MemoryStore) InsertItems(_ context.Context, items Items) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range items {
		if m.items[it.DocumentID].Contains(it.ActivityID) {
			return apperror.NewDuplicate("item", "activity_id", it.ActivityID.String())
		}
		m.items[it.DocumentID] = append(m.items[it.DocumentID], it)
	}
	return nil
}

func (m *MemoryStore) UpdateItem(_ context.Context, item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.items[item.DocumentID]
	idx := list.Find(item.ID)
	if idx < 0 {
		return apperror.NewNotFound("item", item.ID.String())
	}
	list[idx] = item
	return nil
}

func (m *MemoryStore) DeleteItem(_ context.Context, documentID, itemID id.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.items[documentID]
	idx := list.Find(itemID)
	if idx < 0 {
		return apperror.NewNotFound("item", itemID.String())
	}
	m.items[documentID] = append(list[:idx], list[idx+1:]...)
	return nil
}

// DeleteDocument drops every item of the document, as the cascade does.
func (m *MemoryStore) DeleteDocument(documentID id.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, documentID)
}

var _ Store = (*MemoryStore)(nil)
