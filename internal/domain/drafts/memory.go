package drafts

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"billing/internal/core/apperror"
)

// MemoryStore keeps drafts in process memory and evicts them lazily on read.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string][]byte
	expiry map[string]time.Time
	now    func() time.Time
}

// NewMemoryStore creates an empty store. now defaults to time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		drafts: make(map[string][]byte),
		expiry: make(map[string]time.Time),
		now:    now,
	}
}

func (m *MemoryStore) Save(_ context.Context, d *Draft, ttl time.Duration) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[d.Token] = data
	m.expiry[d.Token] = m.now().Add(ttl)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.drafts[token]
	if !ok {
		return nil, apperror.NewNotFound("draft", token)
	}
	if !m.now().Before(m.expiry[token]) {
		delete(m.drafts, token)
		delete(m.expiry, token)
		return nil, apperror.NewNotFound("draft", token)
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, token)
	delete(m.expiry, token)
	return nil
}

var _ Store = (*MemoryStore)(nil)
