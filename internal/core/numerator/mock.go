package numerator

import (
	"context"
	"sync"
)

// MockGenerator is a test implementation of Generator.
// Without NextFunc it counts per doc type and year in memory.
type MockGenerator struct {
	NextFunc    func(ctx context.Context, cfg Config, year int) (string, error)
	SetNextFunc func(ctx context.Context, cfg Config, year int, value int64) error
	AdvanceFunc func(ctx context.Context, cfg Config, year int, taken string) error

	mu       sync.Mutex
	counters map[string]int64
}

// Next implements Generator.
func (m *MockGenerator) Next(ctx context.Context, cfg Config, year int) (string, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, cfg, year)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	key := cfg.Format(year, 0)
	m.counters[key]++
	return cfg.Format(year, m.counters[key]), nil
}

// SetNext implements Generator.
func (m *MockGenerator) SetNext(ctx context.Context, cfg Config, year int, value int64) error {
	if m.SetNextFunc != nil {
		return m.SetNextFunc(ctx, cfg, year, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	m.counters[cfg.Format(year, 0)] = value - 1
	return nil
}

// Advance implements Generator.
func (m *MockGenerator) Advance(ctx context.Context, cfg Config, year int, taken string) error {
	if m.AdvanceFunc != nil {
		return m.AdvanceFunc(ctx, cfg, year, taken)
	}
	seq, err := cfg.SequenceIn(year, taken)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	key := cfg.Format(year, 0)
	if m.counters[key] < seq {
		m.counters[key] = seq
	}
	return nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
