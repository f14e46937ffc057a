package doctest

import (
	"context"
	"sync"

	"billing/internal/core/numerator"
)

// TxCounter is a numerator.Generator whose allocations inside a transaction
// are discarded when that transaction rolls back, like the document_sequences
// upsert. Calls made outside a transaction apply immediately.
type TxCounter struct {
	mu        sync.Mutex
	committed map[string]int64
	pending   map[string]int64
}

// NewTxCounter creates an empty counter.
func NewTxCounter() *TxCounter {
	return &TxCounter{committed: make(map[string]int64)}
}

func (c *TxCounter) values() map[string]int64 {
	if c.pending != nil {
		return c.pending
	}
	return c.committed
}

// Next implements numerator.Generator.
func (c *TxCounter) Next(_ context.Context, cfg numerator.Config, year int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	vals := c.values()
	key := cfg.Format(year, 0)
	vals[key]++
	return cfg.Format(year, vals[key]), nil
}

// SetNext implements numerator.Generator.
func (c *TxCounter) SetNext(_ context.Context, cfg numerator.Config, year int, value int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values()[cfg.Format(year, 0)] = value - 1
	return nil
}

// Advance implements numerator.Generator.
func (c *TxCounter) Advance(_ context.Context, cfg numerator.Config, year int, taken string) error {
	seq, err := cfg.SequenceIn(year, taken)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	vals := c.values()
	key := cfg.Format(year, 0)
	if vals[key] < seq {
		vals[key] = seq
	}
	return nil
}

// RunInTransaction implements tx.Manager. Counter changes made by fn are
// kept only when it succeeds. Nested calls reuse the open transaction.
func (c *TxCounter) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	c.mu.Lock()
	if c.pending != nil {
		c.mu.Unlock()
		return fn(ctx)
	}
	c.pending = make(map[string]int64, len(c.committed))
	for k, v := range c.committed {
		c.pending[k] = v
	}
	c.mu.Unlock()

	err := fn(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		c.committed = c.pending
	}
	c.pending = nil
	return err
}

// Ensure compile-time interface compliance.
var _ numerator.Generator = (*TxCounter)(nil)
