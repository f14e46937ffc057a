package numerator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "billing/internal/core/numerator"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the document_sequences table.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
	err      error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{counters: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return &mockRow{err: m.err}
	}

	key := fmt.Sprintf("%v/%v", args[0], args[1])
	if strings.Contains(sql, "GREATEST") {
		if v := args[2].(int64); v > m.counters[key] {
			m.counters[key] = v
		}
	} else if strings.Contains(sql, "$3") {
		m.counters[key] = args[2].(int64)
	} else {
		m.counters[key]++
	}
	return &mockRow{val: m.counters[key]}
}

func TestNext_PerYearSequences(t *testing.T) {
	svc := New(newMockQuerier())
	ctx := context.Background()
	cfg := corenumerator.InvoiceConfig()

	num, err := svc.Next(ctx, cfg, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-0001", num)

	num, err = svc.Next(ctx, cfg, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-0002", num)

	num, err = svc.Next(ctx, cfg, 2026)
	require.NoError(t, err)
	assert.Equal(t, "2026-0001", num)

	num, err = svc.Next(ctx, corenumerator.OfferConfig(), 2025)
	require.NoError(t, err)
	assert.Equal(t, "202500001", num)
}

func TestSetNext(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.InvoiceConfig()

	require.NoError(t, svc.SetNext(ctx, cfg, 2025, 10000))

	num, err := svc.Next(ctx, cfg, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-10000", num)

	assert.Error(t, svc.SetNext(ctx, cfg, 2025, 0))
}

func TestNext_Concurrent(t *testing.T) {
	svc := New(newMockQuerier())
	ctx := context.Background()
	cfg := corenumerator.OfferConfig()

	const n = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]bool, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.Next(ctx, cfg, 2025)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			seen[num] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	assert.True(t, seen["202500050"])
}

func TestNext_QueryError(t *testing.T) {
	q := newMockQuerier()
	q.err = errors.New("connection refused")
	svc := New(q)

	_, err := svc.Next(context.Background(), corenumerator.InvoiceConfig(), 2025)
	assert.ErrorIs(t, err, q.err)
}

func TestAdvance_NeverLowers(t *testing.T) {
	svc := New(newMockQuerier())
	ctx := context.Background()
	cfg := corenumerator.InvoiceConfig()

	require.NoError(t, svc.Advance(ctx, cfg, 2025, "2025-0007"))
	num, err := svc.Next(ctx, cfg, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-0008", num)

	require.NoError(t, svc.Advance(ctx, cfg, 2025, "2025-0003"))
	num, err = svc.Next(ctx, cfg, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-0009", num)
}

func TestAdvance_RejectsForeignNumber(t *testing.T) {
	svc := New(newMockQuerier())
	ctx := context.Background()

	assert.Error(t, svc.Advance(ctx, corenumerator.InvoiceConfig(), 2025, "2024-0007"))
	assert.Error(t, svc.Advance(ctx, corenumerator.InvoiceConfig(), 2025, "202500007"))
}
