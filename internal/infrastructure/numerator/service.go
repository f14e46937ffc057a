// Package numerator provides the PostgreSQL implementation of document auto-numbering.
// It implements the core/numerator.Generator interface.
package numerator

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	corenumerator "billing/internal/core/numerator"
	"billing/internal/infrastructure/storage/postgres"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const nextSQL = `
	INSERT INTO document_sequences (doc_type, year, current_val)
	VALUES ($1, $2, 1)
	ON CONFLICT (doc_type, year) DO UPDATE SET current_val = document_sequences.current_val + 1
	RETURNING current_val
`

const setSQL = `
	INSERT INTO document_sequences (doc_type, year, current_val)
	VALUES ($1, $2, $3)
	ON CONFLICT (doc_type, year) DO UPDATE SET current_val = $3
	RETURNING current_val
`

const advanceSQL = `
	INSERT INTO document_sequences (doc_type, year, current_val)
	VALUES ($1, $2, $3)
	ON CONFLICT (doc_type, year) DO UPDATE SET current_val = GREATEST(document_sequences.current_val, $3)
	RETURNING current_val
`

// Service allocates numbers from a per-(doc type, year) counter row.
// The row lock taken by the upsert serializes concurrent allocation until
// the caller's transaction ends.
type Service struct {
	querier func(ctx context.Context) Querier
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator service with a static querier.
// Use for testing scenarios.
func New(q Querier) *Service {
	return &Service{querier: func(context.Context) Querier { return q }}
}

// NewFromTxManager creates a numerator service that runs inside the
// transaction carried by ctx, or on the pool when there is none.
func NewFromTxManager(txm *postgres.TxManager) *Service {
	return &Service{querier: func(ctx context.Context) Querier { return txm.GetQuerier(ctx) }}
}

// Next allocates the next number of the year.
func (s *Service) Next(ctx context.Context, cfg corenumerator.Config, year int) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	var num int64
	if err := s.querier(ctx).QueryRow(ctx, nextSQL, cfg.DocType, year).Scan(&num); err != nil {
		return "", fmt.Errorf("next %s number: %w", cfg.DocType, err)
	}
	return cfg.Format(year, num), nil
}

// SetNext makes the following Next call for the year return value.
func (s *Service) SetNext(ctx context.Context, cfg corenumerator.Config, year int, value int64) error {
	if value < 1 {
		return fmt.Errorf("next %s number must be at least 1, got %d", cfg.DocType, value)
	}

	var result int64
	if err := s.querier(ctx).QueryRow(ctx, setSQL, cfg.DocType, year, value-1).Scan(&result); err != nil {
		return fmt.Errorf("set %s counter: %w", cfg.DocType, err)
	}
	return nil
}

// Advance moves the counter to at least the sequence of taken.
// With a ctx outside any transaction the upsert commits on its own.
func (s *Service) Advance(ctx context.Context, cfg corenumerator.Config, year int, taken string) error {
	seq, err := cfg.SequenceIn(year, taken)
	if err != nil {
		return err
	}

	var result int64
	if err := s.querier(ctx).QueryRow(ctx, advanceSQL, cfg.DocType, year, seq).Scan(&result); err != nil {
		return fmt.Errorf("advance %s counter: %w", cfg.DocType, err)
	}
	return nil
}
