package numerator

import (
	"context"
)

// Generator allocates sequential document numbers.
// Implementations live in the infrastructure layer and must serialize
// allocation per (doc type, year) inside the caller's transaction.
type Generator interface {
	// Next allocates the next number of the year, starting at 1.
	Next(ctx context.Context, cfg Config, year int) (string, error)

	// SetNext makes the following Next call return value (for legacy data imports).
	SetNext(ctx context.Context, cfg Config, year int, value int64) error

	// Advance raises the counter so the following Next call returns a number
	// after taken. It never lowers the counter. Call it outside the
	// transaction that hit the collision so the change survives its rollback.
	Advance(ctx context.Context, cfg Config, year int, taken string) error
}
