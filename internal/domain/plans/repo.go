package plans

import (
	"context"

	"billing/internal/core/id"
)

// Filter narrows plan listings. Zero values match everything.
type Filter struct {
	SalesAreaID *id.ID
	Year        int
	Month       int
}

// Repository defines the interface for Plan persistence.
type Repository interface {
	// Create inserts a plan. A (sales area, year, month) clash is a DUPLICATE_ENTRY conflict.
	Create(ctx context.Context, p *Plan) error

	GetByID(ctx context.Context, planID id.ID) (*Plan, error)

	// FindByKey returns the plan of the triple or NOT_FOUND.
	FindByKey(ctx context.Context, areaID id.ID, year, month int) (*Plan, error)

	// UpdateAmount changes only the amount, with optimistic locking on version.
	UpdateAmount(ctx context.Context, p *Plan) error

	Delete(ctx context.Context, planID id.ID) error

	// List returns plans ordered by year desc, month desc, area name.
	List(ctx context.Context, filter Filter) ([]*Plan, error)

	// Years returns the distinct plan years, newest first.
	Years(ctx context.Context) ([]int, error)
}
