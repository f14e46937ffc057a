package activity

import (
	"context"

	"billing/internal/domain"
)

// Repository defines the interface for Activity persistence.
type Repository interface {
	domain.CatalogRepository[*Activity]

	// FindByCode retrieves an activity by its unique code.
	FindByCode(ctx context.Context, code string) (*Activity, error)
}
