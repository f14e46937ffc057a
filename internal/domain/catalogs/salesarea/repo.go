package salesarea

import (
	"context"

	"billing/internal/domain"
)

// Repository defines the interface for SalesArea persistence.
type Repository interface {
	domain.CatalogRepository[*SalesArea]

	// ListAll returns every area ordered by name.
	ListAll(ctx context.Context) ([]*SalesArea, error)
}
