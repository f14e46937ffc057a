package client

import (
	"context"

	"billing/internal/domain"
)

// Repository defines the interface for Client persistence.
type Repository interface {
	domain.CatalogRepository[*Client]

	// CountActive returns the number of active clients.
	CountActive(ctx context.Context) (int64, error)
}
