package status

import (
	"context"

	"billing/internal/domain"
)

// Repository defines the interface for Status persistence.
type Repository interface {
	domain.CatalogRepository[*Status]

	// FindByName matches the name case-insensitively.
	FindByName(ctx context.Context, name string) (*Status, error)
}
