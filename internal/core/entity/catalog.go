package entity

// Catalog is the base type for reference data: activities, clients, areas, statuses.
type Catalog struct {
	BaseEntity
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog() Catalog {
	return Catalog{BaseEntity: NewBaseEntity()}
}
