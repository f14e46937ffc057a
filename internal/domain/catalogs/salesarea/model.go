// Package salesarea provides the SalesArea catalog: organizational units with their own sales plans.
package salesarea

import (
	"context"
	"strings"

	"billing/internal/core/apperror"
	"billing/internal/core/entity"
)

const NameMaxLength = 100

// SalesArea is an organizational unit. Plans and documents reference it with PROTECT semantics.
type SalesArea struct {
	entity.Catalog

	Name string `db:"name" json:"name"`

	// CostCenter is the accounting unit code, exported as Unidad in .obl files
	CostCenter *string `db:"cost_center" json:"costCenter,omitempty"`
}

// NewSalesArea creates a new SalesArea.
func NewSalesArea(name string) *SalesArea {
	return &SalesArea{
		Catalog: entity.NewCatalog(),
		Name:    strings.TrimSpace(name),
	}
}

// CostCenterValue returns the cost center or "".
func (a *SalesArea) CostCenterValue() string {
	if a.CostCenter == nil {
		return ""
	}
	return *a.CostCenter
}

// Validate implements entity.Validatable interface.
func (a *SalesArea) Validate(ctx context.Context) error {
	if a.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if len([]rune(a.Name)) > NameMaxLength {
		return apperror.NewValidation("name is too long").
			WithDetail("field", "name").
			WithDetail("max", NameMaxLength)
	}
	return nil
}
