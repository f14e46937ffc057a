// Package activity provides the Activity catalog: billable services with a current unit price.
package activity

import (
	"context"
	"strings"

	"billing/internal/core/apperror"
	"billing/internal/core/entity"
	"billing/internal/core/types"
)

const (
	CodeMaxLength        = 50
	DescriptionMaxLength = 255
)

// Activity is a billable service. Line items freeze its price when added.
type Activity struct {
	entity.Catalog
	entity.Activatable

	// Code is unique across activities
	Code string `db:"code" json:"code"`

	Description string `db:"description" json:"description"`

	// UnitPrice is the current price for new line items
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// NewActivity creates a new active Activity.
func NewActivity(code, description string, unitPrice types.Money) *Activity {
	return &Activity{
		Catalog:     entity.NewCatalog(),
		Activatable: entity.Activatable{Active: true},
		Code:        strings.TrimSpace(code),
		Description: strings.TrimSpace(description),
		UnitPrice:   unitPrice,
	}
}

// Validate implements entity.Validatable interface.
func (a *Activity) Validate(ctx context.Context) error {
	if a.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	if len([]rune(a.Code)) > CodeMaxLength {
		return apperror.NewValidation("code is too long").
			WithDetail("field", "code").
			WithDetail("max", CodeMaxLength)
	}
	if a.Description == "" {
		return apperror.NewValidation("description is required").
			WithDetail("field", "description")
	}
	if len([]rune(a.Description)) > DescriptionMaxLength {
		return apperror.NewValidation("description is too long").
			WithDetail("field", "description").
			WithDetail("max", DescriptionMaxLength)
	}
	if a.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}
	return nil
}
