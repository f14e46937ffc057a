// Package status provides the Status catalog: an open set of named tags for offers and invoices.
package status

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"billing/internal/core/apperror"
	"billing/internal/core/entity"
)

const NameMaxLength = 50

// Seed names. Invoice statuses drive compliance classification.
const (
	Unsigned = "NO FIRMADA"
	Signed   = "FIRMADA"
	Paid     = "PAGADA"
)

// InvoiceStatuses are seeded for the invoice lifecycle.
var InvoiceStatuses = []string{Unsigned, Signed, Paid}

// OfferStatuses are seeded for the offer lifecycle.
var OfferStatuses = []string{"Pendiente", "Enviada", "Aprobada", "Rechazada", "Vencida", "Facturada"}

// Status is a named tag.
type Status struct {
	entity.Catalog

	// Name is unique, compared case-insensitively
	Name string `db:"name" json:"name"`
}

// NewStatus creates a new Status.
func NewStatus(name string) *Status {
	return &Status{
		Catalog: entity.NewCatalog(),
		Name:    strings.TrimSpace(name),
	}
}

// Validate implements entity.Validatable interface.
func (s *Status) Validate(ctx context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if len([]rune(s.Name)) > NameMaxLength {
		return apperror.NewValidation("name is too long").
			WithDetail("field", "name").
			WithDetail("max", NameMaxLength)
	}
	return nil
}

// Fold returns the case-folded, trimmed form of a status name used for comparisons.
func Fold(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Equal reports whether two status names match case-insensitively.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}
