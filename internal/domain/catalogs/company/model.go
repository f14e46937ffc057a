// Package company holds the singleton profile of the issuing company shown on documents.
package company

import (
	"context"
	"strings"
	"time"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
)

// Company is the issuing company profile. Exactly one row exists.
type Company struct {
	ID id.ID `db:"id" json:"id"`

	Name          string  `db:"name" json:"name"`
	ReeupCode     *string `db:"reeup_code" json:"reeupCode,omitempty"`
	NitCode       *string `db:"nit_code" json:"nitCode,omitempty"`
	BankAccount   *string `db:"bank_account" json:"bankAccount,omitempty"`
	AccountHolder *string `db:"account_holder" json:"accountHolder,omitempty"`
	PostalAddress *string `db:"postal_address" json:"postalAddress,omitempty"`
	Email         *string `db:"email" json:"email,omitempty"`
	Phones        *string `db:"phones" json:"phones,omitempty"`
	WebPortal     *string `db:"web_portal" json:"webPortal,omitempty"`
	LogoRef       *string `db:"logo_ref" json:"logoRef,omitempty"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate implements entity.Validatable interface.
func (c *Company) Validate(ctx context.Context) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Repository persists the single company row.
type Repository interface {
	// Get returns the profile or NOT_FOUND when it was never saved.
	Get(ctx context.Context) (*Company, error)

	// Save inserts or replaces the profile.
	Save(ctx context.Context, c *Company) error
}
