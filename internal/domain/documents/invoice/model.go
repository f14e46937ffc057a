// Package invoice provides the Invoice document.
package invoice

import (
	"context"

	"billing/internal/core/apperror"
	"billing/internal/core/entity"
	"billing/internal/core/id"
	"billing/internal/core/types"
	"billing/internal/domain/documents/lines"
)

// Invoice is a billing document numbered YYYY-NNNN.
type Invoice struct {
	entity.Document

	StatusID id.ID `db:"status_id" json:"statusId"`

	// SourceOfferID is set when the invoice was promoted from an offer
	SourceOfferID *id.ID `db:"source_offer_id" json:"sourceOfferId,omitempty"`

	// Table part, owned with cascade delete
	Items lines.Items `db:"-" json:"items"`
}

// NewInvoice creates a new invoice dated today.
func NewInvoice(salesAreaID, clientID id.ID, createdBy string) *Invoice {
	return &Invoice{
		Document: entity.NewDocument(salesAreaID, clientID, createdBy),
		Items:    lines.Items{},
	}
}

// Total is the sum of the line amounts, recomputed on every call.
func (inv *Invoice) Total() types.Money {
	return inv.Items.Total()
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(inv.StatusID) {
		return apperror.NewValidation("status is required").
			WithDetail("field", "statusId")
	}
	return nil
}
