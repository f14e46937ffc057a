// Package offer provides the Offer document: a commercial quote that can be promoted to an invoice.
package offer

import (
	"context"

	"billing/internal/core/entity"
	"billing/internal/core/id"
	"billing/internal/core/types"
	"billing/internal/domain/documents/lines"
)

// Offer is a quote. Its number has the form YYYYNNNNN and the date is set at creation.
type Offer struct {
	entity.Document

	// StatusID tracks the offer lifecycle (optional)
	StatusID *id.ID `db:"status_id" json:"statusId,omitempty"`

	// Table part, owned with cascade delete
	Items lines.Items `db:"-" json:"items"`
}

// NewOffer creates a new offer dated today.
func NewOffer(salesAreaID, clientID id.ID, createdBy string) *Offer {
	return &Offer{
		Document: entity.NewDocument(salesAreaID, clientID, createdBy),
		Items:    lines.Items{},
	}
}

// Total is the sum of the line amounts.
func (o *Offer) Total() types.Money {
	return o.Items.Total()
}

// Validate implements entity.Validatable.
func (o *Offer) Validate(ctx context.Context) error {
	return o.Document.Validate(ctx)
}
