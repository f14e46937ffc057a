package entity

import (
	"context"
	"time"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
)

// Document is the base type for offers and invoices.
type Document struct {
	BaseEntity

	// Number is assigned once at creation and never changes
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date *time.Time `db:"date" json:"date"`

	SalesAreaID id.ID   `db:"sales_area_id" json:"salesAreaId"`
	ClientID    id.ID   `db:"client_id" json:"clientId"`
	Notes       *string `db:"notes" json:"notes,omitempty"`

	CreatedBy string `db:"created_by" json:"createdBy,omitempty"`
}

// NotesMaxLength bounds the free-text notes on documents.
const NotesMaxLength = 500

// NewDocument creates a new Document dated today.
func NewDocument(salesAreaID, clientID id.ID, createdBy string) Document {
	today := Today()
	return Document{
		BaseEntity:  NewBaseEntity(),
		Date:        &today,
		SalesAreaID: salesAreaID,
		ClientID:    clientID,
		CreatedBy:   createdBy,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if id.IsNil(d.SalesAreaID) {
		return apperror.NewValidation("sales area is required").
			WithDetail("field", "salesAreaId")
	}
	if id.IsNil(d.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}
	if d.Notes != nil && len([]rune(*d.Notes)) > NotesMaxLength {
		return apperror.NewValidation("notes are too long").
			WithDetail("field", "notes").
			WithDetail("max", NotesMaxLength)
	}
	return nil
}

// Year returns the calendar year used for numbering.
func (d *Document) Year() int {
	if d.Date != nil {
		return d.Date.Year()
	}
	return d.CreatedAt.Year()
}

// Today returns the current date at UTC midnight.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
