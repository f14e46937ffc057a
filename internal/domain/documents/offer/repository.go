package offer

import (
	"context"
	"time"

	"billing/internal/core/id"
	"billing/internal/core/types"
	"billing/internal/domain"
	"billing/internal/domain/documents/lines"
)

// Repository defines operations for offer documents.
type Repository interface {
	// Create inserts the header. A taken number is a NUMBER_COLLISION conflict.
	Create(ctx context.Context, o *Offer) error
	GetByID(ctx context.Context, offerID id.ID) (*Offer, error)
	Update(ctx context.Context, o *Offer) error

	// Delete removes the offer and, by cascade, its items.
	Delete(ctx context.Context, offerID id.ID) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[Summary], error)

	// Locking
	GetForUpdate(ctx context.Context, offerID id.ID) (*Offer, error)

	lines.Store
}

// ListFilter for filtering offers.
type ListFilter struct {
	domain.ListFilter

	SalesAreaID *id.ID
	ClientID    *id.ID
	DateFrom    *time.Time
	DateTo      *time.Time
}

// Summary is one row of an offer listing.
type Summary struct {
	ID         id.ID       `db:"id" json:"id"`
	Number     string      `db:"number" json:"number"`
	Date       *time.Time  `db:"date" json:"date"`
	AreaID     id.ID       `db:"sales_area_id" json:"salesAreaId"`
	AreaName   string      `db:"area_name" json:"areaName"`
	ClientID   id.ID       `db:"client_id" json:"clientId"`
	ClientName string      `db:"client_name" json:"clientName"`
	StatusName *string     `db:"status_name" json:"statusName,omitempty"`
	Total      types.Money `db:"total" json:"total"`
}
