package invoice

import (
	"context"
	"time"

	"billing/internal/core/id"
	"billing/internal/core/types"
	"billing/internal/domain"
	"billing/internal/domain/documents/lines"
)

// Repository defines operations for invoice documents.
type Repository interface {
	// Create inserts the header. A taken number is a NUMBER_COLLISION conflict.
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error

	// Delete removes the invoice and, by cascade, its items.
	Delete(ctx context.Context, invoiceID id.ID) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[Summary], error)

	// Locking
	GetForUpdate(ctx context.Context, invoiceID id.ID) (*Invoice, error)

	lines.Store
}

// ListFilter for filtering invoices. Search matches the number, client name and area name.
type ListFilter struct {
	domain.ListFilter

	// StatusID or StatusName (case-insensitive); StatusID wins when both are set
	StatusID   *id.ID
	StatusName string

	SalesAreaID   *id.ID
	ClientID      *id.ID
	SourceOfferID *id.ID
	DateFrom      *time.Time
	DateTo        *time.Time
}

// Summary is one row of an invoice listing, with the computed total.
type Summary struct {
	ID            id.ID       `db:"id" json:"id"`
	Number        string      `db:"number" json:"number"`
	Date          *time.Time  `db:"date" json:"date"`
	AreaID        id.ID       `db:"sales_area_id" json:"salesAreaId"`
	AreaName      string      `db:"area_name" json:"areaName"`
	ClientID      id.ID       `db:"client_id" json:"clientId"`
	ClientName    string      `db:"client_name" json:"clientName"`
	StatusID      id.ID       `db:"status_id" json:"statusId"`
	StatusName    string      `db:"status_name" json:"statusName"`
	SourceOfferID *id.ID      `db:"source_offer_id" json:"sourceOfferId,omitempty"`
	Total         types.Money `db:"total" json:"total"`
}
