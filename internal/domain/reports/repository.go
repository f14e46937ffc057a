package reports

import (
	"context"
)

// Repository defines report data access interface.
type Repository interface {
	// PlanAmounts returns every plan of the year.
	PlanAmounts(ctx context.Context, year int) ([]PlanAmount, error)

	// InvoiceTotals groups the invoices dated in year by area, month and status name.
	InvoiceTotals(ctx context.Context, year int) ([]InvoiceTotal, error)

	// StatusTotals groups all invoices by status name regardless of date.
	StatusTotals(ctx context.Context) ([]StatusTotal, error)
}

// AreaLister returns the sales areas ordered by name.
type AreaLister interface {
	ListAreas(ctx context.Context) ([]Area, error)
}

// ClientCounter counts active clients.
type ClientCounter interface {
	CountActive(ctx context.Context) (int64, error)
}
