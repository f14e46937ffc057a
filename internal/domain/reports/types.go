// Package reports computes plan-vs-actual compliance, the collection cycle
// and the dashboard figures from plans and invoice totals.
package reports

import (
	"billing/internal/core/id"
	"billing/internal/core/types"
)

// TotalLabel is the area name of the summary row.
const TotalLabel = "TOTAL"

// Area is one row key of the compliance table.
type Area struct {
	ID   id.ID  `db:"id"`
	Name string `db:"name"`
}

// PlanAmount is the plan of an area for one month.
type PlanAmount struct {
	AreaID id.ID       `db:"sales_area_id"`
	Month  int         `db:"month"`
	Amount types.Money `db:"amount"`
}

// InvoiceTotal aggregates the invoices of one area, month and status.
type InvoiceTotal struct {
	AreaID     id.ID       `db:"sales_area_id"`
	Month      int         `db:"month"`
	StatusName string      `db:"status_name"`
	Count      int64       `db:"invoice_count"`
	Amount     types.Money `db:"amount"`
}

// StatusTotal aggregates all invoices of one status regardless of date.
type StatusTotal struct {
	StatusName string      `db:"status_name"`
	Count      int64       `db:"invoice_count"`
	Amount     types.Money `db:"amount"`
}

// Row is one line of the compliance table. Ratios are percentages.
type Row struct {
	AreaID   *id.ID
	AreaName string

	PlanMonth       types.Money
	ActualMonth     types.Money
	ComplianceMonth types.Money

	PlanCumulative       types.Money
	ActualCumulative     types.Money
	ComplianceCumulative types.Money

	PlanAnnual       types.Money
	ActualAnnual     types.Money
	ComplianceAnnual types.Money

	IsTotal bool
}

// CollectionCycle estimates the days receivables take to turn into sales.
type CollectionCycle struct {
	AccountsReceivable types.Money
	YTDSales           types.Money
	DaysElapsed        int
	Days               int
}

// Compliance is the compliance table of one month.
type Compliance struct {
	Year      int
	Month     int
	MonthName string
	Rows      []Row
}

// AreaSeries is the charted amount of one area per month.
type AreaSeries struct {
	AreaID   id.ID
	AreaName string
	Total    types.Money
	Monthly  [12]types.Money
}

// Dashboard bundles the figures of the main panel.
type Dashboard struct {
	Year      int
	Month     int
	MonthName string

	ActiveClients   int64
	InvoicesYear    int64
	InvoicesMonth   int64
	InvoicesByMonth [12]int64

	SignedCount int64
	SignedTotal types.Money
	TotalBilled types.Money

	AmountByMonth [12]types.Money
	AmountByArea  []AreaSeries

	Compliance      []Row
	CollectionCycle CollectionCycle
}
