package dto

import (
	"billing/internal/core/types"
	"billing/internal/domain/reports"
)

// ComplianceQuery selects the report period. Invalid months are tolerated
// and replaced by the current month.
type ComplianceQuery struct {
	Month string `form:"month"`
	Year  string `form:"year"`
}

// ComplianceRow is one row of the compliance JSON.
type ComplianceRow struct {
	AreaID  *string `json:"area_id,omitempty"`
	Area    string  `json:"area"`
	IsTotal bool    `json:"is_total"`

	PlanMonth       types.Money `json:"plan_month"`
	ActualMonth     types.Money `json:"actual_month"`
	ComplianceMonth types.Money `json:"compliance_month"`

	PlanCumulative       types.Money `json:"plan_cumulative"`
	ActualCumulative     types.Money `json:"actual_cumulative"`
	ComplianceCumulative types.Money `json:"compliance_cumulative"`

	PlanAnnual       types.Money `json:"plan_annual"`
	ActualAnnual     types.Money `json:"actual_annual"`
	ComplianceAnnual types.Money `json:"compliance_annual"`
}

// ComplianceResponse is the compliance table of one month.
type ComplianceResponse struct {
	Success   bool            `json:"success"`
	Month     int             `json:"month"`
	MonthName string          `json:"month_name"`
	Year      int             `json:"year"`
	Areas     []ComplianceRow `json:"areas"`
}

// FromCompliance converts the domain table.
func FromCompliance(c *reports.Compliance) ComplianceResponse {
	return ComplianceResponse{
		Success:   true,
		Month:     c.Month,
		MonthName: c.MonthName,
		Year:      c.Year,
		Areas:     FromRows(c.Rows),
	}
}

// FromRows converts compliance rows.
func FromRows(rows []reports.Row) []ComplianceRow {
	out := make([]ComplianceRow, len(rows))
	for i, r := range rows {
		var areaID *string
		if r.AreaID != nil {
			s := r.AreaID.String()
			areaID = &s
		}
		out[i] = ComplianceRow{
			AreaID:               areaID,
			Area:                 r.AreaName,
			IsTotal:              r.IsTotal,
			PlanMonth:            r.PlanMonth,
			ActualMonth:          r.ActualMonth,
			ComplianceMonth:      r.ComplianceMonth,
			PlanCumulative:       r.PlanCumulative,
			ActualCumulative:     r.ActualCumulative,
			ComplianceCumulative: r.ComplianceCumulative,
			PlanAnnual:           r.PlanAnnual,
			ActualAnnual:         r.ActualAnnual,
			ComplianceAnnual:     r.ComplianceAnnual,
		}
	}
	return out
}

// CollectionCycle is the whole-company collection cycle metric.
type CollectionCycle struct {
	AccountsReceivable types.Money `json:"accounts_receivable"`
	YTDSales           types.Money `json:"ytd_sales"`
	DaysElapsed        int         `json:"days_elapsed"`
	Days               int         `json:"collection_cycle_days"`
}

// AreaSeries is the monthly recognized amount of one area.
type AreaSeries struct {
	AreaID  string          `json:"area_id"`
	Area    string          `json:"area"`
	Total   types.Money     `json:"total"`
	Monthly [12]types.Money `json:"monthly"`
}

// DashboardResponse is the main panel: counters, monthly series, the current
// month's compliance table and the collection cycle.
type DashboardResponse struct {
	Success   bool   `json:"success"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`

	ActiveClients   int64     `json:"active_clients"`
	InvoicesYear    int64     `json:"invoices_year"`
	InvoicesMonth   int64     `json:"invoices_month"`
	InvoicesByMonth [12]int64 `json:"invoices_by_month"`

	SignedCount int64       `json:"signed_count"`
	SignedTotal types.Money `json:"signed_total"`
	TotalBilled types.Money `json:"total_billed"`

	AmountByMonth [12]types.Money `json:"amount_by_month"`
	AmountByArea  []AreaSeries    `json:"amount_by_area"`

	Compliance      []ComplianceRow `json:"compliance"`
	CollectionCycle CollectionCycle `json:"collection_cycle"`
}

// FromDashboard converts the domain dashboard.
func FromDashboard(d *reports.Dashboard) DashboardResponse {
	areas := make([]AreaSeries, len(d.AmountByArea))
	for i, a := range d.AmountByArea {
		areas[i] = AreaSeries{
			AreaID:  a.AreaID.String(),
			Area:    a.AreaName,
			Total:   a.Total,
			Monthly: a.Monthly,
		}
	}
	return DashboardResponse{
		Success:         true,
		Year:            d.Year,
		Month:           d.Month,
		MonthName:       d.MonthName,
		ActiveClients:   d.ActiveClients,
		InvoicesYear:    d.InvoicesYear,
		InvoicesMonth:   d.InvoicesMonth,
		InvoicesByMonth: d.InvoicesByMonth,
		SignedCount:     d.SignedCount,
		SignedTotal:     d.SignedTotal,
		TotalBilled:     d.TotalBilled,
		AmountByMonth:   d.AmountByMonth,
		AmountByArea:    areas,
		Compliance:      FromRows(d.Compliance),
		CollectionCycle: CollectionCycle{
			AccountsReceivable: d.CollectionCycle.AccountsReceivable,
			YTDSales:           d.CollectionCycle.YTDSales,
			DaysElapsed:        d.CollectionCycle.DaysElapsed,
			Days:               d.CollectionCycle.Days,
		},
	}
}
