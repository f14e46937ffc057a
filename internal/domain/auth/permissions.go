package auth

import (
	appctx "billing/internal/core/context"
)

// Permission codes checked by the HTTP layer.
const (
	PermActivitiesView = "activities:view"
	PermActivitiesEdit = "activities:edit"
	PermClientsView    = "clients:view"
	PermClientsEdit    = "clients:edit"
	PermAreasView      = "sales_areas:view"
	PermAreasEdit      = "sales_areas:edit"
	PermStatusesView   = "statuses:view"
	PermStatusesEdit   = "statuses:edit"
	PermCompanyView    = "company:view"
	PermCompanyEdit    = "company:edit"
	PermPlansView      = "plans:view"
	PermPlansEdit      = "plans:edit"
	PermOffersView     = "offers:view"
	PermOffersEdit     = "offers:edit"
	PermOffersPromote  = "offers:promote"
	PermInvoicesView   = "invoices:view"
	PermInvoicesEdit   = "invoices:edit"
	PermInvoicesExport = "invoices:export"
	PermReportsView    = "reports:view"
	PermActivityLog    = "activity_log:view"
)

var knownPermissions = map[string]struct{}{
	appctx.PermissionAll: {},
	PermActivitiesView:   {},
	PermActivitiesEdit:   {},
	PermClientsView:      {},
	PermClientsEdit:      {},
	PermAreasView:        {},
	PermAreasEdit:        {},
	PermStatusesView:     {},
	PermStatusesEdit:     {},
	PermCompanyView:      {},
	PermCompanyEdit:      {},
	PermPlansView:        {},
	PermPlansEdit:        {},
	PermOffersView:       {},
	PermOffersEdit:       {},
	PermOffersPromote:    {},
	PermInvoicesView:     {},
	PermInvoicesEdit:     {},
	PermInvoicesExport:   {},
	PermReportsView:      {},
	PermActivityLog:      {},
}

// IsKnownPermission reports whether code is a defined permission or the wildcard.
func IsKnownPermission(code string) bool {
	_, ok := knownPermissions[code]
	return ok
}
