package dto

import (
	"billing/internal/core/id"
	"billing/internal/core/types"
	"billing/internal/domain/plans"
)

// PlanFilterQuery filters the plan listing.
type PlanFilterQuery struct {
	SalesAreaID string `form:"salesAreaId" binding:"omitempty,uuid"`
	Year        int    `form:"year" binding:"omitempty,gte=2000,lte=2100"`
	Month       int    `form:"month" binding:"omitempty,gte=1,lte=12"`
}

// CreatePlanRequest registers a monthly plan.
type CreatePlanRequest struct {
	SalesAreaID id.ID        `json:"salesAreaId" binding:"required"`
	Year        int          `json:"year" binding:"required,gte=2000,lte=2100"`
	Month       int          `json:"month" binding:"required,gte=1,lte=12"`
	Amount      *types.Money `json:"amount" binding:"required"`
}

// ToPlan builds the plan.
func (r CreatePlanRequest) ToPlan() *plans.Plan {
	return plans.NewPlan(r.SalesAreaID, r.Year, r.Month, *r.Amount)
}

// UpdatePlanRequest changes the planned amount. Area and period are fixed.
type UpdatePlanRequest struct {
	Amount *types.Money `json:"amount" binding:"required"`
}

// PlanResponse adds the Spanish month name.
type PlanResponse struct {
	*plans.Plan
	MonthName string `json:"monthName"`
}

// FromPlan creates the response of p.
func FromPlan(p *plans.Plan) PlanResponse {
	return PlanResponse{Plan: p, MonthName: p.MonthName()}
}
