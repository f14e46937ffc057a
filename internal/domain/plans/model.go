// Package plans provides the monthly sales plan registry per sales area.
package plans

import (
	"context"

	"billing/internal/core/apperror"
	"billing/internal/core/calendar"
	"billing/internal/core/entity"
	"billing/internal/core/id"
	"billing/internal/core/types"
)

const (
	MinYear = 2000
	MaxYear = 2100
)

// Plan is the sales target of one area for one (year, month).
type Plan struct {
	entity.BaseEntity

	SalesAreaID id.ID       `db:"sales_area_id" json:"salesAreaId"`
	Year        int         `db:"year" json:"year"`
	Month       int         `db:"month" json:"month"`
	Amount      types.Money `db:"amount" json:"amount"`
}

// NewPlan creates a new Plan.
func NewPlan(areaID id.ID, year, month int, amount types.Money) *Plan {
	return &Plan{
		BaseEntity:  entity.NewBaseEntity(),
		SalesAreaID: areaID,
		Year:        year,
		Month:       month,
		Amount:      amount,
	}
}

// MonthName returns the Spanish month name of the plan.
func (p *Plan) MonthName() string {
	return calendar.MonthName(p.Month)
}

// Validate implements entity.Validatable interface.
func (p *Plan) Validate(ctx context.Context) error {
	if id.IsNil(p.SalesAreaID) {
		return apperror.NewValidation("sales area is required").
			WithDetail("field", "salesAreaId")
	}
	if p.Year < MinYear || p.Year > MaxYear {
		return apperror.NewValidation("year out of range").
			WithDetail("field", "year").
			WithDetail("min", MinYear).
			WithDetail("max", MaxYear)
	}
	if !calendar.ValidMonth(p.Month) {
		return apperror.NewValidation("month must be between 1 and 12").
			WithDetail("field", "month")
	}
	return validateAmount(p.Amount)
}

func validateAmount(amount types.Money) error {
	if amount.IsNegative() {
		return apperror.NewValidation("amount cannot be negative").
			WithDetail("field", "amount")
	}
	return nil
}
