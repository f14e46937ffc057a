package reports

import (
	"github.com/shopspring/decimal"

	"billing/internal/core/id"
	"billing/internal/core/types"
)

// RatioScale is the number of decimals kept on compliance percentages.
const RatioScale int32 = 2

// ComputeCompliance builds one row per area, in the given order, plus a TOTAL
// row. Actuals skip invoices whose status classifies as unsigned. Annual
// figures cover the whole year. Empty input yields only a zero TOTAL row.
func ComputeCompliance(areas []Area, plans []PlanAmount, sales []InvoiceTotal, month int, cls *Classifier) []Row {
	type sums struct {
		planMonth, planCum, planYear       types.Money
		actualMonth, actualCum, actualYear types.Money
	}
	byArea := make(map[id.ID]*sums, len(areas))
	for _, a := range areas {
		byArea[a.ID] = &sums{}
	}

	for _, p := range plans {
		s, ok := byArea[p.AreaID]
		if !ok {
			continue
		}
		s.planYear = s.planYear.Add(p.Amount)
		if p.Month <= month {
			s.planCum = s.planCum.Add(p.Amount)
		}
		if p.Month == month {
			s.planMonth = s.planMonth.Add(p.Amount)
		}
	}

	for _, t := range sales {
		s, ok := byArea[t.AreaID]
		if !ok || !cls.Classify(t.StatusName).Recognized() {
			continue
		}
		s.actualYear = s.actualYear.Add(t.Amount)
		if t.Month <= month {
			s.actualCum = s.actualCum.Add(t.Amount)
		}
		if t.Month == month {
			s.actualMonth = s.actualMonth.Add(t.Amount)
		}
	}

	rows := make([]Row, 0, len(areas)+1)
	total := Row{AreaName: TotalLabel, IsTotal: true}
	for _, a := range areas {
		s := byArea[a.ID]
		areaID := a.ID
		row := Row{
			AreaID:           &areaID,
			AreaName:         a.Name,
			PlanMonth:        s.planMonth,
			ActualMonth:      s.actualMonth,
			PlanCumulative:   s.planCum,
			ActualCumulative: s.actualCum,
			PlanAnnual:       s.planYear,
			ActualAnnual:     s.actualYear,
		}
		row.computeRatios()
		rows = append(rows, row)

		total.PlanMonth = total.PlanMonth.Add(row.PlanMonth)
		total.ActualMonth = total.ActualMonth.Add(row.ActualMonth)
		total.PlanCumulative = total.PlanCumulative.Add(row.PlanCumulative)
		total.ActualCumulative = total.ActualCumulative.Add(row.ActualCumulative)
		total.PlanAnnual = total.PlanAnnual.Add(row.PlanAnnual)
		total.ActualAnnual = total.ActualAnnual.Add(row.ActualAnnual)
	}
	// Ratios of the TOTAL row come from the summed fields, not from averaging.
	total.computeRatios()
	return append(rows, total)
}

func (r *Row) computeRatios() {
	r.ComplianceMonth = ratio(r.ActualMonth, r.PlanMonth)
	r.ComplianceCumulative = ratio(r.ActualCumulative, r.PlanCumulative)
	r.ComplianceAnnual = ratio(r.ActualAnnual, r.PlanAnnual)
}

func ratio(actual, plan types.Money) types.Money {
	return types.Percent(actual, plan).Round(RatioScale)
}

// ComputeCollectionCycle returns floor(AR / ytd × days), or 0 when ytd or days is not positive.
func ComputeCollectionCycle(ar, ytd types.Money, days int) CollectionCycle {
	c := CollectionCycle{AccountsReceivable: ar, YTDSales: ytd, DaysElapsed: days}
	if ytd.IsPositive() && days > 0 {
		c.Days = int(ar.Mul(decimal.NewFromInt(int64(days))).Div(ytd).Floor().IntPart())
	}
	return c
}
