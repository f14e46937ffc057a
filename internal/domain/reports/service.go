package reports

import (
	"context"
	"fmt"
	"time"

	"billing/internal/core/calendar"
	"billing/internal/core/types"
)

// Service provides report generation operations.
type Service struct {
	repo       Repository
	areas      AreaLister
	clients    ClientCounter
	classifier *Classifier
	now        func() time.Time
}

// NewService creates a new reports service. now defaults to time.Now.
func NewService(repo Repository, areas AreaLister, clients ClientCounter, classifier *Classifier, now func() time.Time) *Service {
	if classifier == nil {
		classifier = MustDefaultClassifier()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, areas: areas, clients: clients, classifier: classifier, now: now}
}

// Today returns the current date used for defaults.
func (s *Service) Today() time.Time {
	return s.now()
}

// NormalizePeriod replaces a month outside 1..12 with the current month and
// a non-positive year with the current year.
func (s *Service) NormalizePeriod(year, month int) (int, int) {
	now := s.now()
	if !calendar.ValidMonth(month) {
		month = int(now.Month())
	}
	if year <= 0 {
		year = now.Year()
	}
	return year, month
}

// Compliance computes the compliance table of one month.
func (s *Service) Compliance(ctx context.Context, year, month int) (*Compliance, error) {
	year, month = s.NormalizePeriod(year, month)

	areas, err := s.areas.ListAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	plans, err := s.repo.PlanAmounts(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("plan amounts: %w", err)
	}
	sales, err := s.repo.InvoiceTotals(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("invoice totals: %w", err)
	}

	return &Compliance{
		Year:      year,
		Month:     month,
		MonthName: calendar.MonthName(month),
		Rows:      ComputeCompliance(areas, plans, sales, month, s.classifier),
	}, nil
}

// CollectionCycle computes the collection cycle as of today.
func (s *Service) CollectionCycle(ctx context.Context) (CollectionCycle, error) {
	today := s.now()
	sales, err := s.repo.InvoiceTotals(ctx, today.Year())
	if err != nil {
		return CollectionCycle{}, fmt.Errorf("invoice totals: %w", err)
	}
	statuses, err := s.repo.StatusTotals(ctx)
	if err != nil {
		return CollectionCycle{}, fmt.Errorf("status totals: %w", err)
	}
	return s.cycle(today, sales, statuses), nil
}

func (s *Service) cycle(today time.Time, sales []InvoiceTotal, statuses []StatusTotal) CollectionCycle {
	ar := types.Zero()
	for _, st := range statuses {
		if s.classifier.Classify(st.StatusName).Receivable {
			ar = ar.Add(st.Amount)
		}
	}
	ytd := types.Zero()
	for _, t := range sales {
		if s.classifier.Classify(t.StatusName).Recognized() {
			ytd = ytd.Add(t.Amount)
		}
	}
	return ComputeCollectionCycle(ar, ytd, calendar.DaysSinceYearStart(today))
}

// Dashboard gathers the main panel figures for the current year and month.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	today := s.now()
	year, month := today.Year(), int(today.Month())

	areas, err := s.areas.ListAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	plans, err := s.repo.PlanAmounts(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("plan amounts: %w", err)
	}
	sales, err := s.repo.InvoiceTotals(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("invoice totals: %w", err)
	}
	statuses, err := s.repo.StatusTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("status totals: %w", err)
	}
	activeClients, err := s.clients.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count clients: %w", err)
	}

	d := &Dashboard{
		Year:          year,
		Month:         month,
		MonthName:     calendar.MonthName(month),
		ActiveClients: activeClients,
		SignedTotal:   types.Zero(),
		TotalBilled:   types.Zero(),
		Compliance:    ComputeCompliance(areas, plans, sales, month, s.classifier),
		AmountByArea:  make([]AreaSeries, 0, len(areas)),
	}
	d.CollectionCycle = s.cycle(today, sales, statuses)
	d.TotalBilled = d.CollectionCycle.YTDSales

	for _, st := range statuses {
		if s.classifier.Classify(st.StatusName).Receivable {
			d.SignedCount += st.Count
			d.SignedTotal = d.SignedTotal.Add(st.Amount)
		}
	}

	seriesIdx := make(map[string]int, len(areas))
	for i, a := range areas {
		seriesIdx[a.ID.String()] = i
		d.AmountByArea = append(d.AmountByArea, AreaSeries{AreaID: a.ID, AreaName: a.Name, Total: types.Zero()})
	}
	for i := range d.AmountByMonth {
		d.AmountByMonth[i] = types.Zero()
	}

	for _, t := range sales {
		if !calendar.ValidMonth(t.Month) {
			continue
		}
		d.InvoicesYear += t.Count
		d.InvoicesByMonth[t.Month-1] += t.Count
		if t.Month == month {
			d.InvoicesMonth += t.Count
		}
		if !s.classifier.Classify(t.StatusName).Charted() {
			continue
		}
		d.AmountByMonth[t.Month-1] = d.AmountByMonth[t.Month-1].Add(t.Amount)
		if i, ok := seriesIdx[t.AreaID.String()]; ok {
			series := &d.AmountByArea[i]
			series.Monthly[t.Month-1] = series.Monthly[t.Month-1].Add(t.Amount)
			series.Total = series.Total.Add(t.Amount)
		}
	}
	return d, nil
}
