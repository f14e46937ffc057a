package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/internal/core/id"
)

type fakeRepo struct {
	plans    []PlanAmount
	sales    []InvoiceTotal
	statuses []StatusTotal
	err      error
	years    []int
}

func (f *fakeRepo) PlanAmounts(_ context.Context, year int) ([]PlanAmount, error) {
	f.years = append(f.years, year)
	return f.plans, f.err
}

func (f *fakeRepo) InvoiceTotals(_ context.Context, year int) ([]InvoiceTotal, error) {
	return f.sales, f.err
}

func (f *fakeRepo) StatusTotals(context.Context) ([]StatusTotal, error) {
	return f.statuses, f.err
}

type fakeAreas []Area

func (f fakeAreas) ListAreas(context.Context) ([]Area, error) { return f, nil }

type fakeClients int64

func (f fakeClients) CountActive(context.Context) (int64, error) { return int64(f), nil }

func fixedNow(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 10, 0, 0, 0, time.UTC) }
}

func TestService_ComplianceMonthFallback(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, fakeAreas{}, fakeClients(0), nil, fixedNow(2025, time.June, 15))

	got, err := svc.Compliance(context.Background(), 2024, 13)
	require.NoError(t, err)

	assert.Equal(t, 2024, got.Year)
	assert.Equal(t, 6, got.Month)
	assert.Equal(t, "Junio", got.MonthName)
	assert.Equal(t, []int{2024}, repo.years)
	require.Len(t, got.Rows, 1)
	assert.True(t, got.Rows[0].IsTotal)
}

func TestService_ComplianceRepoError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("db down")}
	svc := NewService(repo, fakeAreas{}, fakeClients(0), nil, nil)

	_, err := svc.Compliance(context.Background(), 2025, 1)
	assert.ErrorContains(t, err, "db down")
}

func TestService_Dashboard(t *testing.T) {
	norte := Area{ID: id.New(), Name: "Norte"}
	sur := Area{ID: id.New(), Name: "Sur"}
	repo := &fakeRepo{
		plans: []PlanAmount{{AreaID: norte.ID, Month: 3, Amount: money("1000")}},
		sales: []InvoiceTotal{
			{AreaID: norte.ID, Month: 1, StatusName: "PAGADA", Count: 2, Amount: money("200")},
			{AreaID: norte.ID, Month: 3, StatusName: "FIRMADA", Count: 1, Amount: money("500")},
			{AreaID: sur.ID, Month: 3, StatusName: "NO FIRMADA", Count: 4, Amount: money("800")},
			{AreaID: sur.ID, Month: 2, StatusName: "Anulada", Count: 1, Amount: money("50")},
		},
		statuses: []StatusTotal{
			{StatusName: "FIRMADA", Count: 3, Amount: money("900")},
			{StatusName: "PAGADA", Count: 2, Amount: money("200")},
			{StatusName: "NO FIRMADA", Count: 4, Amount: money("800")},
		},
	}
	// March 31 is 89 days after January 1.
	svc := NewService(repo, fakeAreas{norte, sur}, fakeClients(7), nil, fixedNow(2025, time.March, 31))

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2025, d.Year)
	assert.Equal(t, 3, d.Month)
	assert.Equal(t, "Marzo", d.MonthName)
	assert.Equal(t, int64(7), d.ActiveClients)
	assert.Equal(t, int64(8), d.InvoicesYear)
	assert.Equal(t, int64(5), d.InvoicesMonth)
	assert.Equal(t, int64(2), d.InvoicesByMonth[0])
	assert.Equal(t, int64(1), d.InvoicesByMonth[1])
	assert.Equal(t, int64(5), d.InvoicesByMonth[2])

	assert.Equal(t, int64(3), d.SignedCount)
	assertMoney(t, "900", d.SignedTotal, "signed total")

	// Everything not unsigned counts as billed.
	assertMoney(t, "750", d.TotalBilled, "total billed")

	assertMoney(t, "200", d.AmountByMonth[0], "january")
	assertMoney(t, "0", d.AmountByMonth[1], "february")
	assertMoney(t, "500", d.AmountByMonth[2], "march")

	require.Len(t, d.AmountByArea, 2)
	assertMoney(t, "700", d.AmountByArea[0].Total, "norte")
	assertMoney(t, "0", d.AmountByArea[1].Total, "sur")

	require.Len(t, d.Compliance, 3)
	assertMoney(t, "50", d.Compliance[0].ComplianceMonth, "norte ratio")

	assert.Equal(t, 89, d.CollectionCycle.DaysElapsed)
	assertMoney(t, "900", d.CollectionCycle.AccountsReceivable, "ar")
	// floor(900 / 750 × 89) = 106
	assert.Equal(t, 106, d.CollectionCycle.Days)
}

func TestService_CollectionCycle(t *testing.T) {
	repo := &fakeRepo{
		sales:    []InvoiceTotal{{Month: 1, StatusName: "PAGADA", Amount: money("1000")}},
		statuses: []StatusTotal{{StatusName: "FIRMADA", Amount: money("100")}},
	}
	svc := NewService(repo, fakeAreas{}, fakeClients(0), nil, fixedNow(2025, time.January, 11))

	c, err := svc.CollectionCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, c.DaysElapsed)
	assert.Equal(t, 1, c.Days)
}

func TestService_NormalizePeriod(t *testing.T) {
	svc := NewService(&fakeRepo{}, fakeAreas{}, fakeClients(0), nil, fixedNow(2026, time.October, 1))

	y, m := svc.NormalizePeriod(0, 0)
	assert.Equal(t, 2026, y)
	assert.Equal(t, 10, m)

	y, m = svc.NormalizePeriod(2024, 2)
	assert.Equal(t, 2024, y)
	assert.Equal(t, 2, m)
}
