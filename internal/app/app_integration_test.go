//go:build integration

package app_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"billing/internal/app"
	"billing/internal/config"
	corenumerator "billing/internal/core/numerator"
	"billing/internal/core/types"
	"billing/internal/domain/catalogs/activity"
	"billing/internal/domain/catalogs/client"
	"billing/internal/domain/catalogs/salesarea"
	"billing/internal/domain/catalogs/status"
	"billing/internal/domain/documents/invoice"
	"billing/internal/domain/documents/lines"
	"billing/internal/domain/documents/offer"
	"billing/pkg/logger"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("billing_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			URL:            dsn,
			MaxConns:       20,
			MigrateOnStart: true,
		},
		Numbering: config.NumberingConfig{RetryAttempts: 3},
		Drafts:    config.DraftsConfig{TTL: time.Hour},
		Invoices:  config.InvoicesConfig{DefaultStatus: status.Unsigned},
	}

	a, err := app.New(ctx, cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	_, err = a.Status.Seed(ctx)
	require.NoError(t, err)
	return a
}

type refs struct {
	area     *salesarea.SalesArea
	client   *client.Client
	activity *activity.Activity
}

func createRefs(t *testing.T, a *app.App) refs {
	t.Helper()
	ctx := context.Background()

	area := salesarea.NewSalesArea("Norte")
	require.NoError(t, a.Areas.Create(ctx, area))

	c := client.NewClient("ACME", "C-001")
	require.NoError(t, a.Clients.Create(ctx, c))

	act := activity.NewActivity("A1", "Consulting", types.MustMoney("12.50"))
	require.NoError(t, a.Activities.Create(ctx, act))

	return refs{area: area, client: c, activity: act}
}

func TestConcurrentInvoiceNumbering(t *testing.T) {
	a := newTestApp(t)
	r := createRefs(t, a)
	ctx := context.Background()

	const workers = 20
	numbers := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inv, err := a.Invoices.Create(ctx, invoice.CreateInput{
				SalesAreaID: r.area.ID,
				ClientID:    r.client.ID,
				Items:       []lines.Input{{ActivityID: r.activity.ID, Quantity: 2}},
			})
			errs[i] = err
			if err == nil {
				numbers[i] = inv.Number
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	year := time.Now().Year()
	want := make([]string, workers)
	for i := range want {
		want[i] = corenumerator.InvoiceConfig().Format(year, int64(i+1))
	}
	sort.Strings(numbers)
	assert.Equal(t, want, numbers)
}

func TestNumberingSetNext(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	cfg := corenumerator.OfferConfig()

	require.NoError(t, a.Numerator.SetNext(ctx, cfg, 2030, 500))

	n, err := a.Numerator.Next(ctx, cfg, 2030)
	require.NoError(t, err)
	assert.Equal(t, "203000500", n)
}

func TestPromoteOfferCopiesLines(t *testing.T) {
	a := newTestApp(t)
	r := createRefs(t, a)
	ctx := context.Background()

	o, err := a.Offers.Create(ctx, offer.CreateInput{
		SalesAreaID: r.area.ID,
		ClientID:    r.client.ID,
		Items:       []lines.Input{{ActivityID: r.activity.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	inv, err := a.Offers.PromoteToInvoice(ctx, o.ID, "")
	require.NoError(t, err)
	require.NotNil(t, inv.SourceOfferID)
	assert.Equal(t, o.ID, *inv.SourceOfferID)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "37.50", types.FormatMoney(inv.Total()))

	derived, err := a.Invoices.ListBySourceOffer(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, derived, 1)
}

func TestInvoiceNumberSkipsRowsAboveCounter(t *testing.T) {
	a := newTestApp(t)
	r := createRefs(t, a)
	ctx := context.Background()
	in := invoice.CreateInput{SalesAreaID: r.area.ID, ClientID: r.client.ID}

	first, err := a.Invoices.Create(ctx, in)
	require.NoError(t, err)

	cfg := corenumerator.InvoiceConfig()
	require.NoError(t, a.Numerator.SetNext(ctx, cfg, first.Year(), 1))

	second, err := a.Invoices.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, cfg.Format(first.Year(), 2), second.Number)
}
