package offer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/internal/core/apperror"
	"billing/internal/core/numerator"
	"billing/internal/core/tx"
	"billing/internal/core/types"
	"billing/internal/domain/audit"
	"billing/internal/domain/catalogs/status"
	"billing/internal/domain/documents/doctest"
	"billing/internal/domain/documents/invoice"
	"billing/internal/domain/documents/lines"
)

type testEnv struct {
	svc      *Service
	repo     *MemoryRepo
	invoices *invoice.Service
	invRepo  *invoice.MemoryRepo
	fx       *doctest.Fixtures
	rec      *audit.MemoryRecorder
}

func newTestEnv() *testEnv {
	fx := doctest.New()
	gen := &numerator.MockGenerator{}
	rec := &audit.MemoryRecorder{}

	invRepo := invoice.NewMemoryRepo()
	invoices := invoice.NewService(invoice.Config{
		Repo:          invRepo,
		Refs:          fx.Resolver(),
		Activities:    fx.ActivityReader(),
		Numerator:     gen,
		TxManager:     tx.NoopManager{},
		Recorder:      rec,
		DefaultStatus: status.Unsigned,
	})

	repo := NewMemoryRepo()
	svc := NewService(Config{
		Repo:       repo,
		Refs:       fx.Resolver(),
		Activities: fx.ActivityReader(),
		Numerator:  gen,
		TxManager:  tx.NoopManager{},
		Recorder:   rec,
		Invoices:   invoices,
	})
	return &testEnv{svc: svc, repo: repo, invoices: invoices, invRepo: invRepo, fx: fx, rec: rec}
}

func (e *testEnv) createOffer(t *testing.T, items ...lines.Input) *Offer {
	t.Helper()
	notes := "quote for Q3"
	o, err := e.svc.Create(context.Background(), CreateInput{
		SalesAreaID: e.fx.Area.ID,
		ClientID:    e.fx.Client.ID,
		Notes:       &notes,
		Items:       items,
		CreatedBy:   "user-1",
	})
	require.NoError(t, err)
	return o
}

func TestService_CreateNumbersAndDates(t *testing.T) {
	env := newTestEnv()
	year := time.Now().UTC().Year()

	first := env.createOffer(t)
	second := env.createOffer(t)

	assert.Equal(t, numerator.OfferConfig().Format(year, 1), first.Number)
	assert.Equal(t, numerator.OfferConfig().Format(year, 2), second.Number)
	assert.Len(t, first.Number, 9)
	require.NotNil(t, first.Date)
	assert.True(t, first.Date.Equal(time.Date(year, time.Now().UTC().Month(), time.Now().UTC().Day(), 0, 0, 0, 0, time.UTC)))
}

func TestService_AddItemDuplicateActivity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	o := env.createOffer(t, lines.Input{ActivityID: env.fx.Activity.ID, Quantity: 1})

	_, err := env.svc.AddItem(ctx, o.ID, env.fx.Activity.ID, 2)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicateActivity))

	_, err = env.svc.AddItem(ctx, o.ID, env.fx.AddActivity("A2", "5").ID, 0)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestService_PromoteToInvoice(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	second := env.fx.AddActivity("A2", "33.33")

	o := env.createOffer(t,
		lines.Input{ActivityID: env.fx.Activity.ID, Quantity: 2},
		lines.Input{ActivityID: second.ID, Quantity: 3},
	)
	before, err := env.svc.GetByID(ctx, o.ID)
	require.NoError(t, err)

	// Later price changes do not leak into the promoted invoice.
	env.fx.Activity.UnitPrice = types.MustMoney("999")

	inv, err := env.svc.PromoteToInvoice(ctx, o.ID, "user-2")
	require.NoError(t, err)

	assert.Equal(t, o.SalesAreaID, inv.SalesAreaID)
	assert.Equal(t, o.ClientID, inv.ClientID)
	assert.Equal(t, *o.Notes, *inv.Notes)
	assert.Equal(t, env.fx.Unsigned.ID, inv.StatusID)
	require.NotNil(t, inv.SourceOfferID)
	assert.Equal(t, o.ID, *inv.SourceOfferID)
	assert.Regexp(t, `^\d{4}-\d{4}$`, inv.Number)

	stored, err := env.invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	for i, it := range stored.Items {
		assert.Equal(t, before.Items[i].ActivityID, it.ActivityID)
		assert.Equal(t, before.Items[i].Quantity, it.Quantity)
		assert.True(t, before.Items[i].UnitPrice.Equal(it.UnitPrice))
		assert.True(t, before.Items[i].LineAmount.Equal(it.LineAmount))
	}
	assert.True(t, stored.Total().Equal(before.Total()))
	assert.Equal(t, "119.99", types.FormatMoney(stored.Total()))

	after, err := env.svc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Number, after.Number)
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, before.Items, after.Items)
}

func TestService_PromoteTwiceCreatesTwoInvoices(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	o := env.createOffer(t, lines.Input{ActivityID: env.fx.Activity.ID, Quantity: 1})

	a, err := env.svc.PromoteToInvoice(ctx, o.ID, "u")
	require.NoError(t, err)
	b, err := env.svc.PromoteToInvoice(ctx, o.ID, "u")
	require.NoError(t, err)
	assert.NotEqual(t, a.Number, b.Number)

	derived, err := env.invoices.ListBySourceOffer(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, derived, 2)
}

func TestService_RemoveItemFromOtherOffer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	a := env.createOffer(t, lines.Input{ActivityID: env.fx.Activity.ID, Quantity: 1})
	b := env.createOffer(t)

	aFull, err := env.svc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	err = env.svc.RemoveItem(ctx, b.ID, aFull.Items[0].ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_UpdateHeader(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	o := env.createOffer(t)
	south := env.fx.AddArea("Sur")
	sent := env.fx.AddStatus("Enviada")

	updated, err := env.svc.Update(ctx, o.ID, UpdateInput{
		SalesAreaID: south.ID,
		ClientID:    o.ClientID,
		StatusID:    &sent.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, south.ID, updated.SalesAreaID)
	assert.Equal(t, o.Number, updated.Number)
	assert.Nil(t, updated.Notes)
	assert.Contains(t, env.rec.Actions(), "offer.update")
}

func TestService_CreateSkipsLegacyNumbers(t *testing.T) {
	ctx := context.Background()
	fx := doctest.New()
	repo := NewMemoryRepo()
	counter := doctest.NewTxCounter()
	svc := NewService(Config{
		Repo:       repo,
		Refs:       fx.Resolver(),
		Activities: fx.ActivityReader(),
		Numerator:  counter,
		TxManager:  counter,
	})

	cfg := numerator.OfferConfig()
	legacy := NewOffer(fx.Area.ID, fx.Client.ID, "import")
	legacy.Number = cfg.Format(time.Now().UTC().Year(), 1)
	require.NoError(t, repo.Create(ctx, legacy))

	o, err := svc.Create(ctx, CreateInput{SalesAreaID: fx.Area.ID, ClientID: fx.Client.ID, CreatedBy: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, cfg.Format(o.Year(), 2), o.Number)
}
