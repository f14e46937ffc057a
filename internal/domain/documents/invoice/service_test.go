package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/core/numerator"
	"billing/internal/core/tx"
	"billing/internal/core/types"
	"billing/internal/domain/audit"
	"billing/internal/domain/catalogs/status"
	"billing/internal/domain/documents/doctest"
	"billing/internal/domain/documents/lines"
)

type testEnv struct {
	svc  *Service
	repo *MemoryRepo
	fx   *doctest.Fixtures
	gen  *numerator.MockGenerator
	rec  *audit.MemoryRecorder
}

func newTestEnv() *testEnv {
	fx := doctest.New()
	repo := NewMemoryRepo()
	gen := &numerator.MockGenerator{}
	rec := &audit.MemoryRecorder{}
	svc := NewService(Config{
		Repo:          repo,
		Refs:          fx.Resolver(),
		Activities:    fx.ActivityReader(),
		Numerator:     gen,
		TxManager:     tx.NoopManager{},
		Recorder:      rec,
		DefaultStatus: status.Unsigned,
	})
	return &testEnv{svc: svc, repo: repo, fx: fx, gen: gen, rec: rec}
}

func (e *testEnv) input() CreateInput {
	return CreateInput{
		SalesAreaID: e.fx.Area.ID,
		ClientID:    e.fx.Client.ID,
		CreatedBy:   "user-1",
	}
}

func TestService_CreateNumbersSequentially(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	year := time.Now().UTC().Year()

	var numbers []string
	for i := 0; i < 3; i++ {
		inv, err := env.svc.Create(ctx, env.input())
		require.NoError(t, err)
		numbers = append(numbers, inv.Number)
	}

	cfg := numerator.InvoiceConfig()
	assert.Equal(t, cfg.Format(year, 1), numbers[0])
	assert.Equal(t, cfg.Format(year, 3), numbers[2])
	for i := 1; i < len(numbers); i++ {
		_, prev, err := cfg.Parse(numbers[i-1])
		require.NoError(t, err)
		_, cur, err := cfg.Parse(numbers[i])
		require.NoError(t, err)
		assert.Greater(t, cur, prev)
	}
}

func TestService_CreateUsesInvoiceDateYear(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	in := env.input()
	d := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	in.Date = &d

	inv, err := env.svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "2024-0001", inv.Number)
}

func TestService_CreateDefaultsStatusAndDate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	in := env.input()
	in.Items = []lines.Input{{ActivityID: env.fx.Activity.ID, Quantity: 3}}
	inv, err := env.svc.Create(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, env.fx.Unsigned.ID, inv.StatusID)
	require.NotNil(t, inv.Date)
	assert.Equal(t, time.Now().UTC().Year(), inv.Date.Year())
	assert.Equal(t, "30.00", types.FormatMoney(inv.Total()))
	assert.Equal(t, []string{"invoice.create"}, env.rec.Actions())
}

func TestService_CreateRetriesOnNumberCollision(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	year := time.Now().UTC().Year()
	cfg := numerator.InvoiceConfig()
	env.repo.TakenNumbers[cfg.Format(year, 1)] = true
	env.repo.TakenNumbers[cfg.Format(year, 2)] = true

	inv, err := env.svc.Create(ctx, env.input())
	require.NoError(t, err)
	assert.Equal(t, cfg.Format(year, 3), inv.Number)

	env.repo.TakenNumbers[cfg.Format(year, 4)] = true
	env.repo.TakenNumbers[cfg.Format(year, 5)] = true
	env.repo.TakenNumbers[cfg.Format(year, 6)] = true
	_, err = env.svc.Create(ctx, env.input())
	assert.True(t, apperror.IsNumberCollision(err))
}

func TestService_CollisionRetrySurvivesRollback(t *testing.T) {
	ctx := context.Background()
	fx := doctest.New()
	repo := NewMemoryRepo()
	counter := doctest.NewTxCounter()
	svc := NewService(Config{
		Repo:          repo,
		Refs:          fx.Resolver(),
		Activities:    fx.ActivityReader(),
		Numerator:     counter,
		TxManager:     counter,
		DefaultStatus: status.Unsigned,
	})
	in := CreateInput{SalesAreaID: fx.Area.ID, ClientID: fx.Client.ID, CreatedBy: "user-1"}

	year := time.Now().UTC().Year()
	cfg := numerator.InvoiceConfig()
	repo.TakenNumbers[cfg.Format(year, 1)] = true
	repo.TakenNumbers[cfg.Format(year, 2)] = true

	inv, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, cfg.Format(year, 3), inv.Number)

	next, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, cfg.Format(year, 4), next.Number)
}

func TestService_CreateRejectsInactiveClient(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.fx.Client.Deactivate()

	_, err := env.svc.Create(ctx, env.input())
	assert.True(t, apperror.HasCode(err, apperror.CodeInactiveReference))
	assert.Zero(t, env.repo.Count())
}

func TestService_TotalRecomputedAfterItemChanges(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	other := env.fx.AddActivity("A2", "33.33")

	inv, err := env.svc.Create(ctx, env.input())
	require.NoError(t, err)

	first, err := env.svc.AddItem(ctx, inv.ID, env.fx.Activity.ID, 2)
	require.NoError(t, err)
	_, err = env.svc.AddItem(ctx, inv.ID, other.ID, 3)
	require.NoError(t, err)

	got, err := env.svc.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "119.99", types.FormatMoney(got.Total()))

	_, err = env.svc.UpdateQuantity(ctx, inv.ID, first.ID, 1)
	require.NoError(t, err)
	got, err = env.svc.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "109.99", types.FormatMoney(got.Total()))

	require.NoError(t, env.svc.RemoveItem(ctx, inv.ID, first.ID))
	got, err = env.svc.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "99.99", types.FormatMoney(got.Total()))
}

func TestService_AddItemDuplicateActivity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	inv, err := env.svc.Create(ctx, env.input())
	require.NoError(t, err)
	_, err = env.svc.AddItem(ctx, inv.ID, env.fx.Activity.ID, 1)
	require.NoError(t, err)

	_, err = env.svc.AddItem(ctx, inv.ID, env.fx.Activity.ID, 5)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicateActivity, appErr.Code)

	items, err := env.repo.ListItems(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestService_ItemOpsOnMissingInvoice(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	_, err := env.svc.AddItem(ctx, id.New(), env.fx.Activity.ID, 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_SetStatusAndUpdate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	inv, err := env.svc.Create(ctx, env.input())
	require.NoError(t, err)

	updated, err := env.svc.SetStatus(ctx, inv.ID, env.fx.Signed.ID)
	require.NoError(t, err)
	assert.Equal(t, env.fx.Signed.ID, updated.StatusID)
	assert.Equal(t, inv.Number, updated.Number)

	_, err = env.svc.SetStatus(ctx, inv.ID, id.New())
	assert.True(t, apperror.IsNotFound(err))

	// A deactivated client stays valid on an existing invoice.
	env.fx.Client.Deactivate()
	notes := "revised"
	updated, err = env.svc.Update(ctx, inv.ID, UpdateInput{
		Date:        inv.Date,
		SalesAreaID: inv.SalesAreaID,
		ClientID:    inv.ClientID,
		Notes:       &notes,
		StatusID:    env.fx.Paid.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "revised", *updated.Notes)
	assert.Equal(t, inv.Number, updated.Number)
}

func TestService_DeleteCascadesItems(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	in := env.input()
	in.Items = []lines.Input{{ActivityID: env.fx.Activity.ID, Quantity: 1}}
	inv, err := env.svc.Create(ctx, in)
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, inv.ID))
	items, err := env.repo.ListItems(ctx, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = env.svc.GetByID(ctx, inv.ID)
	assert.True(t, apperror.IsNotFound(err))
}
