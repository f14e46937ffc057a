package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/internal/core/apperror"
	"billing/internal/core/tx"
	"billing/internal/core/types"
	"billing/internal/domain/audit"
	"billing/internal/domain/catalogtest"
)

type memRepo struct {
	*catalogtest.MemoryRepo[*Activity]
}

func (r memRepo) FindByCode(_ context.Context, code string) (*Activity, error) {
	return r.Find(func(a *Activity) bool { return a.Code == code })
}

func newTestService() (*Service, memRepo, *audit.MemoryRecorder) {
	repo := memRepo{catalogtest.NewMemoryRepo[*Activity]()}
	rec := &audit.MemoryRecorder{}
	return NewService(repo, tx.NoopManager{}, rec), repo, rec
}

func TestActivity_Validate(t *testing.T) {
	tests := []struct {
		name  string
		a     *Activity
		field string
	}{
		{"ok", NewActivity("A1", "Consulting", types.MustMoney("10")), ""},
		{"missing code", NewActivity(" ", "Consulting", types.MustMoney("10")), "code"},
		{"missing description", NewActivity("A1", "", types.MustMoney("10")), "description"},
		{"negative price", NewActivity("A1", "Consulting", types.MustMoney("-1")), "unitPrice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.a.Validate(context.Background())
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

func TestService_CreateRejectsDuplicateCode(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	require.NoError(t, svc.Create(ctx, NewActivity("A1", "Consulting", types.MustMoney("10"))))

	err := svc.Create(ctx, NewActivity("A1", "Training", types.MustMoney("20")))
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestService_DeleteDeactivates(t *testing.T) {
	ctx := context.Background()
	svc, repo, rec := newTestService()

	a := NewActivity("A1", "Consulting", types.MustMoney("10"))
	require.NoError(t, svc.Create(ctx, a))
	require.NoError(t, svc.Delete(ctx, a.ID))

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive())
	assert.Equal(t, []string{"activity.create", "activity.delete"}, rec.Actions())

	_, err = svc.RequireActive(ctx, a.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInactiveReference))
}

func TestService_RequireActive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	a := NewActivity("A1", "Consulting", types.MustMoney("10"))
	require.NoError(t, svc.Create(ctx, a))

	got, err := svc.RequireActive(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A1", got.Code)
}
