package salesarea

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/internal/core/apperror"
	"billing/internal/core/tx"
	"billing/internal/domain/catalogtest"
)

type memRepo struct {
	*catalogtest.MemoryRepo[*SalesArea]
}

func (r memRepo) ListAll(context.Context) ([]*SalesArea, error) {
	out := r.All()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func TestService_DeleteProtected(t *testing.T) {
	ctx := context.Background()
	repo := memRepo{catalogtest.NewMemoryRepo[*SalesArea]()}
	svc := NewService(repo, tx.NoopManager{}, nil)

	north := NewSalesArea("Norte")
	south := NewSalesArea("Sur")
	require.NoError(t, svc.Create(ctx, north))
	require.NoError(t, svc.Create(ctx, south))
	repo.Protected[north.ID] = true

	err := svc.Delete(ctx, north.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeProtected))

	require.NoError(t, svc.Delete(ctx, south.ID))
	ok, err := svc.Exists(ctx, south.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_ListAllOrdered(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memRepo{catalogtest.NewMemoryRepo[*SalesArea]()}, tx.NoopManager{}, nil)
	for _, n := range []string{"Sur", "Este", "Norte"} {
		require.NoError(t, svc.Create(ctx, NewSalesArea(n)))
	}
	areas, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, areas, 3)
	assert.Equal(t, "Este", areas[0].Name)
}

func TestSalesArea_Validate(t *testing.T) {
	err := NewSalesArea("  ").Validate(context.Background())
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	assert.Equal(t, "", NewSalesArea("Norte").CostCenterValue())
}
