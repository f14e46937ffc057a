package company

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/internal/core/apperror"
	"billing/internal/domain/audit"
)

type memRepo struct {
	current *Company
}

func (r *memRepo) Get(context.Context) (*Company, error) {
	if r.current == nil {
		return nil, apperror.NewNotFound("company", "")
	}
	c := *r.current
	return &c, nil
}

func (r *memRepo) Save(_ context.Context, c *Company) error {
	cp := *c
	r.current = &cp
	return nil
}

func TestService_SaveKeepsSingleRow(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	rec := &audit.MemoryRecorder{}
	svc := NewService(repo, rec)

	_, err := svc.Get(ctx)
	assert.True(t, apperror.IsNotFound(err))

	require.NoError(t, svc.Save(ctx, &Company{Name: "Servicios SA"}))
	first, err := svc.Get(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Save(ctx, &Company{Name: "Servicios SA (renamed)"}))
	second, err := svc.Get(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Servicios SA (renamed)", second.Name)
	assert.Equal(t, []string{"company.update", "company.update"}, rec.Actions())
}

func TestService_SaveValidates(t *testing.T) {
	err := NewService(&memRepo{}, nil).Save(context.Background(), &Company{Name: " "})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}
