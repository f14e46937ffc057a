package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/domain/catalogs/status"
)

type fakeStatusSource struct {
	list        []*status.Status
	listCalls   int
	lookupCalls int
}

func (f *fakeStatusSource) ListAll(context.Context) ([]*status.Status, error) {
	f.listCalls++
	return f.list, nil
}

func (f *fakeStatusSource) GetByID(_ context.Context, statusID id.ID) (*status.Status, error) {
	f.lookupCalls++
	for _, st := range f.list {
		if st.ID == statusID {
			return st, nil
		}
	}
	return nil, apperror.NewNotFound("status", statusID.String())
}

func (f *fakeStatusSource) FindByName(_ context.Context, name string) (*status.Status, error) {
	f.lookupCalls++
	for _, st := range f.list {
		if status.Equal(st.Name, name) {
			return st, nil
		}
	}
	return nil, apperror.NewNotFound("status", name)
}

func TestStatusCache_ServesFromMemory(t *testing.T) {
	firmada := status.NewStatus("FIRMADA")
	src := &fakeStatusSource{list: []*status.Status{firmada, status.NewStatus("PAGADA")}}
	c := NewStatusCache(nil, src)
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))
	defer c.Stop()
	assert.Equal(t, 2, c.Len())

	got, err := c.FindByName(ctx, "  firmada ")
	require.NoError(t, err)
	assert.Equal(t, firmada.ID, got.ID)

	got, err = c.GetByID(ctx, firmada.ID)
	require.NoError(t, err)
	assert.Equal(t, "FIRMADA", got.Name)
	assert.Zero(t, src.lookupCalls)
}

func TestStatusCache_NotificationReloads(t *testing.T) {
	src := &fakeStatusSource{}
	c := NewStatusCache(nil, src)
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))
	defer c.Stop()
	assert.Zero(t, c.Len())

	src.list = []*status.Status{status.NewStatus("NO FIRMADA")}
	c.handleNotification("other_channel")
	assert.Zero(t, c.Len())

	c.handleNotification(StatusChannel)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, src.listCalls)
}

func TestStatusCache_MissFallsThrough(t *testing.T) {
	src := &fakeStatusSource{}
	c := NewStatusCache(nil, src)
	ctx := context.Background()

	_, err := c.FindByName(ctx, "PAGADA")
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 1, src.lookupCalls)
}
