// Package doctest provides in-memory catalog fixtures for document engine tests.
package doctest

import (
	"context"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/core/types"
	"billing/internal/domain/catalogs/activity"
	"billing/internal/domain/catalogs/client"
	"billing/internal/domain/catalogs/salesarea"
	"billing/internal/domain/catalogs/status"
	"billing/internal/domain/documents"
	"billing/internal/domain/documents/lines"
)

// Fixtures holds catalogs keyed by ID and implements the reader interfaces.
type Fixtures struct {
	Clients    map[id.ID]*client.Client
	Areas      map[id.ID]*salesarea.SalesArea
	Statuses   map[id.ID]*status.Status
	Activities map[id.ID]*activity.Activity

	// Seeded records
	Area     *salesarea.SalesArea
	Client   *client.Client
	Activity *activity.Activity
	Unsigned *status.Status
	Signed   *status.Status
	Paid     *status.Status
}

// New returns fixtures with one area "Norte", one client, one activity
// priced 10.00 and the three invoice statuses.
func New() *Fixtures {
	f := &Fixtures{
		Clients:    map[id.ID]*client.Client{},
		Areas:      map[id.ID]*salesarea.SalesArea{},
		Statuses:   map[id.ID]*status.Status{},
		Activities: map[id.ID]*activity.Activity{},
	}
	f.Area = f.AddArea("Norte")
	f.Client = f.AddClient("ACME")
	f.Activity = f.AddActivity("A1", "10.00")
	f.Unsigned = f.AddStatus(status.Unsigned)
	f.Signed = f.AddStatus(status.Signed)
	f.Paid = f.AddStatus(status.Paid)
	return f
}

func (f *Fixtures) AddArea(name string) *salesarea.SalesArea {
	a := salesarea.NewSalesArea(name)
	f.Areas[a.ID] = a
	return a
}

func (f *Fixtures) AddClient(name string) *client.Client {
	c := client.NewClient(name, "C-"+name)
	f.Clients[c.ID] = c
	return c
}

func (f *Fixtures) AddActivity(code, price string) *activity.Activity {
	a := activity.NewActivity(code, "Activity "+code, types.MustMoney(price))
	f.Activities[a.ID] = a
	return a
}

func (f *Fixtures) AddStatus(name string) *status.Status {
	s := status.NewStatus(name)
	f.Statuses[s.ID] = s
	return s
}

// Resolver returns a ReferenceResolver over the fixtures.
func (f *Fixtures) Resolver() *documents.ReferenceResolver {
	return documents.NewReferenceResolver(clientReader{f}, areaReader{f}, statusReader{f})
}

// ActivityReader returns the activity lookup used by line editors.
func (f *Fixtures) ActivityReader() lines.ActivityReader {
	return activityReader{f}
}

type clientReader struct{ f *Fixtures }

func (r clientReader) RequireActive(_ context.Context, clientID id.ID) (*client.Client, error) {
	c, ok := r.f.Clients[clientID]
	if !ok {
		return nil, apperror.NewNotFound("client", clientID.String())
	}
	if !c.IsActive() {
		return nil, apperror.NewInactiveReference("client", clientID.String())
	}
	return c, nil
}

type areaReader struct{ f *Fixtures }

func (r areaReader) GetByID(_ context.Context, areaID id.ID) (*salesarea.SalesArea, error) {
	a, ok := r.f.Areas[areaID]
	if !ok {
		return nil, apperror.NewNotFound("sales area", areaID.String())
	}
	return a, nil
}

type statusReader struct{ f *Fixtures }

func (r statusReader) GetByID(_ context.Context, statusID id.ID) (*status.Status, error) {
	s, ok := r.f.Statuses[statusID]
	if !ok {
		return nil, apperror.NewNotFound("status", statusID.String())
	}
	return s, nil
}

func (r statusReader) FindByName(_ context.Context, name string) (*status.Status, error) {
	for _, s := range r.f.Statuses {
		if status.Equal(s.Name, name) {
			return s, nil
		}
	}
	return nil, apperror.NewNotFound("status", name)
}

type activityReader struct{ f *Fixtures }

func (r activityReader) RequireActive(_ context.Context, activityID id.ID) (*activity.Activity, error) {
	a, ok := r.f.Activities[activityID]
	if !ok {
		return nil, apperror.NewNotFound("activity", activityID.String())
	}
	if !a.IsActive() {
		return nil, apperror.NewInactiveReference("activity", activityID.String())
	}
	return a, nil
}
