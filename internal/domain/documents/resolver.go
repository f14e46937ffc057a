// Package documents holds helpers shared by the offer and invoice engines.
package documents

import (
	"context"
	"fmt"

	"billing/internal/core/id"
	"billing/internal/domain/catalogs/client"
	"billing/internal/domain/catalogs/salesarea"
	"billing/internal/domain/catalogs/status"
)

// ClientReader loads clients that new documents may reference.
type ClientReader interface {
	RequireActive(ctx context.Context, clientID id.ID) (*client.Client, error)
}

// AreaReader loads sales areas.
type AreaReader interface {
	GetByID(ctx context.Context, areaID id.ID) (*salesarea.SalesArea, error)
}

// StatusReader loads statuses by ID or by name.
type StatusReader interface {
	GetByID(ctx context.Context, statusID id.ID) (*status.Status, error)
	FindByName(ctx context.Context, name string) (*status.Status, error)
}

// ReferenceResolver checks the catalog references of a document header.
type ReferenceResolver struct {
	clients  ClientReader
	areas    AreaReader
	statuses StatusReader
}

// NewReferenceResolver creates a new ReferenceResolver.
func NewReferenceResolver(clients ClientReader, areas AreaReader, statuses StatusReader) *ReferenceResolver {
	return &ReferenceResolver{clients: clients, areas: areas, statuses: statuses}
}

// Header is the set of references carried by an offer or invoice header.
type Header struct {
	SalesAreaID id.ID
	ClientID    id.ID
	StatusID    *id.ID
}

// Check verifies that the area and status exist and that the client is active.
// The client check is skipped when keepClient is the current client of an
// existing document, so a deactivated client does not block editing.
func (r *ReferenceResolver) Check(ctx context.Context, h Header, keepClient id.ID) error {
	if _, err := r.areas.GetByID(ctx, h.SalesAreaID); err != nil {
		return err
	}
	if id.IsNil(keepClient) || h.ClientID != keepClient {
		if _, err := r.clients.RequireActive(ctx, h.ClientID); err != nil {
			return err
		}
	}
	if h.StatusID != nil {
		if _, err := r.statuses.GetByID(ctx, *h.StatusID); err != nil {
			return err
		}
	}
	return nil
}

// StatusByName resolves a status name, case-insensitively.
func (r *ReferenceResolver) StatusByName(ctx context.Context, name string) (*status.Status, error) {
	st, err := r.statuses.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolve status %q: %w", name, err)
	}
	return st, nil
}

// Status loads a status by ID.
func (r *ReferenceResolver) Status(ctx context.Context, statusID id.ID) (*status.Status, error) {
	return r.statuses.GetByID(ctx, statusID)
}
