package drafts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/core/types"
	"billing/internal/domain/audit"
	"billing/internal/domain/documents"
	"billing/internal/domain/documents/lines"
	"billing/internal/domain/documents/offer"
)

// OfferCreator finalizes a draft into a stored offer.
type OfferCreator interface {
	Create(ctx context.Context, in offer.CreateInput) (*offer.Offer, error)
}

// Config wires the draft service.
type Config struct {
	Store      Store
	Refs       *documents.ReferenceResolver
	Activities lines.ActivityReader
	Offers     OfferCreator
	Recorder   audit.Recorder
	TTL        time.Duration

	// Now defaults to time.Now
	Now func() time.Time
}

// Service manages draft offers.
type Service struct {
	store      Store
	refs       *documents.ReferenceResolver
	activities lines.ActivityReader
	offers     OfferCreator
	recorder   audit.Recorder
	ttl        time.Duration
	now        func() time.Time
}

// NewService creates a new draft service.
func NewService(cfg Config) *Service {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &Service{
		store:      cfg.Store,
		refs:       cfg.Refs,
		activities: cfg.Activities,
		offers:     cfg.Offers,
		recorder:   recorder,
		ttl:        ttl,
		now:        now,
	}
}

// Header is the draft offer header captured in the first step.
type Header struct {
	SalesAreaID id.ID
	ClientID    id.ID
	Notes       *string
}

// Start opens a new draft for userID.
func (s *Service) Start(ctx context.Context, h Header, userID string) (*Draft, error) {
	if id.IsNil(h.SalesAreaID) {
		return nil, apperror.NewValidation("sales area is required").WithDetail("field", "salesAreaId")
	}
	if id.IsNil(h.ClientID) {
		return nil, apperror.NewValidation("client is required").WithDetail("field", "clientId")
	}
	if err := s.refs.Check(ctx, documents.Header{SalesAreaID: h.SalesAreaID, ClientID: h.ClientID}, id.ID{}); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	d := &Draft{
		Token:       newToken(),
		UserID:      userID,
		SalesAreaID: h.SalesAreaID,
		ClientID:    h.ClientID,
		Notes:       h.Notes,
		Items:       []Item{},
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, d, s.ttl); err != nil {
		return nil, err
	}
	return d, nil
}

// Get returns the caller's draft.
func (s *Service) Get(ctx context.Context, token, userID string) (*Draft, error) {
	d, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID || d.Expired(s.now()) {
		return nil, apperror.NewNotFound("draft", token)
	}
	return d, nil
}

// AddItem appends an activity at its current price.
func (s *Service) AddItem(ctx context.Context, token, userID string, activityID id.ID, quantity int) (*Draft, error) {
	d, err := s.Get(ctx, token, userID)
	if err != nil {
		return nil, err
	}
	for _, it := range d.Items {
		if it.ActivityID == activityID {
			return nil, apperror.NewDuplicateActivity(activityID.String())
		}
	}
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").WithDetail("field", "quantity")
	}
	act, err := s.activities.RequireActive(ctx, activityID)
	if err != nil {
		return nil, err
	}
	d.Items = append(d.Items, Item{
		ActivityID:  act.ID,
		Code:        act.Code,
		Description: act.Description,
		Quantity:    quantity,
		UnitPrice:   act.UnitPrice,
		LineAmount:  types.LineAmount(quantity, act.UnitPrice),
	})
	return d, s.save(ctx, d)
}

// RemoveItem drops the line at index.
func (s *Service) RemoveItem(ctx context.Context, token, userID string, index int) (*Draft, error) {
	d, err := s.Get(ctx, token, userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(d.Items) {
		return nil, apperror.NewNotFound("draft item", index)
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	return d, s.save(ctx, d)
}

// Finalize creates the offer from the draft and discards the draft.
func (s *Service) Finalize(ctx context.Context, token, userID string) (*offer.Offer, error) {
	d, err := s.Get(ctx, token, userID)
	if err != nil {
		return nil, err
	}
	inputs := make([]lines.Input, len(d.Items))
	for i, it := range d.Items {
		inputs[i] = lines.Input{ActivityID: it.ActivityID, Quantity: it.Quantity}
	}
	o, err := s.offers.Create(ctx, offer.CreateInput{
		SalesAreaID: d.SalesAreaID,
		ClientID:    d.ClientID,
		Notes:       d.Notes,
		Items:       inputs,
		CreatedBy:   userID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, token); err != nil {
		return nil, err
	}
	audit.Log(ctx, s.recorder, "draft.finalize", map[string]any{"offer_id": o.ID.String(), "number": o.Number})
	return o, nil
}

// Discard deletes the caller's draft.
func (s *Service) Discard(ctx context.Context, token, userID string) error {
	if _, err := s.Get(ctx, token, userID); err != nil {
		return err
	}
	return s.store.Delete(ctx, token)
}

// save rewrites the draft keeping its original expiry.
func (s *Service) save(ctx context.Context, d *Draft) error {
	remaining := d.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		return apperror.NewNotFound("draft", d.Token)
	}
	return s.store.Save(ctx, d, remaining)
}

func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
