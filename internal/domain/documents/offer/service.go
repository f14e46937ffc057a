package offer

import (
	"context"
	"fmt"

	"billing/internal/core/apperror"
	"billing/internal/core/entity"
	"billing/internal/core/id"
	"billing/internal/core/numerator"
	"billing/internal/core/tx"
	"billing/internal/domain"
	"billing/internal/domain/audit"
	"billing/internal/domain/documents"
	"billing/internal/domain/documents/invoice"
	"billing/internal/domain/documents/lines"
	"billing/pkg/logger"
)

// InvoiceCreator creates invoices from copied offer lines.
type InvoiceCreator interface {
	CreateCopy(ctx context.Context, in invoice.CreateInput, src lines.Items, sourceOfferID id.ID) (*invoice.Invoice, error)
}

// Config wires the offer service.
type Config struct {
	Repo       Repository
	Refs       *documents.ReferenceResolver
	Activities lines.ActivityReader
	Numerator  numerator.Generator
	TxManager  tx.Manager
	Recorder   audit.Recorder
	Invoices   InvoiceCreator

	RetryAttempts int
}

// Service provides business operations for offers.
type Service struct {
	repo          Repository
	refs          *documents.ReferenceResolver
	editor        *lines.Editor
	numerator     numerator.Generator
	txManager     tx.Manager
	recorder      audit.Recorder
	invoices      InvoiceCreator
	retryAttempts int
}

// NewService creates a new offer service.
func NewService(cfg Config) *Service {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = invoice.DefaultRetryAttempts
	}
	return &Service{
		repo:          cfg.Repo,
		refs:          cfg.Refs,
		editor:        lines.NewEditor(cfg.Repo, cfg.Activities),
		numerator:     cfg.Numerator,
		txManager:     cfg.TxManager,
		recorder:      recorder,
		invoices:      cfg.Invoices,
		retryAttempts: attempts,
	}
}

// CreateInput holds the fields of a new offer. The date is always today.
type CreateInput struct {
	SalesAreaID id.ID
	ClientID    id.ID
	Notes       *string
	StatusID    *id.ID
	Items       []lines.Input
	CreatedBy   string
}

// Create allocates a number and stores a new offer with its lines.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Offer, error) {
	o := NewOffer(in.SalesAreaID, in.ClientID, in.CreatedBy)
	o.Notes = in.Notes
	o.StatusID = in.StatusID

	if err := o.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.refs.Check(ctx, documents.Header{
		SalesAreaID: o.SalesAreaID,
		ClientID:    o.ClientID,
		StatusID:    o.StatusID,
	}, id.ID{}); err != nil {
		return nil, err
	}
	items, err := s.editor.Build(ctx, o.ID, in.Items)
	if err != nil {
		return nil, err
	}

	cfg := numerator.OfferConfig()
	var taken string
	skipTaken := func(ctx context.Context, _ error) error {
		return s.numerator.Advance(ctx, cfg, o.Year(), taken)
	}
	err = tx.RunWithRetryFunc(ctx, s.txManager, s.retryAttempts, apperror.IsNumberCollision, skipTaken, func(ctx context.Context) error {
		number, err := s.numerator.Next(ctx, cfg, o.Year())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		o.Number = number

		if err := s.repo.Create(ctx, o); err != nil {
			if apperror.IsNumberCollision(err) {
				taken = number
				logger.Warn(ctx, "offer number collision, retrying", "number", number)
			}
			return err
		}
		if len(items) > 0 {
			if err := s.repo.InsertItems(ctx, items); err != nil {
				return fmt.Errorf("save items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.Items = items

	logger.Info(ctx, "offer created", "id", o.ID, "number", o.Number)
	audit.Log(ctx, s.recorder, "offer.create", map[string]any{"id": o.ID.String(), "number": o.Number})
	return o, nil
}

// GetByID retrieves an offer with its items.
func (s *Service) GetByID(ctx context.Context, offerID id.ID) (*Offer, error) {
	o, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, o)
}

func (s *Service) withItems(ctx context.Context, o *Offer) (*Offer, error) {
	items, err := s.repo.ListItems(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	o.Items = items
	return o, nil
}

// UpdateInput holds the editable header fields.
type UpdateInput struct {
	SalesAreaID id.ID
	ClientID    id.ID
	Notes       *string
	StatusID    *id.ID
}

// Update edits the offer header. Number and date are fixed.
func (s *Service) Update(ctx context.Context, offerID id.ID, in UpdateInput) (*Offer, error) {
	var o *Offer
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.repo.GetForUpdate(ctx, offerID)
		if err != nil {
			return err
		}
		previousClient := o.ClientID

		o.SalesAreaID = in.SalesAreaID
		o.ClientID = in.ClientID
		o.Notes = in.Notes
		o.StatusID = in.StatusID

		if err := o.Validate(ctx); err != nil {
			return err
		}
		if err := s.refs.Check(ctx, documents.Header{
			SalesAreaID: o.SalesAreaID,
			ClientID:    o.ClientID,
			StatusID:    o.StatusID,
		}, previousClient); err != nil {
			return err
		}
		o.Touch()
		return s.repo.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	audit.Log(ctx, s.recorder, "offer.update", map[string]any{"id": offerID.String(), "number": o.Number})
	return s.withItems(ctx, o)
}

// Delete removes the offer and its items.
func (s *Service) Delete(ctx context.Context, offerID id.ID) error {
	o, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, offerID); err != nil {
		return err
	}
	audit.Log(ctx, s.recorder, "offer.delete", map[string]any{"id": offerID.String(), "number": o.Number})
	return nil
}

// AddItem puts an activity on the offer at its current price.
func (s *Service) AddItem(ctx context.Context, offerID, activityID id.ID, quantity int) (*lines.Item, error) {
	var item *lines.Item
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetForUpdate(ctx, offerID); err != nil {
			return err
		}
		var err error
		item, err = s.editor.Add(ctx, offerID, activityID, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}
	audit.Log(ctx, s.recorder, "offer.item.add", map[string]any{
		"id": offerID.String(), "activity_id": activityID.String(), "quantity": quantity,
	})
	return item, nil
}

// UpdateQuantity changes the quantity of one offer line.
func (s *Service) UpdateQuantity(ctx context.Context, offerID, itemID id.ID, quantity int) (*lines.Item, error) {
	var item *lines.Item
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetForUpdate(ctx, offerID); err != nil {
			return err
		}
		var err error
		item, err = s.editor.UpdateQuantity(ctx, offerID, itemID, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}
	audit.Log(ctx, s.recorder, "offer.item.update", map[string]any{
		"id": offerID.String(), "item_id": itemID.String(), "quantity": quantity,
	})
	return item, nil
}

// RemoveItem deletes one offer line.
func (s *Service) RemoveItem(ctx context.Context, offerID, itemID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetForUpdate(ctx, offerID); err != nil {
			return err
		}
		return s.editor.Remove(ctx, offerID, itemID)
	})
	if err != nil {
		return err
	}
	audit.Log(ctx, s.recorder, "offer.item.remove", map[string]any{
		"id": offerID.String(), "item_id": itemID.String(),
	})
	return nil
}

// List returns offer summaries with computed totals.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[Summary], error) {
	return s.repo.List(ctx, filter)
}

// PromoteToInvoice creates a new invoice from the offer: same area, client
// and notes, default status, today's date and copies of every line at the
// frozen price. The offer is not modified; each call yields a new invoice.
func (s *Service) PromoteToInvoice(ctx context.Context, offerID id.ID, userID string) (*invoice.Invoice, error) {
	o, err := s.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	today := entity.Today()
	inv, err := s.invoices.CreateCopy(ctx, invoice.CreateInput{
		Date:        &today,
		SalesAreaID: o.SalesAreaID,
		ClientID:    o.ClientID,
		Notes:       o.Notes,
		CreatedBy:   userID,
	}, o.Items, o.ID)
	if err != nil {
		return nil, fmt.Errorf("promote offer %s: %w", o.Number, err)
	}

	logger.Info(ctx, "offer promoted", "offer", o.Number, "invoice", inv.Number)
	audit.Log(ctx, s.recorder, "offer.promote", map[string]any{
		"id": o.ID.String(), "number": o.Number, "invoice_id": inv.ID.String(), "invoice_number": inv.Number,
	})
	return inv, nil
}
