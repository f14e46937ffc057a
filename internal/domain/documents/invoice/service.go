package invoice

import (
	"context"
	"fmt"
	"time"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/core/numerator"
	"billing/internal/core/tx"
	"billing/internal/core/types"
	"billing/internal/domain"
	"billing/internal/domain/audit"
	"billing/internal/domain/documents"
	"billing/internal/domain/documents/lines"
	"billing/pkg/logger"
)

// DefaultRetryAttempts bounds create retries after a number collision.
const DefaultRetryAttempts = 3

// Config wires the invoice service.
type Config struct {
	Repo       Repository
	Refs       *documents.ReferenceResolver
	Activities lines.ActivityReader
	Numerator  numerator.Generator
	TxManager  tx.Manager
	Recorder   audit.Recorder

	// DefaultStatus is the status name given to new invoices
	DefaultStatus string

	RetryAttempts int
}

// Service provides business operations for invoices.
type Service struct {
	repo          Repository
	refs          *documents.ReferenceResolver
	editor        *lines.Editor
	numerator     numerator.Generator
	txManager     tx.Manager
	recorder      audit.Recorder
	defaultStatus string
	retryAttempts int
}

// NewService creates a new invoice service.
func NewService(cfg Config) *Service {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}
	return &Service{
		repo:          cfg.Repo,
		refs:          cfg.Refs,
		editor:        lines.NewEditor(cfg.Repo, cfg.Activities),
		numerator:     cfg.Numerator,
		txManager:     cfg.TxManager,
		recorder:      recorder,
		defaultStatus: cfg.DefaultStatus,
		retryAttempts: attempts,
	}
}

// CreateInput holds the fields of a new invoice.
type CreateInput struct {
	// Date defaults to today
	Date        *time.Time
	SalesAreaID id.ID
	ClientID    id.ID
	Notes       *string

	// StatusID defaults to the configured unsigned status
	StatusID *id.ID

	Items     []lines.Input
	CreatedBy string
}

// Create allocates a number and stores a new invoice with its lines.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Invoice, error) {
	inv, err := s.newInvoice(ctx, in)
	if err != nil {
		return nil, err
	}
	items, err := s.editor.Build(ctx, inv.ID, in.Items)
	if err != nil {
		return nil, err
	}
	if err := s.insert(ctx, inv, items); err != nil {
		return nil, err
	}
	return inv, nil
}

// CreateCopy stores a new invoice carrying copies of existing lines with
// their frozen prices. Used by offer promotion.
func (s *Service) CreateCopy(ctx context.Context, in CreateInput, src lines.Items, sourceOfferID id.ID) (*Invoice, error) {
	inv, err := s.newInvoice(ctx, in)
	if err != nil {
		return nil, err
	}
	inv.SourceOfferID = id.Ptr(sourceOfferID)
	if err := s.insert(ctx, inv, src.CopyTo(inv.ID)); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) newInvoice(ctx context.Context, in CreateInput) (*Invoice, error) {
	inv := NewInvoice(in.SalesAreaID, in.ClientID, in.CreatedBy)
	inv.Notes = in.Notes
	if in.Date != nil {
		d := *in.Date
		inv.Date = &d
	}

	if in.StatusID != nil {
		inv.StatusID = *in.StatusID
	} else {
		st, err := s.refs.StatusByName(ctx, s.defaultStatus)
		if err != nil {
			return nil, err
		}
		inv.StatusID = st.ID
	}

	if err := inv.Validate(ctx); err != nil {
		return nil, err
	}
	statusID := inv.StatusID
	if err := s.refs.Check(ctx, documents.Header{
		SalesAreaID: inv.SalesAreaID,
		ClientID:    inv.ClientID,
		StatusID:    &statusID,
	}, id.ID{}); err != nil {
		return nil, err
	}
	return inv, nil
}

// insert numbers and persists the invoice, retrying with a fresh number on collision.
// A colliding number rolls back with its transaction, so the counter is moved
// past it before the next attempt.
func (s *Service) insert(ctx context.Context, inv *Invoice, items lines.Items) error {
	cfg := numerator.InvoiceConfig()
	var taken string
	skipTaken := func(ctx context.Context, _ error) error {
		return s.numerator.Advance(ctx, cfg, inv.Year(), taken)
	}
	err := tx.RunWithRetryFunc(ctx, s.txManager, s.retryAttempts, apperror.IsNumberCollision, skipTaken, func(ctx context.Context) error {
		number, err := s.numerator.Next(ctx, cfg, inv.Year())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		inv.Number = number

		if err := s.repo.Create(ctx, inv); err != nil {
			if apperror.IsNumberCollision(err) {
				taken = number
				logger.Warn(ctx, "invoice number collision, retrying", "number", number)
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
		return err
	}
	inv.Items = items

	logger.Info(ctx, "invoice created", "id", inv.ID, "number", inv.Number)
	details := map[string]any{"id": inv.ID.String(), "number": inv.Number}
	if inv.SourceOfferID != nil {
		details["source_offer_id"] = inv.SourceOfferID.String()
	}
	audit.Log(ctx, s.recorder, "invoice.create", details)
	return nil
}

// GetByID retrieves an invoice with its items.
func (s *Service) GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, inv)
}

// GetByNumber retrieves an invoice with its items by number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	inv, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, inv)
}

func (s *Service) withItems(ctx context.Context, inv *Invoice) (*Invoice, error) {
	items, err := s.repo.ListItems(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	inv.Items = items
	return inv, nil
}

// UpdateInput holds the editable header fields. The number never changes.
type UpdateInput struct {
	Date        *time.Time
	SalesAreaID id.ID
	ClientID    id.ID
	Notes       *string
	StatusID    id.ID
}

// Update edits the invoice header.
func (s *Service) Update(ctx context.Context, invoiceID id.ID, in UpdateInput) (*Invoice, error) {
	var inv *Invoice
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.repo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		previousClient := inv.ClientID

		inv.Date = in.Date
		inv.SalesAreaID = in.SalesAreaID
		inv.ClientID = in.ClientID
		inv.Notes = in.Notes
		inv.StatusID = in.StatusID

		if err := inv.Validate(ctx); err != nil {
			return err
		}
		statusID := inv.StatusID
		if err := s.refs.Check(ctx, documents.Header{
			SalesAreaID: inv.SalesAreaID,
			ClientID:    inv.ClientID,
			StatusID:    &statusID,
		}, previousClient); err != nil {
			return err
		}
		inv.Touch()
		return s.repo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	audit.Log(ctx, s.recorder, "invoice.update", map[string]any{"id": invoiceID.String(), "number": inv.Number})
	return s.withItems(ctx, inv)
}

// SetStatus changes only the status of the invoice.
func (s *Service) SetStatus(ctx context.Context, invoiceID, statusID id.ID) (*Invoice, error) {
	var inv *Invoice
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		st, err := s.refs.Status(ctx, statusID)
		if err != nil {
			return err
		}
		inv, err = s.repo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		inv.StatusID = st.ID
		inv.Touch()
		return s.repo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	audit.Log(ctx, s.recorder, "invoice.status", map[string]any{
		"id": invoiceID.String(), "number": inv.Number, "status_id": statusID.String(),
	})
	return s.withItems(ctx, inv)
}

// Delete removes the invoice and its items.
func (s *Service) Delete(ctx context.Context, invoiceID id.ID) error {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, invoiceID); err != nil {
		return err
	}
	audit.Log(ctx, s.recorder, "invoice.delete", map[string]any{"id": invoiceID.String(), "number": inv.Number})
	return nil
}

// AddItem puts an activity on the invoice at its current price.
func (s *Service) AddItem(ctx context.Context, invoiceID, activityID id.ID, quantity int) (*lines.Item, error) {
	var item *lines.Item
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetForUpdate(ctx, invoiceID); err != nil {
			return err
		}
		var err error
		item, err = s.editor.Add(ctx, invoiceID, activityID, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}
	audit.Log(ctx, s.recorder, "invoice.item.add", map[string]any{
		"id": invoiceID.String(), "activity_id": activityID.String(), "quantity": quantity,
		"line_amount": types.FormatMoney(item.LineAmount),
	})
	return item, nil
}

// UpdateQuantity changes the quantity of one invoice line.
func (s *Service) UpdateQuantity(ctx context.Context, invoiceID, itemID id.ID, quantity int) (*lines.Item, error) {
	var item *lines.Item
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetForUpdate(ctx, invoiceID); err != nil {
			return err
		}
		var err error
		item, err = s.editor.UpdateQuantity(ctx, invoiceID, itemID, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}
	audit.Log(ctx, s.recorder, "invoice.item.update", map[string]any{
		"id": invoiceID.String(), "item_id": itemID.String(), "quantity": quantity,
	})
	return item, nil
}

// RemoveItem deletes one invoice line.
func (s *Service) RemoveItem(ctx context.Context, invoiceID, itemID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetForUpdate(ctx, invoiceID); err != nil {
			return err
		}
		return s.editor.Remove(ctx, invoiceID, itemID)
	})
	if err != nil {
		return err
	}
	audit.Log(ctx, s.recorder, "invoice.item.remove", map[string]any{
		"id": invoiceID.String(), "item_id": itemID.String(),
	})
	return nil
}

// List returns invoice summaries with computed totals.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[Summary], error) {
	return s.repo.List(ctx, filter)
}

// ListBySourceOffer returns the invoices promoted from an offer.
func (s *Service) ListBySourceOffer(ctx context.Context, offerID id.ID) ([]Summary, error) {
	res, err := s.repo.List(ctx, ListFilter{
		ListFilter:    domain.ListFilter{OrderBy: "number", Limit: 1000},
		SourceOfferID: &offerID,
	})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}
