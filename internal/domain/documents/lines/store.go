package lines

import (
	"context"
	"fmt"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/domain/catalogs/activity"
)

// Store persists the items of one document type.
type Store interface {
	ListItems(ctx context.Context, documentID id.ID) (Items, error)

	// InsertItems adds lines. A second line for the same activity on a
	// document is a DUPLICATE_ENTRY conflict.
	InsertItems(ctx context.Context, items Items) error

	UpdateItem(ctx context.Context, item Item) error

	// DeleteItem removes the item only if it belongs to the document.
	DeleteItem(ctx context.Context, documentID, itemID id.ID) error
}

// ActivityReader loads activities that may go on a new line.
type ActivityReader interface {
	RequireActive(ctx context.Context, activityID id.ID) (*activity.Activity, error)
}

// Editor applies the line-item operations against a Store.
// Callers run its methods inside the transaction that locked the document.
type Editor struct {
	store      Store
	activities ActivityReader
}

// NewEditor creates an Editor.
func NewEditor(store Store, activities ActivityReader) *Editor {
	return &Editor{store: store, activities: activities}
}

// Add puts the activity on the document at its current price.
func (e *Editor) Add(ctx context.Context, documentID, activityID id.ID, quantity int) (*Item, error) {
	current, err := e.store.ListItems(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if err := current.CheckAdd(activityID); err != nil {
		return nil, err
	}

	act, err := e.activities.RequireActive(ctx, activityID)
	if err != nil {
		return nil, err
	}

	item, err := NewItem(documentID, activityID, quantity, act.UnitPrice)
	if err != nil {
		return nil, err
	}
	if err := e.store.InsertItems(ctx, Items{item}); err != nil {
		if apperror.HasCode(err, apperror.CodeDuplicate) {
			return nil, apperror.NewDuplicateActivity(activityID.String())
		}
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return &item, nil
}

// Remove deletes an item of the document.
func (e *Editor) Remove(ctx context.Context, documentID, itemID id.ID) error {
	return e.store.DeleteItem(ctx, documentID, itemID)
}

// UpdateQuantity changes the quantity of an item and recomputes its amount.
func (e *Editor) UpdateQuantity(ctx context.Context, documentID, itemID id.ID, quantity int) (*Item, error) {
	current, err := e.store.ListItems(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	idx := current.Find(itemID)
	if idx < 0 {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	item := current[idx]
	if err := item.SetQuantity(quantity); err != nil {
		return nil, err
	}
	if err := e.store.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return &item, nil
}

// Input is a requested line: an activity and a quantity.
type Input struct {
	ActivityID id.ID
	Quantity   int
}

// Build turns requested lines into items at current prices, rejecting
// duplicate and inactive activities.
func (e *Editor) Build(ctx context.Context, documentID id.ID, inputs []Input) (Items, error) {
	items := make(Items, 0, len(inputs))
	for _, in := range inputs {
		if err := items.CheckAdd(in.ActivityID); err != nil {
			return nil, err
		}
		act, err := e.activities.RequireActive(ctx, in.ActivityID)
		if err != nil {
			return nil, err
		}
		item, err := NewItem(documentID, in.ActivityID, in.Quantity, act.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
