// Package lines holds the line-item rules shared by offers and invoices.
package lines

import (
	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/core/types"
)

// Item is one billed activity on a document. UnitPrice is frozen when the
// line is added; LineAmount is always Quantity × UnitPrice.
type Item struct {
	ID         id.ID       `db:"id" json:"id"`
	DocumentID id.ID       `db:"document_id" json:"-"`
	ActivityID id.ID       `db:"activity_id" json:"activityId"`
	Quantity   int         `db:"quantity" json:"quantity"`
	UnitPrice  types.Money `db:"unit_price" json:"unitPrice"`
	LineAmount types.Money `db:"line_amount" json:"lineAmount"`
}

// NewItem creates a line for the activity at its current price.
func NewItem(documentID, activityID id.ID, quantity int, unitPrice types.Money) (Item, error) {
	if err := validateQuantity(quantity); err != nil {
		return Item{}, err
	}
	it := Item{
		ID:         id.New(),
		DocumentID: documentID,
		ActivityID: activityID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
	}
	it.Recompute()
	return it, nil
}

// Recompute refreshes LineAmount from Quantity and UnitPrice.
func (it *Item) Recompute() {
	it.LineAmount = types.LineAmount(it.Quantity, it.UnitPrice)
}

// SetQuantity changes the quantity and recomputes the amount. The price stays frozen.
func (it *Item) SetQuantity(quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	it.Quantity = quantity
	it.Recompute()
	return nil
}

func validateQuantity(q int) error {
	if q <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	return nil
}

// Items is the line set of one document.
type Items []Item

// Total sums the line amounts. Totals are never stored.
func (l Items) Total() types.Money {
	total := types.Zero()
	for _, it := range l {
		total = total.Add(it.LineAmount)
	}
	return total
}

// Contains reports whether the activity already has a line.
func (l Items) Contains(activityID id.ID) bool {
	for _, it := range l {
		if it.ActivityID == activityID {
			return true
		}
	}
	return false
}

// Find returns the index of the item, or -1.
func (l Items) Find(itemID id.ID) int {
	for i, it := range l {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

// CheckAdd rejects a second line for the same activity.
func (l Items) CheckAdd(activityID id.ID) error {
	if l.Contains(activityID) {
		return apperror.NewDuplicateActivity(activityID.String())
	}
	return nil
}

// CopyTo clones the lines onto another document with new IDs,
// keeping the frozen price and amount.
func (l Items) CopyTo(documentID id.ID) Items {
	out := make(Items, len(l))
	for i, it := range l {
		out[i] = Item{
			ID:         id.New(),
			DocumentID: documentID,
			ActivityID: it.ActivityID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			LineAmount: it.LineAmount,
		}
	}
	return out
}
