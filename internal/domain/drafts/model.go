// Package drafts provides expiring, token-addressed scratch offers built
// line by line before being finalized into a real Offer.
package drafts

import (
	"context"
	"time"

	"billing/internal/core/id"
	"billing/internal/core/types"
)

// DefaultTTL is used when no TTL is configured.
const DefaultTTL = 2 * time.Hour

// Draft is an offer under construction. It belongs to the user who started it.
type Draft struct {
	Token       string    `json:"token"`
	UserID      string    `json:"userId"`
	SalesAreaID id.ID     `json:"salesAreaId"`
	ClientID    id.ID     `json:"clientId"`
	Notes       *string   `json:"notes,omitempty"`
	Items       []Item    `json:"items"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Item is a draft line with the activity price captured when it was added.
type Item struct {
	ActivityID  id.ID       `json:"activityId"`
	Code        string      `json:"code"`
	Description string      `json:"description"`
	Quantity    int         `json:"quantity"`
	UnitPrice   types.Money `json:"unitPrice"`
	LineAmount  types.Money `json:"lineAmount"`
}

// Total sums the draft line amounts.
func (d *Draft) Total() types.Money {
	total := types.Zero()
	for _, it := range d.Items {
		total = total.Add(it.LineAmount)
	}
	return total
}

// Expired reports whether the draft is past its expiry at now.
func (d *Draft) Expired(now time.Time) bool {
	return !now.Before(d.ExpiresAt)
}

// Store keeps drafts until they expire.
type Store interface {
	// Save writes the draft; it disappears after ttl.
	Save(ctx context.Context, d *Draft, ttl time.Duration) error

	// Get returns NOT_FOUND for missing and expired tokens.
	Get(ctx context.Context, token string) (*Draft, error)

	Delete(ctx context.Context, token string) error
}
