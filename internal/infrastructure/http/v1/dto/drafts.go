package dto

import (
	"time"

	"billing/internal/core/id"
	"billing/internal/core/types"
	"billing/internal/domain/drafts"
)

// StartDraftRequest opens a draft offer with its header.
type StartDraftRequest struct {
	SalesAreaID id.ID   `json:"salesAreaId" binding:"required"`
	ClientID    id.ID   `json:"clientId" binding:"required"`
	Notes       *string `json:"notes" binding:"omitempty,max=500"`
}

// ToHeader converts the request to the draft header.
func (r StartDraftRequest) ToHeader() drafts.Header {
	return drafts.Header{SalesAreaID: r.SalesAreaID, ClientID: r.ClientID, Notes: r.Notes}
}

// DraftResponse is a draft with its running total.
type DraftResponse struct {
	*drafts.Draft
	Total     types.Money `json:"total"`
	ExpiresIn int64       `json:"expiresInSeconds"`
}

// FromDraft creates the response of d at now.
func FromDraft(d *drafts.Draft, now time.Time) DraftResponse {
	left := d.ExpiresAt.Sub(now)
	if left < 0 {
		left = 0
	}
	return DraftResponse{Draft: d, Total: d.Total(), ExpiresIn: int64(left / time.Second)}
}
