// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"fmt"
	"time"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
	"billing/internal/domain"
)

// DateLayout is the wire format of business dates.
const DateLayout = "2006-01-02"

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// NewListResponse maps every item of a paginated result.
func NewListResponse[T any](r domain.ListResult[T], mapFn func(T) any) ListResponse {
	items := make([]any, len(r.Items))
	for i, it := range r.Items {
		items[i] = mapFn(it)
	}
	return ListResponse{
		Items:      items,
		TotalCount: r.TotalCount,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
}

// IDResponse returns created entity ID.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Common Filters ---

// ListQuery holds the query parameters shared by every list endpoint.
type ListQuery struct {
	Search  string `form:"search" binding:"max=100"`
	Limit   int    `form:"limit" binding:"omitempty,gte=1,lte=500"`
	Offset  int    `form:"offset" binding:"omitempty,gte=0"`
	OrderBy string `form:"orderBy"`
	Active  *bool  `form:"active"`
}

// ToFilter converts the query into a domain filter. An empty OrderBy
// leaves the ordering to the repository.
func (q ListQuery) ToFilter() domain.ListFilter {
	f := domain.DefaultListFilter()
	f.Search = q.Search
	f.Active = q.Active
	f.Offset = q.Offset
	f.OrderBy = q.OrderBy
	if q.Limit > 0 {
		f.Limit = q.Limit
	}
	return f
}

// ParseDate parses an optional YYYY-MM-DD value. Empty input returns nil.
func ParseDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, *value)
	if err != nil {
		return nil, apperror.NewValidation(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)).
			WithDetail("field", field)
	}
	return &t, nil
}

// ParseOptionalID parses an optional UUID query value.
func ParseOptionalID(field, value string) (*id.ID, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := id.Parse(value)
	if err != nil {
		return nil, apperror.NewValidation(fmt.Sprintf("invalid %s format", field)).
			WithDetail("field", field)
	}
	return &parsed, nil
}

// FormatDate prints a date pointer as YYYY-MM-DD.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
