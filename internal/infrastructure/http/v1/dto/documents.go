package dto

import (
	"time"

	"billing/internal/core/id"
	"billing/internal/core/types"
	"billing/internal/domain/documents/invoice"
	"billing/internal/domain/documents/lines"
	"billing/internal/domain/documents/offer"
)

// --- Line items ---

// ItemRequest adds an activity line.
type ItemRequest struct {
	ActivityID id.ID `json:"activityId" binding:"required"`
	Quantity   int   `json:"quantity" binding:"required,gt=0"`
}

// QuantityRequest changes the quantity of a line.
type QuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

func toLineInputs(items []ItemRequest) []lines.Input {
	out := make([]lines.Input, len(items))
	for i, it := range items {
		out[i] = lines.Input{ActivityID: it.ActivityID, Quantity: it.Quantity}
	}
	return out
}

// --- Document header ---

// DocumentFilterQuery holds the list filters shared by offers and invoices.
type DocumentFilterQuery struct {
	ListQuery
	SalesAreaID string `form:"salesAreaId" binding:"omitempty,uuid"`
	ClientID    string `form:"clientId" binding:"omitempty,uuid"`
	DateFrom    string `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo      string `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
}

// DocumentFilter is the parsed form of DocumentFilterQuery.
type DocumentFilter struct {
	SalesAreaID *id.ID
	ClientID    *id.ID
	DateFrom    *time.Time
	DateTo      *time.Time
}

// Parse validates and converts the shared filters.
func (q DocumentFilterQuery) Parse() (DocumentFilter, error) {
	var (
		f   DocumentFilter
		err error
	)
	if f.SalesAreaID, err = ParseOptionalID("salesAreaId", q.SalesAreaID); err != nil {
		return f, err
	}
	if f.ClientID, err = ParseOptionalID("clientId", q.ClientID); err != nil {
		return f, err
	}
	if f.DateFrom, err = ParseDate("dateFrom", &q.DateFrom); err != nil {
		return f, err
	}
	if f.DateTo, err = ParseDate("dateTo", &q.DateTo); err != nil {
		return f, err
	}
	return f, nil
}

// ToOfferFilter builds the offer listing filter.
func (q DocumentFilterQuery) ToOfferFilter() (offer.ListFilter, error) {
	f, err := q.Parse()
	if err != nil {
		return offer.ListFilter{}, err
	}
	return offer.ListFilter{
		ListFilter:  q.ToFilter(),
		SalesAreaID: f.SalesAreaID,
		ClientID:    f.ClientID,
		DateFrom:    f.DateFrom,
		DateTo:      f.DateTo,
	}, nil
}

// --- Offer ---

// CreateOfferRequest creates an offer with optional initial lines.
type CreateOfferRequest struct {
	SalesAreaID id.ID         `json:"salesAreaId" binding:"required"`
	ClientID    id.ID         `json:"clientId" binding:"required"`
	Notes       *string       `json:"notes" binding:"omitempty,max=500"`
	StatusID    *id.ID        `json:"statusId"`
	Items       []ItemRequest `json:"items" binding:"omitempty,dive"`
}

// ToInput converts the request to the service input.
func (r CreateOfferRequest) ToInput(userID string) offer.CreateInput {
	return offer.CreateInput{
		SalesAreaID: r.SalesAreaID,
		ClientID:    r.ClientID,
		Notes:       r.Notes,
		StatusID:    r.StatusID,
		Items:       toLineInputs(r.Items),
		CreatedBy:   userID,
	}
}

// UpdateOfferRequest replaces the offer header.
type UpdateOfferRequest struct {
	SalesAreaID id.ID   `json:"salesAreaId" binding:"required"`
	ClientID    id.ID   `json:"clientId" binding:"required"`
	Notes       *string `json:"notes" binding:"omitempty,max=500"`
	StatusID    *id.ID  `json:"statusId"`
}

// ToInput converts the request to the service input.
func (r UpdateOfferRequest) ToInput() offer.UpdateInput {
	return offer.UpdateInput{
		SalesAreaID: r.SalesAreaID,
		ClientID:    r.ClientID,
		Notes:       r.Notes,
		StatusID:    r.StatusID,
	}
}

// OfferResponse is an offer with its lines and total.
type OfferResponse struct {
	*offer.Offer
	Date  *string     `json:"date"`
	Total types.Money `json:"total"`
}

// FromOffer creates the response of o.
func FromOffer(o *offer.Offer) OfferResponse {
	return OfferResponse{Offer: o, Date: FormatDate(o.Date), Total: o.Total()}
}

// --- Invoice ---

// InvoiceFilterQuery adds the invoice-only filters.
type InvoiceFilterQuery struct {
	DocumentFilterQuery
	StatusID      string `form:"statusId" binding:"omitempty,uuid"`
	Status        string `form:"status" binding:"omitempty,max=50"`
	SourceOfferID string `form:"sourceOfferId" binding:"omitempty,uuid"`
}

// ToInvoiceFilter builds the invoice listing filter.
func (q InvoiceFilterQuery) ToInvoiceFilter() (invoice.ListFilter, error) {
	f, err := q.Parse()
	if err != nil {
		return invoice.ListFilter{}, err
	}
	statusID, err := ParseOptionalID("statusId", q.StatusID)
	if err != nil {
		return invoice.ListFilter{}, err
	}
	sourceID, err := ParseOptionalID("sourceOfferId", q.SourceOfferID)
	if err != nil {
		return invoice.ListFilter{}, err
	}
	return invoice.ListFilter{
		ListFilter:    q.ToFilter(),
		StatusID:      statusID,
		StatusName:    q.Status,
		SalesAreaID:   f.SalesAreaID,
		ClientID:      f.ClientID,
		SourceOfferID: sourceID,
		DateFrom:      f.DateFrom,
		DateTo:        f.DateTo,
	}, nil
}

// CreateInvoiceRequest creates an invoice with optional initial lines.
// A missing status falls back to the configured default.
type CreateInvoiceRequest struct {
	Date        *string       `json:"date" binding:"omitempty,datetime=2006-01-02"`
	SalesAreaID id.ID         `json:"salesAreaId" binding:"required"`
	ClientID    id.ID         `json:"clientId" binding:"required"`
	Notes       *string       `json:"notes" binding:"omitempty,max=500"`
	StatusID    *id.ID        `json:"statusId"`
	Items       []ItemRequest `json:"items" binding:"omitempty,dive"`
}

// ToInput converts the request to the service input.
func (r CreateInvoiceRequest) ToInput(userID string) (invoice.CreateInput, error) {
	date, err := ParseDate("date", r.Date)
	if err != nil {
		return invoice.CreateInput{}, err
	}
	return invoice.CreateInput{
		Date:        date,
		SalesAreaID: r.SalesAreaID,
		ClientID:    r.ClientID,
		Notes:       r.Notes,
		StatusID:    r.StatusID,
		Items:       toLineInputs(r.Items),
		CreatedBy:   userID,
	}, nil
}

// UpdateInvoiceRequest replaces the invoice header.
type UpdateInvoiceRequest struct {
	Date        *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	SalesAreaID id.ID   `json:"salesAreaId" binding:"required"`
	ClientID    id.ID   `json:"clientId" binding:"required"`
	Notes       *string `json:"notes" binding:"omitempty,max=500"`
	StatusID    id.ID   `json:"statusId" binding:"required"`
}

// ToInput converts the request to the service input.
func (r UpdateInvoiceRequest) ToInput() (invoice.UpdateInput, error) {
	date, err := ParseDate("date", r.Date)
	if err != nil {
		return invoice.UpdateInput{}, err
	}
	return invoice.UpdateInput{
		Date:        date,
		SalesAreaID: r.SalesAreaID,
		ClientID:    r.ClientID,
		Notes:       r.Notes,
		StatusID:    r.StatusID,
	}, nil
}

// SetStatusRequest changes the invoice status.
type SetStatusRequest struct {
	StatusID id.ID `json:"statusId" binding:"required"`
}

// InvoiceResponse is an invoice with its lines and total.
type InvoiceResponse struct {
	*invoice.Invoice
	Date  *string     `json:"date"`
	Total types.Money `json:"total"`
}

// FromInvoice creates the response of inv.
func FromInvoice(inv *invoice.Invoice) InvoiceResponse {
	return InvoiceResponse{Invoice: inv, Date: FormatDate(inv.Date), Total: inv.Total()}
}
