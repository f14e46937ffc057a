package handlers

import (
	"github.com/gin-gonic/gin"

	"billing/internal/domain/documents/invoice"
	"billing/internal/domain/documents/offer"
	"billing/internal/infrastructure/http/v1/dto"
)

// OfferHandler handles offer documents.
type OfferHandler struct {
	*BaseHandler
	itemRoutes
	service  *offer.Service
	invoices *invoice.Service
}

// NewOfferHandler creates a new offer handler. invoices serves the derived-invoice listing.
func NewOfferHandler(base *BaseHandler, service *offer.Service, invoices *invoice.Service) *OfferHandler {
	return &OfferHandler{
		BaseHandler: base,
		itemRoutes:  itemRoutes{BaseHandler: base, editor: service},
		service:     service,
		invoices:    invoices,
	}
}

// List handles GET /offers.
func (h *OfferHandler) List(c *gin.Context) {
	var q dto.DocumentFilterQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter, err := q.ToOfferFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result, func(s offer.Summary) any { return s }))
}

// Get handles GET /offers/:id.
func (h *OfferHandler) Get(c *gin.Context) {
	offerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), offerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromOffer(o))
}

// Create handles POST /offers.
func (h *OfferHandler) Create(c *gin.Context) {
	var req dto.CreateOfferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.service.Create(c.Request.Context(), req.ToInput(h.GetUserID(c)))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromOffer(o))
}

// Update handles PUT /offers/:id.
func (h *OfferHandler) Update(c *gin.Context) {
	offerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateOfferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.service.Update(c.Request.Context(), offerID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromOffer(o))
}

// Delete handles DELETE /offers/:id.
func (h *OfferHandler) Delete(c *gin.Context) {
	offerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), offerID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Promote handles POST /offers/:id/promote.
func (h *OfferHandler) Promote(c *gin.Context) {
	offerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	inv, err := h.service.PromoteToInvoice(c.Request.Context(), offerID, h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromInvoice(inv))
}

// Invoices handles GET /offers/:id/invoices.
func (h *OfferHandler) Invoices(c *gin.Context) {
	ctx := c.Request.Context()

	offerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.service.GetByID(ctx, offerID); err != nil {
		h.Error(c, err)
		return
	}

	list, err := h.invoices.ListBySourceOffer(ctx, offerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if list == nil {
		list = []invoice.Summary{}
	}
	h.OK(c, gin.H{"items": list})
}
