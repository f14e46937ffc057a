package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"billing/internal/core/id"
	"billing/internal/domain/catalogs/client"
	"billing/internal/domain/catalogs/salesarea"
	"billing/internal/domain/documents/invoice"
	"billing/internal/domain/export/obl"
	"billing/internal/infrastructure/http/v1/dto"
)

// ClientGetter loads a client regardless of its active flag.
type ClientGetter interface {
	GetByID(ctx context.Context, clientID id.ID) (*client.Client, error)
}

// AreaGetter loads a sales area.
type AreaGetter interface {
	GetByID(ctx context.Context, areaID id.ID) (*salesarea.SalesArea, error)
}

// InvoiceHandler handles invoice documents.
type InvoiceHandler struct {
	*BaseHandler
	itemRoutes
	service *invoice.Service
	clients ClientGetter
	areas   AreaGetter
}

// NewInvoiceHandler creates a new invoice handler. clients and areas feed the .obl export.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service, clients ClientGetter, areas AreaGetter) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		itemRoutes:  itemRoutes{BaseHandler: base, editor: service},
		service:     service,
		clients:     clients,
		areas:       areas,
	}
}

// List handles GET /invoices.
func (h *InvoiceHandler) List(c *gin.Context) {
	var q dto.InvoiceFilterQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter, err := q.ToInvoiceFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result, func(s invoice.Summary) any { return s }))
}

// Get handles GET /invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoiceID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	inv, err := h.service.GetByID(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromInvoice(inv))
}

// Create handles POST /invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput(h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	inv, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromInvoice(inv))
}

// Update handles PUT /invoices/:id.
func (h *InvoiceHandler) Update(c *gin.Context) {
	invoiceID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	inv, err := h.service.Update(c.Request.Context(), invoiceID, in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromInvoice(inv))
}

// SetStatus handles PATCH /invoices/:id/status.
func (h *InvoiceHandler) SetStatus(c *gin.Context) {
	invoiceID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.SetStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.SetStatus(c.Request.Context(), invoiceID, req.StatusID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromInvoice(inv))
}

// Delete handles DELETE /invoices/:id.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	invoiceID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), invoiceID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Export handles GET /invoices/:id/export.obl.
func (h *InvoiceHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	invoiceID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	inv, err := h.service.GetByID(ctx, invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	cl, err := h.clients.GetByID(ctx, inv.ClientID)
	if err != nil {
		h.Error(c, err)
		return
	}
	area, err := h.areas.GetByID(ctx, inv.SalesAreaID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, obl.Filename(inv)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", obl.Format(inv, cl, area))
}
