package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"billing/internal/core/id"
	"billing/internal/domain/documents/lines"
	"billing/internal/infrastructure/http/v1/dto"
)

// lineEditor is the line-item surface shared by offers and invoices.
type lineEditor interface {
	AddItem(ctx context.Context, documentID, activityID id.ID, quantity int) (*lines.Item, error)
	UpdateQuantity(ctx context.Context, documentID, itemID id.ID, quantity int) (*lines.Item, error)
	RemoveItem(ctx context.Context, documentID, itemID id.ID) error
}

// itemRoutes implements the items sub-resource over a lineEditor.
type itemRoutes struct {
	*BaseHandler
	editor lineEditor
}

// AddItem handles POST /{document}/:id/items.
func (h itemRoutes) AddItem(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.editor.AddItem(c.Request.Context(), docID, req.ActivityID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem handles PATCH /{document}/:id/items/:itemId.
func (h itemRoutes) UpdateItem(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	var req dto.QuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.editor.UpdateQuantity(c.Request.Context(), docID, itemID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// RemoveItem handles DELETE /{document}/:id/items/:itemId.
func (h itemRoutes) RemoveItem(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	if err := h.editor.RemoveItem(c.Request.Context(), docID, itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
