package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"billing/internal/core/apperror"
	"billing/internal/domain/drafts"
	"billing/internal/infrastructure/http/v1/dto"
)

// DraftHandler handles the step-by-step offer drafts.
type DraftHandler struct {
	*BaseHandler
	service *drafts.Service
	now     func() time.Time
}

// NewDraftHandler creates a new draft handler.
func NewDraftHandler(base *BaseHandler, service *drafts.Service) *DraftHandler {
	return &DraftHandler{BaseHandler: base, service: service, now: time.Now}
}

func (h *DraftHandler) respond(c *gin.Context, status int, d *drafts.Draft) {
	c.JSON(status, dto.FromDraft(d, h.now()))
}

// Start handles POST /offer-drafts.
func (h *DraftHandler) Start(c *gin.Context) {
	var req dto.StartDraftRequest
	if !h.BindJSON(c, &req) {
		return
	}

	d, err := h.service.Start(c.Request.Context(), req.ToHeader(), h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.respond(c, http.StatusCreated, d)
}

// Get handles GET /offer-drafts/:token.
func (h *DraftHandler) Get(c *gin.Context) {
	d, err := h.service.Get(c.Request.Context(), c.Param("token"), h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.respond(c, http.StatusOK, d)
}

// AddItem handles POST /offer-drafts/:token/items.
func (h *DraftHandler) AddItem(c *gin.Context) {
	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	d, err := h.service.AddItem(c.Request.Context(), c.Param("token"), h.GetUserID(c), req.ActivityID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.respond(c, http.StatusOK, d)
}

// RemoveItem handles DELETE /offer-drafts/:token/items/:index.
func (h *DraftHandler) RemoveItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid index").WithDetail("field", "index"))
		return
	}

	d, err := h.service.RemoveItem(c.Request.Context(), c.Param("token"), h.GetUserID(c), index)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.respond(c, http.StatusOK, d)
}

// Finalize handles POST /offer-drafts/:token/finalize.
func (h *DraftHandler) Finalize(c *gin.Context) {
	o, err := h.service.Finalize(c.Request.Context(), c.Param("token"), h.GetUserID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromOffer(o))
}

// Discard handles DELETE /offer-drafts/:token.
func (h *DraftHandler) Discard(c *gin.Context) {
	if err := h.service.Discard(c.Request.Context(), c.Param("token"), h.GetUserID(c)); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
