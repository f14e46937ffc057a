// Package handlers provides HTTP request handlers.
package handlers

import (
	"github.com/gin-gonic/gin"

	"billing/internal/core/entity"
	"billing/internal/domain"
	"billing/internal/infrastructure/http/v1/dto"
)

// CatalogHandler provides generic HTTP handlers for catalog entities.
// Create and Update share one request type per catalog.
type CatalogHandler[T entity.Validatable, Req any] struct {
	*BaseHandler
	service *domain.CatalogService[T]

	// Mapper functions
	mapCreate func(req Req) (T, error)
	mapUpdate func(req Req, existing T) (T, error)
	mapToDTO  func(entity T) any
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T entity.Validatable, Req any] struct {
	Service   *domain.CatalogService[T]
	MapCreate func(req Req) (T, error)
	MapUpdate func(req Req, existing T) (T, error)

	// MapToDTO defaults to returning the entity itself
	MapToDTO func(entity T) any
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T entity.Validatable, Req any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, Req],
) *CatalogHandler[T, Req] {
	mapToDTO := cfg.MapToDTO
	if mapToDTO == nil {
		mapToDTO = func(e T) any { return e }
	}
	return &CatalogHandler[T, Req]{
		BaseHandler: base,
		service:     cfg.Service,
		mapCreate:   cfg.MapCreate,
		mapUpdate:   cfg.MapUpdate,
		mapToDTO:    mapToDTO,
	}
}

// List handles GET /{entity} - list with filtering and pagination.
func (h *CatalogHandler[T, Req]) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result, h.mapToDTO))
}

// Get handles GET /{entity}/:id - get single entity.
func (h *CatalogHandler[T, Req]) Get(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.mapToDTO(e))
}

// Create handles POST /{entity} - create new entity.
func (h *CatalogHandler[T, Req]) Create(c *gin.Context) {
	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	e, err := h.mapCreate(req)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, h.mapToDTO(e))
}

// Update handles PUT /{entity}/:id - update existing entity.
func (h *CatalogHandler[T, Req]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.mapUpdate(req, existing)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, updated); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.mapToDTO(updated))
}

// Delete handles DELETE /{entity}/:id. Depending on the catalog this
// deactivates the record or removes it when nothing references it.
func (h *CatalogHandler[T, Req]) Delete(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// setActiveRequest toggles the active flag.
type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive handles POST /{entity}/:id/active.
func (h *CatalogHandler[T, Req]) SetActive(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req setActiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetActive(c.Request.Context(), entityID, *req.Active); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "active flag updated")
}
