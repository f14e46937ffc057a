package handlers

import (
	"github.com/gin-gonic/gin"

	"billing/internal/domain/plans"
	"billing/internal/infrastructure/http/v1/dto"
)

// PlanHandler handles the monthly sales plans.
type PlanHandler struct {
	*BaseHandler
	service *plans.Service
}

// NewPlanHandler creates a new plan handler.
func NewPlanHandler(base *BaseHandler, service *plans.Service) *PlanHandler {
	return &PlanHandler{BaseHandler: base, service: service}
}

// List handles GET /plans.
func (h *PlanHandler) List(c *gin.Context) {
	var q dto.PlanFilterQuery
	if !h.BindQuery(c, &q) {
		return
	}

	areaID, err := dto.ParseOptionalID("salesAreaId", q.SalesAreaID)
	if err != nil {
		h.Error(c, err)
		return
	}

	list, err := h.service.List(c.Request.Context(), plans.Filter{
		SalesAreaID: areaID,
		Year:        q.Year,
		Month:       q.Month,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.PlanResponse, len(list))
	for i, p := range list {
		items[i] = dto.FromPlan(p)
	}
	h.OK(c, gin.H{"items": items})
}

// Get handles GET /plans/:id.
func (h *PlanHandler) Get(c *gin.Context) {
	planID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), planID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromPlan(p))
}

// Create handles POST /plans.
func (h *PlanHandler) Create(c *gin.Context) {
	var req dto.CreatePlanRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToPlan()
	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromPlan(p))
}

// Update handles PUT /plans/:id.
func (h *PlanHandler) Update(c *gin.Context) {
	planID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePlanRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.UpdateAmount(c.Request.Context(), planID, *req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromPlan(p))
}

// Delete handles DELETE /plans/:id.
func (h *PlanHandler) Delete(c *gin.Context) {
	planID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), planID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Years handles GET /plans/years.
func (h *PlanHandler) Years(c *gin.Context) {
	years, err := h.service.Years(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if years == nil {
		years = []int{}
	}
	h.OK(c, gin.H{"years": years})
}
