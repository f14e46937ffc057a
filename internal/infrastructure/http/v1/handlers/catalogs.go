package handlers

import (
	"github.com/gin-gonic/gin"

	"billing/internal/domain/catalogs/activity"
	"billing/internal/domain/catalogs/client"
	"billing/internal/domain/catalogs/company"
	"billing/internal/domain/catalogs/salesarea"
	"billing/internal/domain/catalogs/status"
	"billing/internal/infrastructure/http/v1/dto"
)

// NewActivityHandler creates the activity catalog handler.
func NewActivityHandler(base *BaseHandler, svc *activity.Service) *CatalogHandler[*activity.Activity, dto.ActivityRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*activity.Activity, dto.ActivityRequest]{
		Service: svc.CatalogService,
		MapCreate: func(req dto.ActivityRequest) (*activity.Activity, error) {
			return req.ToActivity(), nil
		},
		MapUpdate: func(req dto.ActivityRequest, existing *activity.Activity) (*activity.Activity, error) {
			return req.ApplyTo(existing), nil
		},
	})
}

// NewClientHandler creates the client catalog handler.
func NewClientHandler(base *BaseHandler, svc *client.Service) *CatalogHandler[*client.Client, dto.ClientRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*client.Client, dto.ClientRequest]{
		Service: svc.CatalogService,
		MapCreate: func(req dto.ClientRequest) (*client.Client, error) {
			return req.ApplyTo(nil)
		},
		MapUpdate: func(req dto.ClientRequest, existing *client.Client) (*client.Client, error) {
			return req.ApplyTo(existing)
		},
		MapToDTO: func(c *client.Client) any {
			return dto.FromClient(c)
		},
	})
}

// NewSalesAreaHandler creates the sales area catalog handler.
func NewSalesAreaHandler(base *BaseHandler, svc *salesarea.Service) *CatalogHandler[*salesarea.SalesArea, dto.SalesAreaRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*salesarea.SalesArea, dto.SalesAreaRequest]{
		Service: svc.CatalogService,
		MapCreate: func(req dto.SalesAreaRequest) (*salesarea.SalesArea, error) {
			return req.ToSalesArea(), nil
		},
		MapUpdate: func(req dto.SalesAreaRequest, existing *salesarea.SalesArea) (*salesarea.SalesArea, error) {
			return req.ApplyTo(existing), nil
		},
	})
}

// NewStatusHandler creates the status catalog handler.
func NewStatusHandler(base *BaseHandler, svc *status.Service) *CatalogHandler[*status.Status, dto.StatusRequest] {
	return NewCatalogHandler(base, CatalogHandlerConfig[*status.Status, dto.StatusRequest]{
		Service: svc.CatalogService,
		MapCreate: func(req dto.StatusRequest) (*status.Status, error) {
			return req.ToStatus(), nil
		},
		MapUpdate: func(req dto.StatusRequest, existing *status.Status) (*status.Status, error) {
			return req.ApplyTo(existing), nil
		},
	})
}

// CompanyHandler serves the company profile.
type CompanyHandler struct {
	*BaseHandler
	service *company.Service
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(base *BaseHandler, service *company.Service) *CompanyHandler {
	return &CompanyHandler{BaseHandler: base, service: service}
}

// Get handles GET /company.
func (h *CompanyHandler) Get(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, profile)
}

// Update handles PUT /company.
func (h *CompanyHandler) Update(c *gin.Context) {
	var req dto.CompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	profile := req.ToCompany()
	if err := h.service.Save(c.Request.Context(), profile); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, profile)
}
