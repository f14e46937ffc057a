package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"billing/internal/domain/reports"
	"billing/internal/infrastructure/http/v1/dto"
)

// ReportHandler handles report endpoints.
type ReportHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportHandler creates a new report handler.
func NewReportHandler(base *BaseHandler, service *reports.Service) *ReportHandler {
	return &ReportHandler{BaseHandler: base, service: service}
}

// Compliance handles GET /reports/compliance?month=&year=.
// Unparseable values are left to the service defaults.
func (h *ReportHandler) Compliance(c *gin.Context) {
	var q dto.ComplianceQuery
	if !h.BindQuery(c, &q) {
		return
	}

	month, _ := strconv.Atoi(q.Month)
	year, _ := strconv.Atoi(q.Year)

	report, err := h.service.Compliance(c.Request.Context(), year, month)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCompliance(report))
}

// Dashboard handles GET /reports/dashboard.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDashboard(d))
}
