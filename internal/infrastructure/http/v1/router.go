// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"billing/internal/domain/auth"
	"billing/internal/domain/catalogs/activity"
	"billing/internal/domain/catalogs/client"
	"billing/internal/domain/catalogs/company"
	"billing/internal/domain/catalogs/salesarea"
	"billing/internal/domain/catalogs/status"
	"billing/internal/domain/documents/invoice"
	"billing/internal/domain/documents/offer"
	"billing/internal/domain/drafts"
	"billing/internal/domain/plans"
	"billing/internal/domain/reports"
	"billing/internal/infrastructure/http/v1/handlers"
	"billing/internal/infrastructure/http/v1/middleware"
	"billing/pkg/logger"
)

// Services are the domain services exposed over HTTP.
type Services struct {
	Activities *activity.Service
	Clients    *client.Service
	Areas      *salesarea.Service
	Statuses   *status.Service
	Company    *company.Service
	Plans      *plans.Service
	Offers     *offer.Service
	Invoices   *invoice.Service
	Drafts     *drafts.Service
	Reports    *reports.Service

	// Auth may be nil when authentication is disabled
	Auth *auth.Service

	// ActivityLog may be nil, which leaves /activity-log unregistered
	ActivityLog handlers.ActivityLogReader
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// DB is checked by the readiness probe
	DB handlers.Pinger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthEnabled=false runs every request as the development user
	AuthEnabled bool

	// Debug switches gin to debug mode
	Debug bool

	Services Services
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	{
		registerAuthRoutes(api, base, cfg)

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator, cfg.AuthEnabled))

		registerCatalogRoutes(protected, base, cfg.Services)
		registerDocumentRoutes(protected, base, cfg.Services)
		registerReportRoutes(protected, base, cfg.Services)
	}

	return router
}

func registerAuthRoutes(api *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	svc := cfg.Services
	if svc.Auth == nil {
		return
	}
	authHandler := handlers.NewAuthHandler(base, svc.Auth)

	group := api.Group("/auth")
	group.POST("/login", authHandler.Login)
	group.GET("/me", middleware.Auth(cfg.JWTValidator, cfg.AuthEnabled), authHandler.Me)
}

func registerCatalogRoutes(api *gin.RouterGroup, base *handlers.BaseHandler, svc Services) {
	RegisterCatalogRoutes(api.Group("/activities"),
		handlers.NewActivityHandler(base, svc.Activities), auth.PermActivitiesView, auth.PermActivitiesEdit)
	RegisterCatalogRoutes(api.Group("/clients"),
		handlers.NewClientHandler(base, svc.Clients), auth.PermClientsView, auth.PermClientsEdit)
	RegisterCatalogRoutes(api.Group("/sales-areas"),
		handlers.NewSalesAreaHandler(base, svc.Areas), auth.PermAreasView, auth.PermAreasEdit)
	RegisterCatalogRoutes(api.Group("/statuses"),
		handlers.NewStatusHandler(base, svc.Statuses), auth.PermStatusesView, auth.PermStatusesEdit)

	companyHandler := handlers.NewCompanyHandler(base, svc.Company)
	api.GET("/company", middleware.RequirePermission(auth.PermCompanyView), companyHandler.Get)
	api.PUT("/company", middleware.RequirePermission(auth.PermCompanyEdit), companyHandler.Update)

	planHandler := handlers.NewPlanHandler(base, svc.Plans)
	plansGroup := api.Group("/plans")
	{
		view := middleware.RequirePermission(auth.PermPlansView)
		edit := middleware.RequirePermission(auth.PermPlansEdit)
		plansGroup.GET("", view, planHandler.List)
		plansGroup.GET("/years", view, planHandler.Years)
		plansGroup.POST("", edit, planHandler.Create)
		plansGroup.GET("/:id", view, planHandler.Get)
		plansGroup.PUT("/:id", edit, planHandler.Update)
		plansGroup.DELETE("/:id", edit, planHandler.Delete)
	}
}

func registerDocumentRoutes(api *gin.RouterGroup, base *handlers.BaseHandler, svc Services) {
	offerHandler := handlers.NewOfferHandler(base, svc.Offers, svc.Invoices)
	offers := api.Group("/offers")
	RegisterDocumentRoutes(offers, offerHandler, auth.PermOffersView, auth.PermOffersEdit)
	offers.POST("/:id/promote", middleware.RequirePermission(auth.PermOffersPromote), offerHandler.Promote)
	offers.GET("/:id/invoices",
		middleware.RequireAnyPermission(auth.PermOffersView, auth.PermInvoicesView), offerHandler.Invoices)

	draftHandler := handlers.NewDraftHandler(base, svc.Drafts)
	draftsGroup := api.Group("/offer-drafts", middleware.RequirePermission(auth.PermOffersEdit))
	{
		draftsGroup.POST("", draftHandler.Start)
		draftsGroup.GET("/:token", draftHandler.Get)
		draftsGroup.POST("/:token/items", draftHandler.AddItem)
		draftsGroup.DELETE("/:token/items/:index", draftHandler.RemoveItem)
		draftsGroup.POST("/:token/finalize", draftHandler.Finalize)
		draftsGroup.DELETE("/:token", draftHandler.Discard)
	}

	invoiceHandler := handlers.NewInvoiceHandler(base, svc.Invoices, svc.Clients, svc.Areas)
	invoices := api.Group("/invoices")
	RegisterDocumentRoutes(invoices, invoiceHandler, auth.PermInvoicesView, auth.PermInvoicesEdit)
	invoices.PATCH("/:id/status", middleware.RequirePermission(auth.PermInvoicesEdit), invoiceHandler.SetStatus)
	invoices.GET("/:id/export.obl", middleware.RequirePermission(auth.PermInvoicesExport), invoiceHandler.Export)
}

func registerReportRoutes(api *gin.RouterGroup, base *handlers.BaseHandler, svc Services) {
	reportHandler := handlers.NewReportHandler(base, svc.Reports)
	reportsGroup := api.Group("/reports", middleware.RequirePermission(auth.PermReportsView))
	{
		reportsGroup.GET("/compliance", reportHandler.Compliance)
		reportsGroup.GET("/dashboard", reportHandler.Dashboard)
	}

	if svc.ActivityLog != nil {
		logHandler := handlers.NewActivityLogHandler(base, svc.ActivityLog)
		api.GET("/activity-log", middleware.RequirePermission(auth.PermActivityLog), logHandler.List)
	}
}
