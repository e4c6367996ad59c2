package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/securecommand/securecommand/internal/api/v1"
	"github.com/securecommand/securecommand/internal/auth"
	"github.com/securecommand/securecommand/internal/config"
	"github.com/securecommand/securecommand/internal/logger"
	"github.com/securecommand/securecommand/internal/rest/middleware"
)

// Handlers bundles the versioned HTTP handlers for router construction.
type Handlers struct {
	Plan    *v1.PlanHandler
	Company *v1.CompanyHandler
	Invoice *v1.InvoiceHandler
	Billing *v1.BillingHandler
}

// NewRouter assembles the HTTP surface. The pricing estimate and the plan
// catalog are public so the pricing page can render without an account;
// everything else is authenticated, with mutations gated by role.
func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger, provider auth.Provider) *gin.Engine {
	if cfg.Deployment.Mode == config.DeploymentModeAPI {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := router.Group("/v1")
	{
		public.GET("/pricing/estimate", handlers.Billing.Estimate)
		public.GET("/plans", handlers.Plan.ListPlans)
		public.GET("/plans/:id", handlers.Plan.GetPlan)
	}

	private := router.Group("/v1")
	private.Use(middleware.AuthenticateMiddleware(provider, log))
	{
		admin := private.Group("")
		admin.Use(middleware.RequirePlatformAdmin)
		{
			admin.POST("/plans", handlers.Plan.CreatePlan)
			admin.PUT("/plans/:id", handlers.Plan.UpdatePlan)
			admin.DELETE("/plans/:id", handlers.Plan.DeletePlan)

			admin.POST("/companies", handlers.Company.CreateCompany)
			admin.GET("/companies", handlers.Company.ListCompanies)

			admin.PUT("/billing/settings", handlers.Billing.UpdateBillingSettings)

			admin.POST("/invoices/:id/reopen", handlers.Invoice.ReopenInvoice)
		}

		companyAdmin := private.Group("")
		companyAdmin.Use(middleware.RequireCompanyAdmin)
		{
			companyAdmin.GET("/companies/:id", handlers.Company.GetCompany)
			companyAdmin.PUT("/companies/:id", handlers.Company.UpdateCompany)
			companyAdmin.POST("/companies/:id/guards", handlers.Company.CreateGuard)
			companyAdmin.GET("/companies/:id/guards", handlers.Company.ListGuards)
			companyAdmin.PUT("/guards/:id", handlers.Company.UpdateGuard)
			companyAdmin.GET("/companies/:id/billing/preview", handlers.Billing.PreviewCompanyBilling)

			companyAdmin.GET("/billing/settings", handlers.Billing.GetBillingSettings)
			companyAdmin.GET("/invoices", handlers.Invoice.ListInvoices)
			companyAdmin.GET("/invoices/:id", handlers.Invoice.GetInvoice)
			// Company-level invoice mutations; the service scopes company
			// administrators to their own company's invoices.
			companyAdmin.POST("/invoices", handlers.Invoice.GenerateInvoice)
			companyAdmin.POST("/invoices/:id/pay", handlers.Invoice.MarkInvoicePaid)
			companyAdmin.POST("/invoices/:id/overdue", handlers.Invoice.MarkInvoiceOverdue)
		}
	}

	return router
}
