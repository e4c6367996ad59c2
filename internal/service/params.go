package service

import (
	"github.com/securecommand/securecommand/internal/cache"
	"github.com/securecommand/securecommand/internal/config"
	"github.com/securecommand/securecommand/internal/domain/billing"
	"github.com/securecommand/securecommand/internal/domain/guard"
	"github.com/securecommand/securecommand/internal/domain/invoice"
	"github.com/securecommand/securecommand/internal/domain/plan"
	"github.com/securecommand/securecommand/internal/domain/tenant"
	"github.com/securecommand/securecommand/internal/logger"
	"github.com/securecommand/securecommand/internal/postgres"
)

// ServiceParams bundles the dependencies shared by every service. Services
// embed it so construction sites stay uniform as the dependency set grows.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	CompanyRepo  tenant.Repository
	PlanRepo     plan.Repository
	GuardRepo    guard.Repository
	InvoiceRepo  invoice.Repository
	SettingsRepo billing.SettingsRepository

	Cache cache.Cache
}
