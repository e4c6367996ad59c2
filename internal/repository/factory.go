package repository

import (
	"github.com/securecommand/securecommand/internal/domain/billing"
	"github.com/securecommand/securecommand/internal/domain/guard"
	"github.com/securecommand/securecommand/internal/domain/invoice"
	"github.com/securecommand/securecommand/internal/domain/plan"
	"github.com/securecommand/securecommand/internal/domain/tenant"
	"github.com/securecommand/securecommand/internal/logger"
	"github.com/securecommand/securecommand/internal/postgres"
	pgrepo "github.com/securecommand/securecommand/internal/repository/postgres"
)

// Repositories bundles every persistence interface of the engine.
type Repositories struct {
	CompanyRepo  tenant.Repository
	PlanRepo     plan.Repository
	GuardRepo    guard.Repository
	InvoiceRepo  invoice.Repository
	SettingsRepo billing.SettingsRepository
}

// NewRepositories wires the postgres implementations against the shared client.
func NewRepositories(client postgres.IClient, log *logger.Logger) *Repositories {
	return &Repositories{
		CompanyRepo:  pgrepo.NewCompanyRepository(client, log),
		PlanRepo:     pgrepo.NewPlanRepository(client, log),
		GuardRepo:    pgrepo.NewGuardRepository(client, log),
		InvoiceRepo:  pgrepo.NewInvoiceRepository(client, log),
		SettingsRepo: pgrepo.NewSettingsRepository(client, log),
	}
}
