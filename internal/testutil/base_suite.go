package testutil

import (
	"context"

	"github.com/securecommand/securecommand/internal/cache"
	"github.com/securecommand/securecommand/internal/config"
	"github.com/securecommand/securecommand/internal/logger"
	"github.com/securecommand/securecommand/internal/types"
	"github.com/stretchr/testify/suite"
)

// Stores bundles the in-memory repositories backing a service test suite.
type Stores struct {
	CompanyRepo  *InMemoryCompanyStore
	PlanRepo     *InMemoryPlanStore
	GuardRepo    *InMemoryGuardStore
	InvoiceRepo  *InMemoryInvoiceStore
	SettingsRepo *InMemorySettingsStore
}

func NewStores() Stores {
	return Stores{
		CompanyRepo:  NewInMemoryCompanyStore(),
		PlanRepo:     NewInMemoryPlanStore(),
		GuardRepo:    NewInMemoryGuardStore(),
		InvoiceRepo:  NewInMemoryInvoiceStore(),
		SettingsRepo: NewInMemorySettingsStore(),
	}
}

// BaseServiceTestSuite provides the shared fixture for service tests: a
// context carrying an acting platform administrator, a test logger and a
// fresh set of in-memory stores per test.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	cfg    *config.Configuration
	logger *logger.Logger
	cache  cache.Cache
	stores Stores
}

// SetupTest initializes fresh state. Suites overriding SetupTest must call
// this first.
func (s *BaseServiceTestSuite) SetupTest() {
	s.cfg = config.GetDefaultConfig()

	log, err := logger.NewLogger(s.cfg)
	s.Require().NoError(err)
	s.logger = log

	s.cache = cache.NewInMemoryCache()
	s.stores = NewStores()

	ctx := context.Background()
	ctx = types.SetRequestID(ctx, types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST))
	ctx = types.SetUserID(ctx, types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER))
	ctx = types.SetUserRole(ctx, types.UserRolePlatformAdmin)
	s.ctx = ctx
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// SetContext replaces the suite context, e.g. to act as a different role.
func (s *BaseServiceTestSuite) SetContext(ctx context.Context) {
	s.ctx = ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// ClearStores resets all repositories without touching the context.
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.CompanyRepo.Clear()
	s.stores.PlanRepo.Clear()
	s.stores.GuardRepo.Clear()
	s.stores.InvoiceRepo.Clear()
	s.stores.SettingsRepo.Clear()
}
