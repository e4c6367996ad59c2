package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/securecommand/securecommand/internal/api/dto"
	"github.com/securecommand/securecommand/internal/domain/billing"
	"github.com/securecommand/securecommand/internal/domain/guard"
	"github.com/securecommand/securecommand/internal/domain/invoice"
	"github.com/securecommand/securecommand/internal/domain/plan"
	"github.com/securecommand/securecommand/internal/domain/tenant"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/testutil"
	"github.com/securecommand/securecommand/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service InvoiceService
	company *tenant.Company
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewInvoiceService(s.params())
	s.setupTestData()
}

func (s *InvoiceServiceSuite) params() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		CompanyRepo:  stores.CompanyRepo,
		PlanRepo:     stores.PlanRepo,
		GuardRepo:    stores.GuardRepo,
		InvoiceRepo:  stores.InvoiceRepo,
		SettingsRepo: stores.SettingsRepo,
		Cache:        s.GetCache(),
	}
}

func (s *InvoiceServiceSuite) setupTestData() {
	ctx := s.GetContext()
	stores := s.GetStores()

	s.Require().NoError(stores.SettingsRepo.Upsert(ctx, &billing.PricingConfig{
		ID:                 "bset_default",
		DefaultLicenseFee:  decimal.NewFromInt(500),
		DefaultPerGuardFee: decimal.RequireFromString("2.50"),
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}))

	s.company = &tenant.Company{
		ID:        "company_test",
		Name:      "Test Security Co",
		Active:    true,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(stores.CompanyRepo.Create(ctx, s.company))

	for i := 0; i < 100; i++ {
		g := &guard.Guard{
			ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_GUARD),
			CompanyID: s.company.ID,
			Name:      "Guard",
			Active:    true,
			BaseModel: types.GetDefaultBaseModel(ctx),
		}
		s.Require().NoError(stores.GuardRepo.Create(ctx, g))
	}
}

func (s *InvoiceServiceSuite) generate() *dto.InvoiceResponse {
	resp, err := s.service.GenerateInvoice(s.GetContext(), dto.GenerateInvoiceRequest{
		CompanyID:    s.company.ID,
		BillingCycle: types.BillingCycleMonthly,
	})
	s.Require().NoError(err)
	return resp
}

func (s *InvoiceServiceSuite) TestGenerateInvoiceFromDefaults() {
	resp := s.generate()

	// 500 + 2.50 * 100
	s.Equal("750.00", resp.Amount.StringFixed(2))
	s.Equal(types.InvoiceStatusPending, resp.InvoiceStatus)
	s.Equal("USD", resp.Currency)
	s.True(strings.HasPrefix(resp.InvoiceNumber, "INV-"))
	s.Nil(resp.PaidAt)
	s.False(resp.DueDate.IsZero())
}

func (s *InvoiceServiceSuite) TestGenerateInvoiceWithLicenseOverride() {
	ctx := s.GetContext()
	stores := s.GetStores()

	s.company.CustomLicenseFee = lo.ToPtr(decimal.NewFromInt(300))
	s.Require().NoError(stores.CompanyRepo.Update(ctx, s.company))

	resp := s.generate()

	// 300 + 2.50 * 100: the per-guard default still applies.
	s.Equal("550.00", resp.Amount.StringFixed(2))
}

func (s *InvoiceServiceSuite) TestGenerateInvoiceUsesPlanRates() {
	ctx := s.GetContext()
	stores := s.GetStores()

	p := &plan.Plan{
		ID:                 "plan_pro",
		Name:               "Pro",
		LicenseFeeMonthly:  decimal.NewFromInt(400),
		LicenseFeeYearly:   decimal.NewFromInt(4000),
		PerGuardFeeMonthly: decimal.NewFromInt(2),
		PerGuardFeeYearly:  decimal.NewFromInt(20),
		Currency:           "EUR",
		MaxUsers:           types.UnlimitedSentinel,
		MaxSites:           types.UnlimitedSentinel,
		MaxGuards:          types.UnlimitedSentinel,
		Active:             true,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(stores.PlanRepo.Create(ctx, p))

	s.company.PlanID = lo.ToPtr(p.ID)
	s.Require().NoError(stores.CompanyRepo.Update(ctx, s.company))

	resp := s.generate()

	// 400 + 2 * 100, in the plan currency.
	s.Equal("600.00", resp.Amount.StringFixed(2))
	s.Equal("EUR", resp.Currency)

	yearly, err := s.service.GenerateInvoice(ctx, dto.GenerateInvoiceRequest{
		CompanyID:    s.company.ID,
		BillingCycle: types.BillingCycleYearly,
	})
	s.Require().NoError(err)

	// 4000 + 20 * 100
	s.Equal("6000.00", yearly.Amount.StringFixed(2))
}

func (s *InvoiceServiceSuite) TestGenerateInvoiceUnconfiguredPricing() {
	s.GetStores().SettingsRepo.Clear()

	_, err := s.service.GenerateInvoice(s.GetContext(), dto.GenerateInvoiceRequest{
		CompanyID:    s.company.ID,
		BillingCycle: types.BillingCycleMonthly,
	})
	s.Error(err)
	s.True(ierr.IsUnconfiguredPricing(err))
}

func (s *InvoiceServiceSuite) TestGenerateInvoiceDeactivatedCompany() {
	ctx := s.GetContext()
	s.company.Active = false
	s.Require().NoError(s.GetStores().CompanyRepo.Update(ctx, s.company))

	_, err := s.service.GenerateInvoice(ctx, dto.GenerateInvoiceRequest{
		CompanyID:    s.company.ID,
		BillingCycle: types.BillingCycleMonthly,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestGenerateInvoiceUnknownCompany() {
	_, err := s.service.GenerateInvoice(s.GetContext(), dto.GenerateInvoiceRequest{
		CompanyID:    "company_missing",
		BillingCycle: types.BillingCycleMonthly,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestGenerateInvoiceExplicitDueDate() {
	due := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	resp, err := s.service.GenerateInvoice(s.GetContext(), dto.GenerateInvoiceRequest{
		CompanyID:    s.company.ID,
		BillingCycle: types.BillingCycleMonthly,
		DueDate:      &due,
	})
	s.Require().NoError(err)
	s.True(resp.DueDate.Equal(due))
}

func (s *InvoiceServiceSuite) TestGenerateInvoiceOperatorAmount() {
	resp, err := s.service.GenerateInvoice(s.GetContext(), dto.GenerateInvoiceRequest{
		CompanyID:    s.company.ID,
		BillingCycle: types.BillingCycleMonthly,
		Amount:       lo.ToPtr(decimal.RequireFromString("725.00")),
	})
	s.Require().NoError(err)

	// The negotiated amount replaces the computed 750.00 draft total.
	s.Equal("725.00", resp.Amount.StringFixed(2))
}

func (s *InvoiceServiceSuite) TestGenerateInvoiceNegativeAmountRejected() {
	_, err := s.service.GenerateInvoice(s.GetContext(), dto.GenerateInvoiceRequest{
		CompanyID:    s.company.ID,
		BillingCycle: types.BillingCycleMonthly,
		Amount:       lo.ToPtr(decimal.NewFromInt(-10)),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestMarkInvoicePaid() {
	inv := s.generate()

	paid, err := s.service.MarkInvoicePaid(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, paid.InvoiceStatus)
	s.NotNil(paid.PaidAt)
}

func (s *InvoiceServiceSuite) TestMarkInvoicePaidIsIdempotent() {
	inv := s.generate()

	first, err := s.service.MarkInvoicePaid(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Require().NotNil(first.PaidAt)

	second, err := s.service.MarkInvoicePaid(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, second.InvoiceStatus)
	s.Require().NotNil(second.PaidAt)
	s.True(first.PaidAt.Equal(*second.PaidAt))
}

func (s *InvoiceServiceSuite) TestPaidIsTerminal() {
	inv := s.generate()

	_, err := s.service.MarkInvoicePaid(s.GetContext(), inv.ID)
	s.Require().NoError(err)

	_, err = s.service.MarkInvoiceOverdue(s.GetContext(), inv.ID)
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))

	_, err = s.service.ReopenInvoice(s.GetContext(), inv.ID)
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))
}

func (s *InvoiceServiceSuite) TestMarkOverdueAndPayLate() {
	inv := s.generate()

	overdue, err := s.service.MarkInvoiceOverdue(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusOverdue, overdue.InvoiceStatus)

	paid, err := s.service.MarkInvoicePaid(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPaid, paid.InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestReopenInvoice() {
	inv := s.generate()

	_, err := s.service.MarkInvoiceOverdue(s.GetContext(), inv.ID)
	s.Require().NoError(err)

	reopened, err := s.service.ReopenInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoiceStatusPending, reopened.InvoiceStatus)

	// Reopening is not idempotent: a pending invoice cannot be reopened.
	_, err = s.service.ReopenInvoice(s.GetContext(), inv.ID)
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))
}

func (s *InvoiceServiceSuite) TestReopenRequiresPlatformAdmin() {
	inv := s.generate()
	_, err := s.service.MarkInvoiceOverdue(s.GetContext(), inv.ID)
	s.Require().NoError(err)

	ctx := types.SetUserRole(s.GetContext(), types.UserRoleCompanyAdmin)
	ctx = types.SetTenantID(ctx, s.company.ID)

	_, err = s.service.ReopenInvoice(ctx, inv.ID)
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *InvoiceServiceSuite) TestCompanyAdminCannotPayOtherCompanies() {
	inv := s.generate()

	ctx := types.SetUserRole(s.GetContext(), types.UserRoleCompanyAdmin)
	ctx = types.SetTenantID(ctx, "company_other")

	_, err := s.service.MarkInvoicePaid(ctx, inv.ID)
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *InvoiceServiceSuite) TestCompanyAdminGeneratesOwnInvoices() {
	ctx := types.SetUserRole(s.GetContext(), types.UserRoleCompanyAdmin)
	ctx = types.SetTenantID(ctx, s.company.ID)

	resp, err := s.service.GenerateInvoice(ctx, dto.GenerateInvoiceRequest{
		CompanyID:    s.company.ID,
		BillingCycle: types.BillingCycleMonthly,
	})
	s.Require().NoError(err)
	s.Equal("750.00", resp.Amount.StringFixed(2))
}

func (s *InvoiceServiceSuite) TestCompanyAdminCannotGenerateForOtherCompanies() {
	ctx := types.SetUserRole(s.GetContext(), types.UserRoleCompanyAdmin)
	ctx = types.SetTenantID(ctx, "company_other")

	_, err := s.service.GenerateInvoice(ctx, dto.GenerateInvoiceRequest{
		CompanyID:    s.company.ID,
		BillingCycle: types.BillingCycleMonthly,
	})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *InvoiceServiceSuite) TestConcurrentGenerationMintsUniqueNumbers() {
	ctx := s.GetContext()

	const n = 20
	var wg sync.WaitGroup
	results := make([]*dto.InvoiceResponse, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.service.GenerateInvoice(ctx, dto.GenerateInvoiceRequest{
				CompanyID:    s.company.ID,
				BillingCycle: types.BillingCycleMonthly,
			})
		}(i)
	}
	wg.Wait()

	numbers := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		s.Require().NoError(errs[i])
		numbers[results[i].InvoiceNumber] = struct{}{}
	}
	s.Len(numbers, n)
}

// collidingInvoiceRepo reports a duplicate invoice number for the first
// Create calls, simulating a lost race on the unique constraint.
type collidingInvoiceRepo struct {
	invoice.Repository
	collisions int
}

func (r *collidingInvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	if r.collisions > 0 {
		r.collisions--
		return ierr.NewError("invoice number already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return r.Repository.Create(ctx, inv)
}

func (s *InvoiceServiceSuite) TestGenerateRemintsOnNumberCollision() {
	req := dto.GenerateInvoiceRequest{
		CompanyID:    s.company.ID,
		BillingCycle: types.BillingCycleMonthly,
	}

	params := s.params()
	params.InvoiceRepo = &collidingInvoiceRepo{Repository: params.InvoiceRepo, collisions: 1}
	service := NewInvoiceService(params)

	resp, err := service.GenerateInvoice(s.GetContext(), req)
	s.Require().NoError(err)
	s.Equal("750.00", resp.Amount.StringFixed(2))

	// A collision on the re-minted number too is surfaced, not retried again.
	params.InvoiceRepo = &collidingInvoiceRepo{Repository: s.GetStores().InvoiceRepo, collisions: 2}
	service = NewInvoiceService(params)

	_, err = service.GenerateInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *InvoiceServiceSuite) TestConcurrentTransitionSurfacesStaleState() {
	inv := s.generate()
	stores := s.GetStores()

	// Another request pays the invoice after we loaded it.
	s.Require().NoError(stores.InvoiceRepo.UpdateStatus(
		s.GetContext(), inv.ID, types.InvoiceStatusPending, types.InvoiceStatusPaid))

	err := stores.InvoiceRepo.UpdateStatus(
		s.GetContext(), inv.ID, types.InvoiceStatusPending, types.InvoiceStatusOverdue)
	s.Error(err)
	s.True(ierr.IsStaleState(err))
}

func (s *InvoiceServiceSuite) TestListInvoicesByCompany() {
	first := s.generate()
	second := s.generate()
	s.NotEqual(first.InvoiceNumber, second.InvoiceNumber)

	resp, err := s.service.ListInvoices(s.GetContext(), &types.InvoiceFilter{
		QueryFilter: types.NewDefaultQueryFilter(),
		CompanyID:   lo.ToPtr(s.company.ID),
	})
	s.Require().NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(2, resp.Pagination.Total)
}

func (s *InvoiceServiceSuite) TestGetInvoiceByNumber() {
	inv := s.generate()

	resp, err := s.service.GetInvoiceByNumber(s.GetContext(), inv.InvoiceNumber)
	s.Require().NoError(err)
	s.Equal(inv.ID, resp.ID)

	_, err = s.service.GetInvoiceByNumber(s.GetContext(), "INV-UNKNOWN")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
