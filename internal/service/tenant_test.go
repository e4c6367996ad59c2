package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/securecommand/securecommand/internal/api/dto"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/testutil"
	"github.com/securecommand/securecommand/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CompanyServiceSuite struct {
	testutil.BaseServiceTestSuite
	service      CompanyService
	guardService GuardService
	planService  PlanService
}

func TestCompanyService(t *testing.T) {
	suite.Run(t, new(CompanyServiceSuite))
}

func (s *CompanyServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	params := ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		CompanyRepo:  stores.CompanyRepo,
		PlanRepo:     stores.PlanRepo,
		GuardRepo:    stores.GuardRepo,
		InvoiceRepo:  stores.InvoiceRepo,
		SettingsRepo: stores.SettingsRepo,
		Cache:        s.GetCache(),
	}
	s.service = NewCompanyService(params)
	s.guardService = NewGuardService(params)
	s.planService = NewPlanService(params)
}

func (s *CompanyServiceSuite) createPlan(active bool) string {
	req := dto.CreatePlanRequest{
		Name:               "Starter",
		LicenseFeeMonthly:  decimal.NewFromInt(100),
		LicenseFeeYearly:   decimal.NewFromInt(1000),
		PerGuardFeeMonthly: decimal.NewFromInt(1),
		PerGuardFeeYearly:  decimal.NewFromInt(10),
		Currency:           "USD",
		MaxUsers:           types.UnlimitedSentinel,
		MaxSites:           types.UnlimitedSentinel,
		MaxGuards:          types.UnlimitedSentinel,
		Active:             active,
	}
	resp, err := s.planService.CreatePlan(s.GetContext(), req)
	s.Require().NoError(err)
	return resp.ID
}

func (s *CompanyServiceSuite) TestCreateCompany() {
	resp, err := s.service.CreateCompany(s.GetContext(), dto.CreateCompanyRequest{
		Name: "Shield Services",
	})
	s.Require().NoError(err)
	s.Contains(resp.ID, "company_")
	s.True(resp.Active)
	s.Nil(resp.PlanID)
	s.Nil(resp.CustomLicenseFee)
}

func (s *CompanyServiceSuite) TestCreateCompanyWithPlan() {
	planID := s.createPlan(true)

	resp, err := s.service.CreateCompany(s.GetContext(), dto.CreateCompanyRequest{
		Name:   "Shield Services",
		PlanID: lo.ToPtr(planID),
	})
	s.Require().NoError(err)
	s.Require().NotNil(resp.PlanID)
	s.Equal(planID, *resp.PlanID)
}

func (s *CompanyServiceSuite) TestCreateCompanyRejectsInactivePlan() {
	planID := s.createPlan(false)

	_, err := s.service.CreateCompany(s.GetContext(), dto.CreateCompanyRequest{
		Name:   "Shield Services",
		PlanID: lo.ToPtr(planID),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CompanyServiceSuite) TestCreateCompanyRejectsNegativeOverride() {
	_, err := s.service.CreateCompany(s.GetContext(), dto.CreateCompanyRequest{
		Name:             "Shield Services",
		CustomLicenseFee: lo.ToPtr(decimal.NewFromInt(-10)),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CompanyServiceSuite) TestUpdateCompanyClearsOverride() {
	ctx := s.GetContext()
	created, err := s.service.CreateCompany(ctx, dto.CreateCompanyRequest{
		Name:             "Shield Services",
		CustomLicenseFee: lo.ToPtr(decimal.NewFromInt(300)),
	})
	s.Require().NoError(err)
	s.Require().NotNil(created.CustomLicenseFee)

	resp, err := s.service.UpdateCompany(ctx, created.ID, dto.UpdateCompanyRequest{
		ClearLicenseFee: true,
	})
	s.Require().NoError(err)
	s.Nil(resp.CustomLicenseFee)
}

func (s *CompanyServiceSuite) TestUpdateCompanyClearsPlanAssignment() {
	ctx := s.GetContext()
	planID := s.createPlan(true)
	created, err := s.service.CreateCompany(ctx, dto.CreateCompanyRequest{
		Name:   "Shield Services",
		PlanID: lo.ToPtr(planID),
	})
	s.Require().NoError(err)

	resp, err := s.service.UpdateCompany(ctx, created.ID, dto.UpdateCompanyRequest{
		ClearPlanAssignment: true,
	})
	s.Require().NoError(err)
	s.Nil(resp.PlanID)
}

func (s *CompanyServiceSuite) TestDeactivateCompany() {
	ctx := s.GetContext()
	created, err := s.service.CreateCompany(ctx, dto.CreateCompanyRequest{Name: "Shield Services"})
	s.Require().NoError(err)

	resp, err := s.service.UpdateCompany(ctx, created.ID, dto.UpdateCompanyRequest{
		Active: lo.ToPtr(false),
	})
	s.Require().NoError(err)
	s.False(resp.Active)

	// Deactivated companies cannot grow their roster.
	_, err = s.guardService.CreateGuard(ctx, created.ID, dto.CreateGuardRequest{Name: "Alex"})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CompanyServiceSuite) TestGuardRosterDrivesBillableCount() {
	ctx := s.GetContext()
	stores := s.GetStores()
	created, err := s.service.CreateCompany(ctx, dto.CreateCompanyRequest{Name: "Shield Services"})
	s.Require().NoError(err)

	first, err := s.guardService.CreateGuard(ctx, created.ID, dto.CreateGuardRequest{Name: "Alex"})
	s.Require().NoError(err)
	_, err = s.guardService.CreateGuard(ctx, created.ID, dto.CreateGuardRequest{Name: "Brook"})
	s.Require().NoError(err)

	count, err := stores.GuardRepo.CountActiveByCompany(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(2, count)

	// Deactivating a guard removes them from the billable count.
	_, err = s.guardService.UpdateGuard(ctx, first.ID, dto.UpdateGuardRequest{
		Active: lo.ToPtr(false),
	})
	s.Require().NoError(err)

	count, err = stores.GuardRepo.CountActiveByCompany(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *CompanyServiceSuite) TestListGuardsByCompany() {
	ctx := s.GetContext()
	created, err := s.service.CreateCompany(ctx, dto.CreateCompanyRequest{Name: "Shield Services"})
	s.Require().NoError(err)
	other, err := s.service.CreateCompany(ctx, dto.CreateCompanyRequest{Name: "Other Co"})
	s.Require().NoError(err)

	_, err = s.guardService.CreateGuard(ctx, created.ID, dto.CreateGuardRequest{Name: "Alex"})
	s.Require().NoError(err)
	_, err = s.guardService.CreateGuard(ctx, other.ID, dto.CreateGuardRequest{Name: "Brook"})
	s.Require().NoError(err)

	filter := types.NewGuardFilter()
	filter.CompanyID = lo.ToPtr(created.ID)
	resp, err := s.guardService.ListGuards(ctx, filter)
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 1)
	s.Equal("Alex", resp.Items[0].Name)
}
