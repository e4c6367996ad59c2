package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/securecommand/securecommand/internal/api/dto"
	"github.com/securecommand/securecommand/internal/domain/tenant"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/testutil"
	"github.com/securecommand/securecommand/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PlanServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PlanService
}

func TestPlanService(t *testing.T) {
	suite.Run(t, new(PlanServiceSuite))
}

func (s *PlanServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.service = NewPlanService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		CompanyRepo:  stores.CompanyRepo,
		PlanRepo:     stores.PlanRepo,
		GuardRepo:    stores.GuardRepo,
		InvoiceRepo:  stores.InvoiceRepo,
		SettingsRepo: stores.SettingsRepo,
		Cache:        s.GetCache(),
	})
}

func (s *PlanServiceSuite) validCreateRequest() dto.CreatePlanRequest {
	return dto.CreatePlanRequest{
		Name:               "Starter",
		Description:        "For small rosters",
		LicenseFeeMonthly:  decimal.NewFromInt(100),
		LicenseFeeYearly:   decimal.NewFromInt(1000),
		PerGuardFeeMonthly: decimal.NewFromInt(1),
		PerGuardFeeYearly:  decimal.NewFromInt(10),
		Currency:           "USD",
		Features:           []string{"Scheduling", "Incident reports"},
		MaxUsers:           5,
		MaxSites:           3,
		MaxGuards:          25,
		Active:             true,
	}
}

func (s *PlanServiceSuite) TestCreatePlan() {
	resp, err := s.service.CreatePlan(s.GetContext(), s.validCreateRequest())
	s.Require().NoError(err)
	s.NotEmpty(resp.ID)
	s.Contains(resp.ID, "plan_")
	s.Equal("Starter", resp.Name)
	s.Equal(types.StatusPublished, resp.Status)
}

func (s *PlanServiceSuite) TestCreatePlanValidation() {
	testCases := []struct {
		name   string
		mutate func(*dto.CreatePlanRequest)
	}{
		{
			name:   "missing name",
			mutate: func(r *dto.CreatePlanRequest) { r.Name = "" },
		},
		{
			name:   "negative license fee",
			mutate: func(r *dto.CreatePlanRequest) { r.LicenseFeeMonthly = decimal.NewFromInt(-1) },
		},
		{
			name:   "negative per guard fee",
			mutate: func(r *dto.CreatePlanRequest) { r.PerGuardFeeYearly = decimal.NewFromInt(-5) },
		},
		{
			name:   "unsupported currency",
			mutate: func(r *dto.CreatePlanRequest) { r.Currency = "XXX" },
		},
		{
			name:   "zero guard limit",
			mutate: func(r *dto.CreatePlanRequest) { r.MaxGuards = 0 },
		},
		{
			name:   "negative limit below sentinel",
			mutate: func(r *dto.CreatePlanRequest) { r.MaxSites = -2 },
		},
		{
			name:   "blank feature entry",
			mutate: func(r *dto.CreatePlanRequest) { r.Features = []string{"Scheduling", "  "} },
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := s.validCreateRequest()
			tc.mutate(&req)
			_, err := s.service.CreatePlan(s.GetContext(), req)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *PlanServiceSuite) TestUnlimitedLimitsAreValid() {
	req := s.validCreateRequest()
	req.MaxUsers = types.UnlimitedSentinel
	req.MaxSites = types.UnlimitedSentinel
	req.MaxGuards = types.UnlimitedSentinel

	resp, err := s.service.CreatePlan(s.GetContext(), req)
	s.Require().NoError(err)
	s.Equal(types.UnlimitedSentinel, resp.MaxGuards)
}

func (s *PlanServiceSuite) TestGetPlanCachesResult() {
	created, err := s.service.CreatePlan(s.GetContext(), s.validCreateRequest())
	s.Require().NoError(err)

	first, err := s.service.GetPlan(s.GetContext(), created.ID)
	s.Require().NoError(err)

	// Remove the row behind the cache; the cached copy still serves.
	s.Require().NoError(s.GetStores().PlanRepo.InMemoryStore.Delete(s.GetContext(), created.ID))

	second, err := s.service.GetPlan(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal(first.Name, second.Name)
}

func (s *PlanServiceSuite) TestUpdatePlan() {
	created, err := s.service.CreatePlan(s.GetContext(), s.validCreateRequest())
	s.Require().NoError(err)

	resp, err := s.service.UpdatePlan(s.GetContext(), created.ID, dto.UpdatePlanRequest{
		Name:              lo.ToPtr("Starter Plus"),
		LicenseFeeMonthly: lo.ToPtr(decimal.NewFromInt(150)),
	})
	s.Require().NoError(err)
	s.Equal("Starter Plus", resp.Name)
	s.Equal("150", resp.LicenseFeeMonthly.String())
	// Untouched fields survive partial updates.
	s.Equal("USD", resp.Currency)
}

func (s *PlanServiceSuite) TestUpdatePlanRejectsNegativeFee() {
	created, err := s.service.CreatePlan(s.GetContext(), s.validCreateRequest())
	s.Require().NoError(err)

	_, err = s.service.UpdatePlan(s.GetContext(), created.ID, dto.UpdatePlanRequest{
		PerGuardFeeMonthly: lo.ToPtr(decimal.NewFromInt(-1)),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PlanServiceSuite) TestDeletePlan() {
	created, err := s.service.CreatePlan(s.GetContext(), s.validCreateRequest())
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeletePlan(s.GetContext(), created.ID))

	_, err = s.service.GetPlan(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PlanServiceSuite) TestDeletePlanBlockedByActiveCompanies() {
	ctx := s.GetContext()
	created, err := s.service.CreatePlan(ctx, s.validCreateRequest())
	s.Require().NoError(err)

	company := &tenant.Company{
		ID:        "company_ref",
		Name:      "Referencing Co",
		Active:    true,
		PlanID:    lo.ToPtr(created.ID),
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(s.GetStores().CompanyRepo.Create(ctx, company))

	err = s.service.DeletePlan(ctx, created.ID)
	s.Error(err)
	s.True(ierr.IsConflict(err))

	// Deactivating the company releases the reference.
	company.Active = false
	s.Require().NoError(s.GetStores().CompanyRepo.Update(ctx, company))
	s.NoError(s.service.DeletePlan(ctx, created.ID))
}

func (s *PlanServiceSuite) TestListPlansFiltering() {
	ctx := s.GetContext()

	active := s.validCreateRequest()
	_, err := s.service.CreatePlan(ctx, active)
	s.Require().NoError(err)

	inactive := s.validCreateRequest()
	inactive.Name = "Legacy"
	inactive.Active = false
	_, err = s.service.CreatePlan(ctx, inactive)
	s.Require().NoError(err)

	all, err := s.service.ListPlans(ctx, nil)
	s.Require().NoError(err)
	s.Len(all.Items, 2)

	filter := types.NewPlanFilter()
	filter.ActiveOnly = true
	activeOnly, err := s.service.ListPlans(ctx, filter)
	s.Require().NoError(err)
	s.Require().Len(activeOnly.Items, 1)
	s.Equal("Starter", activeOnly.Items[0].Name)
}
