package service

import (
	"testing"

	"github.com/securecommand/securecommand/internal/api/dto"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SettingsServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SettingsService
}

func TestSettingsService(t *testing.T) {
	suite.Run(t, new(SettingsServiceSuite))
}

func (s *SettingsServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.service = NewSettingsService(ServiceParams{
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

func (s *SettingsServiceSuite) TestGetBeforeConfiguration() {
	_, err := s.service.GetBillingSettings(s.GetContext())
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SettingsServiceSuite) TestUpdateAndGet() {
	updated, err := s.service.UpdateBillingSettings(s.GetContext(), dto.UpdateBillingSettingsRequest{
		DefaultLicenseFee:  decimal.NewFromInt(500),
		DefaultPerGuardFee: decimal.RequireFromString("2.50"),
	})
	s.Require().NoError(err)
	s.Equal("500", updated.DefaultLicenseFee.String())

	got, err := s.service.GetBillingSettings(s.GetContext())
	s.Require().NoError(err)
	s.Equal("2.5", got.DefaultPerGuardFee.String())
}

func (s *SettingsServiceSuite) TestUpdateRejectsNegativeDefaults() {
	_, err := s.service.UpdateBillingSettings(s.GetContext(), dto.UpdateBillingSettingsRequest{
		DefaultLicenseFee:  decimal.NewFromInt(-1),
		DefaultPerGuardFee: decimal.Zero,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *SettingsServiceSuite) TestZeroDefaultsAreConfigured() {
	// Explicit zeros are a valid configuration, distinct from unconfigured.
	_, err := s.service.UpdateBillingSettings(s.GetContext(), dto.UpdateBillingSettingsRequest{
		DefaultLicenseFee:  decimal.Zero,
		DefaultPerGuardFee: decimal.Zero,
	})
	s.Require().NoError(err)

	got, err := s.service.GetBillingSettings(s.GetContext())
	s.Require().NoError(err)
	s.True(got.DefaultLicenseFee.IsZero())
}
