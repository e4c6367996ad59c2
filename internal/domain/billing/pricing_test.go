package billing

import (
	"testing"

	"github.com/samber/lo"
	"github.com/securecommand/securecommand/internal/domain/plan"
	"github.com/securecommand/securecommand/internal/domain/tenant"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name        string
		licenseFee  string
		perGuardFee string
		guardCount  int
		expected    string
	}{
		{
			name:        "BaseScenario",
			licenseFee:  "500",
			perGuardFee: "25",
			guardCount:  10,
			expected:    "750.00",
		},
		{
			name:        "OverrideScenario",
			licenseFee:  "300",
			perGuardFee: "25",
			guardCount:  10,
			expected:    "550.00",
		},
		{
			name:        "ZeroGuards_TotalEqualsLicenseFee",
			licenseFee:  "499.99",
			perGuardFee: "123.45",
			guardCount:  0,
			expected:    "499.99",
		},
		{
			name:        "ZeroFees",
			licenseFee:  "0",
			perGuardFee: "0",
			guardCount:  100,
			expected:    "0.00",
		},
		{
			name:        "FractionalFees_NoIntermediateRounding",
			licenseFee:  "100.005",
			perGuardFee: "0.333",
			guardCount:  3,
			// 100.005 + 0.999 = 101.004 -> 101.00; rounding only at the end
			expected: "101.00",
		},
		{
			name:        "RoundHalfUpAtFinalStep",
			licenseFee:  "10.00",
			perGuardFee: "0.005",
			guardCount:  1,
			// 10.005 rounds half up to 10.01
			expected: "10.01",
		},
		{
			name:        "CentPrecisionLargeCount",
			licenseFee:  "0.01",
			perGuardFee: "0.01",
			guardCount:  1000,
			expected:    "10.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			license := decimal.RequireFromString(tt.licenseFee)
			perGuard := decimal.RequireFromString(tt.perGuardFee)

			total := ComputeTotal(license, perGuard, tt.guardCount)
			assert.Equal(t, tt.expected, total.StringFixed(2))
		})
	}
}

func TestComputeTotal_ZeroGuardIdentity(t *testing.T) {
	// For any fee pair the zero-guard total is exactly the license fee.
	fees := []string{"0", "1", "500", "99.99", "1234.56"}
	for _, licenseFee := range fees {
		for _, perGuardFee := range fees {
			license := decimal.RequireFromString(licenseFee)
			perGuard := decimal.RequireFromString(perGuardFee)

			total := ComputeTotal(license, perGuard, 0)
			assert.True(t, total.Equal(license.Round(2)),
				"license=%s perGuard=%s got %s", licenseFee, perGuardFee, total)
		}
	}
}

func newTestConfig(licenseFee, perGuardFee string) *PricingConfig {
	return &PricingConfig{
		ID:                 "bset_default",
		DefaultLicenseFee:  decimal.RequireFromString(licenseFee),
		DefaultPerGuardFee: decimal.RequireFromString(perGuardFee),
	}
}

func TestResolvePricing_Defaults(t *testing.T) {
	company := &tenant.Company{ID: "company_1", Name: "Acme Security", Active: true}
	config := newTestConfig("500", "25")

	resolved, err := ResolvePricing(company, nil, config, types.BillingCycleMonthly)
	require.NoError(t, err)

	assert.Equal(t, "500", resolved.LicenseFee.Amount.String())
	assert.Equal(t, FeeSourceDefault, resolved.LicenseFee.Source)
	assert.Equal(t, "25", resolved.PerGuardFee.Amount.String())
	assert.Equal(t, FeeSourceDefault, resolved.PerGuardFee.Source)
}

func TestResolvePricing_IndependentOverrides(t *testing.T) {
	config := newTestConfig("500", "25")

	tests := []struct {
		name              string
		licenseOverride   *string
		perGuardOverride  *string
		expectedLicense   string
		expectedPerGuard  string
		expectedLicSource FeeSource
		expectedPGSource  FeeSource
	}{
		{
			name:              "LicenseOnly",
			licenseOverride:   lo.ToPtr("300"),
			expectedLicense:   "300",
			expectedPerGuard:  "25",
			expectedLicSource: FeeSourceOverride,
			expectedPGSource:  FeeSourceDefault,
		},
		{
			name:              "PerGuardOnly",
			perGuardOverride:  lo.ToPtr("30"),
			expectedLicense:   "500",
			expectedPerGuard:  "30",
			expectedLicSource: FeeSourceDefault,
			expectedPGSource:  FeeSourceOverride,
		},
		{
			name:              "Both",
			licenseOverride:   lo.ToPtr("300"),
			perGuardOverride:  lo.ToPtr("30"),
			expectedLicense:   "300",
			expectedPerGuard:  "30",
			expectedLicSource: FeeSourceOverride,
			expectedPGSource:  FeeSourceOverride,
		},
		{
			name:              "Neither",
			expectedLicense:   "500",
			expectedPerGuard:  "25",
			expectedLicSource: FeeSourceDefault,
			expectedPGSource:  FeeSourceDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			company := &tenant.Company{ID: "company_1", Name: "Acme Security", Active: true}
			if tt.licenseOverride != nil {
				company.CustomLicenseFee = lo.ToPtr(decimal.RequireFromString(*tt.licenseOverride))
			}
			if tt.perGuardOverride != nil {
				company.CustomPerGuardFee = lo.ToPtr(decimal.RequireFromString(*tt.perGuardOverride))
			}

			resolved, err := ResolvePricing(company, nil, config, types.BillingCycleMonthly)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedLicense, resolved.LicenseFee.Amount.String())
			assert.Equal(t, tt.expectedLicSource, resolved.LicenseFee.Source)
			assert.Equal(t, tt.expectedPerGuard, resolved.PerGuardFee.Amount.String())
			assert.Equal(t, tt.expectedPGSource, resolved.PerGuardFee.Source)
		})
	}
}

func TestResolvePricing_PlanBetweenOverrideAndDefault(t *testing.T) {
	config := newTestConfig("500", "25")
	assignedPlan := &plan.Plan{
		ID:                 "plan_pro",
		Name:               "Pro",
		Currency:           "USD",
		LicenseFeeMonthly:  decimal.RequireFromString("400"),
		LicenseFeeYearly:   decimal.RequireFromString("4000"),
		PerGuardFeeMonthly: decimal.RequireFromString("20"),
		PerGuardFeeYearly:  decimal.RequireFromString("200"),
	}

	// Plan beats defaults.
	company := &tenant.Company{ID: "company_1", Name: "Acme Security", Active: true, PlanID: lo.ToPtr("plan_pro")}
	resolved, err := ResolvePricing(company, assignedPlan, config, types.BillingCycleMonthly)
	require.NoError(t, err)
	assert.Equal(t, "400", resolved.LicenseFee.Amount.String())
	assert.Equal(t, FeeSourcePlan, resolved.LicenseFee.Source)
	assert.Equal(t, "20", resolved.PerGuardFee.Amount.String())

	// Yearly cycle selects yearly rates.
	resolved, err = ResolvePricing(company, assignedPlan, config, types.BillingCycleYearly)
	require.NoError(t, err)
	assert.Equal(t, "4000", resolved.LicenseFee.Amount.String())
	assert.Equal(t, "200", resolved.PerGuardFee.Amount.String())

	// Override still beats the plan, per component.
	company.CustomLicenseFee = lo.ToPtr(decimal.RequireFromString("300"))
	resolved, err = ResolvePricing(company, assignedPlan, config, types.BillingCycleMonthly)
	require.NoError(t, err)
	assert.Equal(t, "300", resolved.LicenseFee.Amount.String())
	assert.Equal(t, FeeSourceOverride, resolved.LicenseFee.Source)
	assert.Equal(t, "20", resolved.PerGuardFee.Amount.String())
	assert.Equal(t, FeeSourcePlan, resolved.PerGuardFee.Source)
}

func TestResolvePricing_UnconfiguredFailsClosed(t *testing.T) {
	company := &tenant.Company{
		ID:               "company_1",
		Name:             "Acme Security",
		Active:           true,
		CustomLicenseFee: lo.ToPtr(decimal.RequireFromString("300")),
	}

	resolved, err := ResolvePricing(company, nil, nil, types.BillingCycleMonthly)
	require.Error(t, err)
	assert.True(t, ierr.IsUnconfiguredPricing(err))

	// Fees fail closed to zero even when the company carries overrides; the
	// error must surface, never a silent zero bill.
	assert.True(t, resolved.LicenseFee.Amount.IsZero())
	assert.True(t, resolved.PerGuardFee.Amount.IsZero())
}

func TestResolvePricing_EndToEndScenarios(t *testing.T) {
	config := newTestConfig("500", "25")

	// No overrides, 10 guards: (500, 25) -> 750.00
	company := &tenant.Company{ID: "company_1", Name: "Acme Security", Active: true}
	resolved, err := ResolvePricing(company, nil, config, types.BillingCycleMonthly)
	require.NoError(t, err)
	assert.Equal(t, "750.00", ComputeResolvedTotal(resolved, 10).StringFixed(2))

	// License override 300, per-guard untouched, 10 guards: (300, 25) -> 550.00
	company.CustomLicenseFee = lo.ToPtr(decimal.RequireFromString("300"))
	resolved, err = ResolvePricing(company, nil, config, types.BillingCycleMonthly)
	require.NoError(t, err)
	assert.Equal(t, "550.00", ComputeResolvedTotal(resolved, 10).StringFixed(2))
}
