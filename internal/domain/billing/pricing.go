package billing

import (
	"github.com/securecommand/securecommand/internal/domain/plan"
	"github.com/securecommand/securecommand/internal/domain/tenant"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
	"github.com/shopspring/decimal"
)

// FeeSource records where a resolved fee component came from.
type FeeSource string

const (
	FeeSourceOverride FeeSource = "override"
	FeeSourcePlan     FeeSource = "plan"
	FeeSourceDefault  FeeSource = "default"
)

// ResolvedFee is a single fee component together with its source.
type ResolvedFee struct {
	Amount decimal.Decimal `json:"amount"`
	Source FeeSource       `json:"source"`
}

// ResolvedPricing is the effective pricing pair for a company. The license and
// per-guard components are resolved independently of each other.
type ResolvedPricing struct {
	LicenseFee  ResolvedFee `json:"license_fee"`
	PerGuardFee ResolvedFee `json:"per_guard_fee"`
}

// ResolvePricing determines the effective (licenseFee, perGuardFee) pair for a
// company. Precedence per component, highest first: company override, assigned
// plan rate for the billing cycle, global default. assignedPlan may be nil when
// the company has no plan. A nil config means pricing was never configured;
// resolution fails closed with zero fees and ErrUnconfiguredPricing so callers
// cannot silently bill zero.
//
// Pure function of its inputs; no side effects.
func ResolvePricing(company *tenant.Company, assignedPlan *plan.Plan, config *PricingConfig, cycle types.BillingCycle) (*ResolvedPricing, error) {
	if config == nil {
		return &ResolvedPricing{
				LicenseFee:  ResolvedFee{Amount: decimal.Zero, Source: FeeSourceDefault},
				PerGuardFee: ResolvedFee{Amount: decimal.Zero, Source: FeeSourceDefault},
			}, ierr.NewError("global pricing defaults are not configured").
				WithHint("An administrator must configure billing defaults before invoices can be computed").
				Mark(ierr.ErrUnconfiguredPricing)
	}

	resolved := &ResolvedPricing{
		LicenseFee:  ResolvedFee{Amount: config.DefaultLicenseFee, Source: FeeSourceDefault},
		PerGuardFee: ResolvedFee{Amount: config.DefaultPerGuardFee, Source: FeeSourceDefault},
	}

	if assignedPlan != nil {
		resolved.LicenseFee = ResolvedFee{Amount: assignedPlan.LicenseFee(cycle), Source: FeeSourcePlan}
		resolved.PerGuardFee = ResolvedFee{Amount: assignedPlan.PerGuardFee(cycle), Source: FeeSourcePlan}
	}

	if company != nil {
		if company.CustomLicenseFee != nil {
			resolved.LicenseFee = ResolvedFee{Amount: *company.CustomLicenseFee, Source: FeeSourceOverride}
		}
		if company.CustomPerGuardFee != nil {
			resolved.PerGuardFee = ResolvedFee{Amount: *company.CustomPerGuardFee, Source: FeeSourceOverride}
		}
	}

	return resolved, nil
}

// ComputeTotal computes the total charge for a billing period:
//
//	total = licenseFee + perGuardFee * guardCount
//
// rounded half-up to 2 decimal places at the final step only. Invoice
// generation and the customer-facing pricing estimate both go through this one
// implementation so quoted and billed amounts cannot drift.
func ComputeTotal(licenseFee, perGuardFee decimal.Decimal, guardCount int) decimal.Decimal {
	total := licenseFee.Add(perGuardFee.Mul(decimal.NewFromInt(int64(guardCount))))
	// decimal.Round is half-away-from-zero, which equals half-up for the
	// non-negative amounts this engine produces.
	return total.Round(2)
}

// ComputeResolvedTotal is ComputeTotal over a resolved pricing pair.
func ComputeResolvedTotal(pricing *ResolvedPricing, guardCount int) decimal.Decimal {
	return ComputeTotal(pricing.LicenseFee.Amount, pricing.PerGuardFee.Amount, guardCount)
}
