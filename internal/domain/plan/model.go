package plan

import (
	"strings"

	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
	"github.com/shopspring/decimal"
)

// Plan is a named pricing catalog entry. Companies reference plans; they never
// own them.
type Plan struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	LicenseFeeMonthly  decimal.Decimal `json:"license_fee_monthly"`
	LicenseFeeYearly   decimal.Decimal `json:"license_fee_yearly"`
	PerGuardFeeMonthly decimal.Decimal `json:"per_guard_fee_monthly"`
	PerGuardFeeYearly  decimal.Decimal `json:"per_guard_fee_yearly"`
	Currency           string          `json:"currency"`

	// Features is an ordered list of free-text entries shown on the pricing
	// page. Entries must be non-empty; no further semantics are applied.
	Features []string `json:"features"`

	// Capacity limits. -1 denotes unlimited.
	MaxUsers  int `json:"max_users"`
	MaxSites  int `json:"max_sites"`
	MaxGuards int `json:"max_guards"`

	Active       bool `json:"active"`
	Featured     bool `json:"featured"`
	DisplayOrder int  `json:"display_order"`

	types.BaseModel
}

// LicenseFee returns the license fee for the given billing cycle.
func (p *Plan) LicenseFee(cycle types.BillingCycle) decimal.Decimal {
	if cycle == types.BillingCycleYearly {
		return p.LicenseFeeYearly
	}
	return p.LicenseFeeMonthly
}

// PerGuardFee returns the per-guard fee for the given billing cycle.
func (p *Plan) PerGuardFee(cycle types.BillingCycle) decimal.Decimal {
	if cycle == types.BillingCycleYearly {
		return p.PerGuardFeeYearly
	}
	return p.PerGuardFeeMonthly
}

// Validate validates the plan definition.
func (p *Plan) Validate() error {
	if p.Name == "" {
		return ierr.NewError("plan name is required").
			WithHint("Plan name is required").
			Mark(ierr.ErrValidation)
	}

	fees := map[string]decimal.Decimal{
		"license_fee_monthly":   p.LicenseFeeMonthly,
		"license_fee_yearly":    p.LicenseFeeYearly,
		"per_guard_fee_monthly": p.PerGuardFeeMonthly,
		"per_guard_fee_yearly":  p.PerGuardFeeYearly,
	}
	for field, fee := range fees {
		if fee.IsNegative() {
			return ierr.NewError("plan validation failed").
				WithHintf("%s must be non negative", field).
				WithReportableDetails(map[string]any{
					"field": field,
					"value": fee.String(),
				}).
				Mark(ierr.ErrValidation)
		}
	}

	if !types.IsSupportedCurrency(p.Currency) {
		return ierr.NewErrorf("unsupported currency: %s", p.Currency).
			WithHintf("Currency must be one of %v", types.SupportedCurrencies).
			WithReportableDetails(map[string]any{
				"currency":  p.Currency,
				"supported": types.SupportedCurrencies,
			}).
			Mark(ierr.ErrValidation)
	}

	if err := types.ValidateLimit("max_users", p.MaxUsers); err != nil {
		return err
	}
	if err := types.ValidateLimit("max_sites", p.MaxSites); err != nil {
		return err
	}
	if err := types.ValidateLimit("max_guards", p.MaxGuards); err != nil {
		return err
	}

	for i, feature := range p.Features {
		if strings.TrimSpace(feature) == "" {
			return ierr.NewError("plan validation failed").
				WithHint("feature entries cannot be empty").
				WithReportableDetails(map[string]any{
					"index": i,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}
