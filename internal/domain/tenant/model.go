package tenant

import (
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
	"github.com/shopspring/decimal"
)

// Company is a tenant of the platform. Companies are never deleted, only
// deactivated.
type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Active gates billing and login for the whole tenant.
	Active bool `json:"active"`

	// CustomLicenseFee and CustomPerGuardFee are per-company pricing overrides.
	// Each is independently nullable; a set value takes precedence over the
	// assigned plan and the global defaults for that fee component only.
	CustomLicenseFee  *decimal.Decimal `json:"custom_license_fee,omitempty"`
	CustomPerGuardFee *decimal.Decimal `json:"custom_per_guard_fee,omitempty"`

	// PlanID references the pricing plan the company selected, if any.
	PlanID *string `json:"plan_id,omitempty"`

	types.BaseModel
}

// Validate validates the company record.
func (c *Company) Validate() error {
	if c.Name == "" {
		return ierr.NewError("company name is required").
			WithHint("Company name is required").
			Mark(ierr.ErrValidation)
	}

	if c.CustomLicenseFee != nil && c.CustomLicenseFee.IsNegative() {
		return ierr.NewError("company validation failed").
			WithHint("custom_license_fee must be non negative").
			WithReportableDetails(map[string]any{
				"custom_license_fee": c.CustomLicenseFee.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if c.CustomPerGuardFee != nil && c.CustomPerGuardFee.IsNegative() {
		return ierr.NewError("company validation failed").
			WithHint("custom_per_guard_fee must be non negative").
			WithReportableDetails(map[string]any{
				"custom_per_guard_fee": c.CustomPerGuardFee.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
