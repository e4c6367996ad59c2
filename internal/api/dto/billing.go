package dto

import (
	"context"

	"github.com/securecommand/securecommand/internal/domain/billing"
	"github.com/securecommand/securecommand/internal/types"
	"github.com/securecommand/securecommand/internal/validator"
	"github.com/shopspring/decimal"
)

type UpdateBillingSettingsRequest struct {
	DefaultLicenseFee  decimal.Decimal `json:"default_license_fee"`
	DefaultPerGuardFee decimal.Decimal `json:"default_per_guard_fee"`
}

func (r *UpdateBillingSettingsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *UpdateBillingSettingsRequest) ToPricingConfig(ctx context.Context) *billing.PricingConfig {
	return &billing.PricingConfig{
		DefaultLicenseFee:  r.DefaultLicenseFee,
		DefaultPerGuardFee: r.DefaultPerGuardFee,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
}

type BillingSettingsResponse struct {
	*billing.PricingConfig
}

// EstimateRequest is the customer-facing pricing calculator input: a catalog
// plan plus a guard count. No account is required and nothing is written.
type EstimateRequest struct {
	PlanID       string             `json:"plan_id" form:"plan_id" validate:"required"`
	GuardCount   int                `json:"guard_count" form:"guard_count" validate:"gte=0"`
	BillingCycle types.BillingCycle `json:"billing_cycle" form:"billing_cycle"`
}

func (r *EstimateRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.BillingCycle == "" {
		r.BillingCycle = types.BillingCycleMonthly
	}
	return r.BillingCycle.Validate()
}

type EstimateResponse struct {
	PlanID       string             `json:"plan_id"`
	BillingCycle types.BillingCycle `json:"billing_cycle"`
	LicenseFee   decimal.Decimal    `json:"license_fee"`
	PerGuardFee  decimal.Decimal    `json:"per_guard_fee"`
	GuardCount   int                `json:"guard_count"`
	Total        decimal.Decimal    `json:"total"`
}

// BillingPreviewResponse shows what a company would be charged today, with
// the source of each resolved fee component.
type BillingPreviewResponse struct {
	CompanyID    string                   `json:"company_id"`
	BillingCycle types.BillingCycle       `json:"billing_cycle"`
	Pricing      *billing.ResolvedPricing `json:"pricing"`
	GuardCount   int                      `json:"guard_count"`
	Total        decimal.Decimal          `json:"total"`
}
