package dto

import (
	"context"

	"github.com/securecommand/securecommand/internal/domain/plan"
	"github.com/securecommand/securecommand/internal/types"
	"github.com/securecommand/securecommand/internal/validator"
	"github.com/shopspring/decimal"
)

type CreatePlanRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`

	LicenseFeeMonthly  decimal.Decimal `json:"license_fee_monthly"`
	LicenseFeeYearly   decimal.Decimal `json:"license_fee_yearly"`
	PerGuardFeeMonthly decimal.Decimal `json:"per_guard_fee_monthly"`
	PerGuardFeeYearly  decimal.Decimal `json:"per_guard_fee_yearly"`
	Currency           string          `json:"currency" validate:"required,len=3"`

	Features []string `json:"features,omitempty"`

	MaxUsers  int `json:"max_users" validate:"required"`
	MaxSites  int `json:"max_sites" validate:"required"`
	MaxGuards int `json:"max_guards" validate:"required"`

	Active       bool `json:"active"`
	Featured     bool `json:"featured"`
	DisplayOrder int  `json:"display_order"`
}

func (r *CreatePlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreatePlanRequest) ToPlan(ctx context.Context) *plan.Plan {
	return &plan.Plan{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN),
		Name:               r.Name,
		Description:        r.Description,
		LicenseFeeMonthly:  r.LicenseFeeMonthly,
		LicenseFeeYearly:   r.LicenseFeeYearly,
		PerGuardFeeMonthly: r.PerGuardFeeMonthly,
		PerGuardFeeYearly:  r.PerGuardFeeYearly,
		Currency:           r.Currency,
		Features:           r.Features,
		MaxUsers:           r.MaxUsers,
		MaxSites:           r.MaxSites,
		MaxGuards:          r.MaxGuards,
		Active:             r.Active,
		Featured:           r.Featured,
		DisplayOrder:       r.DisplayOrder,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
}

// UpdatePlanRequest carries partial updates; nil fields are left unchanged.
type UpdatePlanRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`

	LicenseFeeMonthly  *decimal.Decimal `json:"license_fee_monthly,omitempty"`
	LicenseFeeYearly   *decimal.Decimal `json:"license_fee_yearly,omitempty"`
	PerGuardFeeMonthly *decimal.Decimal `json:"per_guard_fee_monthly,omitempty"`
	PerGuardFeeYearly  *decimal.Decimal `json:"per_guard_fee_yearly,omitempty"`
	Currency           *string          `json:"currency,omitempty"`

	Features *[]string `json:"features,omitempty"`

	MaxUsers  *int `json:"max_users,omitempty"`
	MaxSites  *int `json:"max_sites,omitempty"`
	MaxGuards *int `json:"max_guards,omitempty"`

	Active       *bool `json:"active,omitempty"`
	Featured     *bool `json:"featured,omitempty"`
	DisplayOrder *int  `json:"display_order,omitempty"`
}

func (r *UpdatePlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply copies the set fields onto the plan. The result must still pass
// plan.Validate before persisting.
func (r *UpdatePlanRequest) Apply(p *plan.Plan) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.LicenseFeeMonthly != nil {
		p.LicenseFeeMonthly = *r.LicenseFeeMonthly
	}
	if r.LicenseFeeYearly != nil {
		p.LicenseFeeYearly = *r.LicenseFeeYearly
	}
	if r.PerGuardFeeMonthly != nil {
		p.PerGuardFeeMonthly = *r.PerGuardFeeMonthly
	}
	if r.PerGuardFeeYearly != nil {
		p.PerGuardFeeYearly = *r.PerGuardFeeYearly
	}
	if r.Currency != nil {
		p.Currency = *r.Currency
	}
	if r.Features != nil {
		p.Features = *r.Features
	}
	if r.MaxUsers != nil {
		p.MaxUsers = *r.MaxUsers
	}
	if r.MaxSites != nil {
		p.MaxSites = *r.MaxSites
	}
	if r.MaxGuards != nil {
		p.MaxGuards = *r.MaxGuards
	}
	if r.Active != nil {
		p.Active = *r.Active
	}
	if r.Featured != nil {
		p.Featured = *r.Featured
	}
	if r.DisplayOrder != nil {
		p.DisplayOrder = *r.DisplayOrder
	}
}

type PlanResponse struct {
	*plan.Plan
}

type CreatePlanResponse = PlanResponse

// ListPlansResponse represents the response for listing pricing plans.
type ListPlansResponse = types.ListResponse[*PlanResponse]
