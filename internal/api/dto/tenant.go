package dto

import (
	"context"

	"github.com/securecommand/securecommand/internal/domain/guard"
	"github.com/securecommand/securecommand/internal/domain/tenant"
	"github.com/securecommand/securecommand/internal/types"
	"github.com/securecommand/securecommand/internal/validator"
	"github.com/shopspring/decimal"
)

type CreateCompanyRequest struct {
	Name   string  `json:"name" validate:"required"`
	PlanID *string `json:"plan_id,omitempty"`

	CustomLicenseFee  *decimal.Decimal `json:"custom_license_fee,omitempty"`
	CustomPerGuardFee *decimal.Decimal `json:"custom_per_guard_fee,omitempty"`
}

func (r *CreateCompanyRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateCompanyRequest) ToCompany(ctx context.Context) *tenant.Company {
	return &tenant.Company{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COMPANY),
		Name:              r.Name,
		Active:            true,
		PlanID:            r.PlanID,
		CustomLicenseFee:  r.CustomLicenseFee,
		CustomPerGuardFee: r.CustomPerGuardFee,
		BaseModel:         types.GetDefaultBaseModel(ctx),
	}
}

// UpdateCompanyRequest carries partial updates. Override fields use a set flag
// so callers can distinguish "leave unchanged" from "clear the override".
type UpdateCompanyRequest struct {
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`

	CustomLicenseFee    *decimal.Decimal `json:"custom_license_fee,omitempty"`
	ClearLicenseFee     bool             `json:"clear_license_fee,omitempty"`
	CustomPerGuardFee   *decimal.Decimal `json:"custom_per_guard_fee,omitempty"`
	ClearPerGuardFee    bool             `json:"clear_per_guard_fee,omitempty"`
	PlanID              *string          `json:"plan_id,omitempty"`
	ClearPlanAssignment bool             `json:"clear_plan_assignment,omitempty"`
}

func (r *UpdateCompanyRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply copies the set fields onto the company. Clear flags win over values.
func (r *UpdateCompanyRequest) Apply(c *tenant.Company) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Active != nil {
		c.Active = *r.Active
	}
	if r.CustomLicenseFee != nil {
		c.CustomLicenseFee = r.CustomLicenseFee
	}
	if r.ClearLicenseFee {
		c.CustomLicenseFee = nil
	}
	if r.CustomPerGuardFee != nil {
		c.CustomPerGuardFee = r.CustomPerGuardFee
	}
	if r.ClearPerGuardFee {
		c.CustomPerGuardFee = nil
	}
	if r.PlanID != nil {
		c.PlanID = r.PlanID
	}
	if r.ClearPlanAssignment {
		c.PlanID = nil
	}
}

type CompanyResponse struct {
	*tenant.Company
}

type CreateCompanyResponse = CompanyResponse

type ListCompaniesResponse = types.ListResponse[*CompanyResponse]

type CreateGuardRequest struct {
	Name string `json:"name" validate:"required"`
}

func (r *CreateGuardRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateGuardRequest) ToGuard(ctx context.Context, companyID string) *guard.Guard {
	return &guard.Guard{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_GUARD),
		CompanyID: companyID,
		Name:      r.Name,
		Active:    true,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

type UpdateGuardRequest struct {
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

func (r *UpdateGuardRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *UpdateGuardRequest) Apply(g *guard.Guard) {
	if r.Name != nil {
		g.Name = *r.Name
	}
	if r.Active != nil {
		g.Active = *r.Active
	}
}

type GuardResponse struct {
	*guard.Guard
}

type ListGuardsResponse = types.ListResponse[*GuardResponse]
