package service

import (
	"context"

	"github.com/securecommand/securecommand/internal/api/dto"
	"github.com/securecommand/securecommand/internal/domain/billing"
	"github.com/securecommand/securecommand/internal/domain/plan"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
)

// PricingService resolves effective pricing and computes billing amounts. All
// totals, quoted or billed, go through the same computation so the pricing
// page can never drift from the invoices.
type PricingService interface {
	// ResolveCompanyPricing returns the effective fee pair for a company
	// under the given billing cycle, with the source of each component.
	ResolveCompanyPricing(ctx context.Context, companyID string, cycle types.BillingCycle) (*billing.ResolvedPricing, error)

	// Estimate computes a quote for a catalog plan and guard count. It is
	// read-only and side-effect free; the pricing page calls it without an
	// account.
	Estimate(ctx context.Context, req dto.EstimateRequest) (*dto.EstimateResponse, error)

	// PreviewCompanyBilling shows what a company would be invoiced right now.
	PreviewCompanyBilling(ctx context.Context, companyID string, cycle types.BillingCycle) (*dto.BillingPreviewResponse, error)
}

type pricingService struct {
	ServiceParams
}

func NewPricingService(params ServiceParams) PricingService {
	return &pricingService{ServiceParams: params}
}

func (s *pricingService) ResolveCompanyPricing(ctx context.Context, companyID string, cycle types.BillingCycle) (*billing.ResolvedPricing, error) {
	if err := cycle.Validate(); err != nil {
		return nil, err
	}

	company, err := s.CompanyRepo.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var assignedPlan *plan.Plan
	if company.PlanID != nil {
		assignedPlan, err = s.PlanRepo.Get(ctx, *company.PlanID)
		if err != nil {
			return nil, err
		}
	}

	config, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		// Unconfigured defaults: resolution fails closed below.
		config = nil
	}

	return billing.ResolvePricing(company, assignedPlan, config, cycle)
}

func (s *pricingService) Estimate(ctx context.Context, req dto.EstimateRequest) (*dto.EstimateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.PlanRepo.Get(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	licenseFee := p.LicenseFee(req.BillingCycle)
	perGuardFee := p.PerGuardFee(req.BillingCycle)

	return &dto.EstimateResponse{
		PlanID:       p.ID,
		BillingCycle: req.BillingCycle,
		LicenseFee:   licenseFee,
		PerGuardFee:  perGuardFee,
		GuardCount:   req.GuardCount,
		Total:        billing.ComputeTotal(licenseFee, perGuardFee, req.GuardCount),
	}, nil
}

func (s *pricingService) PreviewCompanyBilling(ctx context.Context, companyID string, cycle types.BillingCycle) (*dto.BillingPreviewResponse, error) {
	pricing, err := s.ResolveCompanyPricing(ctx, companyID, cycle)
	if err != nil {
		return nil, err
	}

	guardCount, err := s.GuardRepo.CountActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return &dto.BillingPreviewResponse{
		CompanyID:    companyID,
		BillingCycle: cycle,
		Pricing:      pricing,
		GuardCount:   guardCount,
		Total:        billing.ComputeResolvedTotal(pricing, guardCount),
	}, nil
}
