package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/securecommand/securecommand/internal/api/dto"
	"github.com/securecommand/securecommand/internal/domain/tenant"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
)

// CompanyService manages tenant companies, their plan assignment and their
// pricing overrides.
type CompanyService interface {
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*dto.CreateCompanyResponse, error)
	GetCompany(ctx context.Context, id string) (*dto.CompanyResponse, error)
	ListCompanies(ctx context.Context, filter *types.CompanyFilter) (*dto.ListCompaniesResponse, error)
	UpdateCompany(ctx context.Context, id string, req dto.UpdateCompanyRequest) (*dto.CompanyResponse, error)
}

type companyService struct {
	ServiceParams
}

func NewCompanyService(params ServiceParams) CompanyService {
	return &companyService{ServiceParams: params}
}

func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*dto.CreateCompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	company := req.ToCompany(ctx)
	if err := company.Validate(); err != nil {
		return nil, err
	}

	if company.PlanID != nil {
		if err := s.validatePlanAssignment(ctx, *company.PlanID); err != nil {
			return nil, err
		}
	}

	if err := s.CompanyRepo.Create(ctx, company); err != nil {
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("created company", "company_id", company.ID, "name", company.Name)
	return &dto.CreateCompanyResponse{Company: company}, nil
}

func (s *companyService) GetCompany(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	if id == "" {
		return nil, ierr.NewError("company id is required").
			WithHint("Company ID is required").
			Mark(ierr.ErrValidation)
	}

	company, err := s.CompanyRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CompanyResponse{Company: company}, nil
}

func (s *companyService) ListCompanies(ctx context.Context, filter *types.CompanyFilter) (*dto.ListCompaniesResponse, error) {
	if filter == nil {
		filter = types.NewCompanyFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	companies, err := s.CompanyRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.CompanyRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListCompaniesResponse{
		Items: lo.Map(companies, func(c *tenant.Company, _ int) *dto.CompanyResponse {
			return &dto.CompanyResponse{Company: c}
		}),
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *companyService) UpdateCompany(ctx context.Context, id string, req dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	company, err := s.CompanyRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(company)
	if err := company.Validate(); err != nil {
		return nil, err
	}

	// Only re-check the plan when the assignment actually changed; existing
	// assignments stay valid even after a plan is retired.
	if req.PlanID != nil && !req.ClearPlanAssignment {
		if err := s.validatePlanAssignment(ctx, *req.PlanID); err != nil {
			return nil, err
		}
	}

	if err := s.CompanyRepo.Update(ctx, company); err != nil {
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("updated company", "company_id", id)
	return &dto.CompanyResponse{Company: company}, nil
}

func (s *companyService) validatePlanAssignment(ctx context.Context, planID string) error {
	p, err := s.PlanRepo.Get(ctx, planID)
	if err != nil {
		return err
	}
	if !p.Active {
		return ierr.NewErrorf("plan %s is not active", planID).
			WithHint("Only active plans can be assigned to a company").
			WithReportableDetails(map[string]any{
				"plan_id": planID,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
