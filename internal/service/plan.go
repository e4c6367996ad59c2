package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/securecommand/securecommand/internal/api/dto"
	"github.com/securecommand/securecommand/internal/cache"
	"github.com/securecommand/securecommand/internal/domain/plan"
	"github.com/securecommand/securecommand/internal/domain/tenant"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
)

const planCacheKeyPrefix = "plan:"

// PlanService manages the pricing plan catalog. Plans are shared catalog
// entries referenced by companies; mutations are platform-admin operations.
type PlanService interface {
	CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.CreatePlanResponse, error)
	GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error)
	ListPlans(ctx context.Context, filter *types.PlanFilter) (*dto.ListPlansResponse, error)
	UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	DeletePlan(ctx context.Context, id string) error
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{ServiceParams: params}
}

func (s *planService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.CreatePlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToPlan(ctx)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("created pricing plan", "plan_id", p.ID, "name", p.Name)
	return &dto.CreatePlanResponse{Plan: p}, nil
}

func (s *planService) GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	if id == "" {
		return nil, ierr.NewError("plan id is required").
			WithHint("Plan ID is required").
			Mark(ierr.ErrValidation)
	}

	cacheKey := planCacheKeyPrefix + id
	if value, found := s.Cache.Get(ctx, cacheKey); found {
		if cached, ok := cache.UnmarshalCacheValue[plan.Plan](value); ok {
			return &dto.PlanResponse{Plan: cached}, nil
		}
	}

	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, cacheKey, p, cache.ExpiryDefaultInMemory)
	return &dto.PlanResponse{Plan: p}, nil
}

func (s *planService) ListPlans(ctx context.Context, filter *types.PlanFilter) (*dto.ListPlansResponse, error) {
	if filter == nil {
		filter = types.NewPlanFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	plans, err := s.PlanRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.PlanRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListPlansResponse{
		Items: lo.Map(plans, func(p *plan.Plan, _ int) *dto.PlanResponse {
			return &dto.PlanResponse{Plan: p}
		}),
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *planService) UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(p)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, planCacheKeyPrefix+id)
	s.Logger.WithContext(ctx).Infow("updated pricing plan", "plan_id", id)
	return &dto.PlanResponse{Plan: p}, nil
}

// DeletePlan soft deletes a catalog entry. Deletion is refused while active
// companies still reference the plan so existing billing cannot dangle.
func (s *planService) DeletePlan(ctx context.Context, id string) error {
	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	companies, err := s.CompanyRepo.ListActiveByPlan(ctx, p.ID)
	if err != nil {
		return err
	}
	if len(companies) > 0 {
		return ierr.NewErrorf("plan %s is referenced by %d active companies", p.ID, len(companies)).
			WithHint("Reassign or deactivate the referencing companies before deleting the plan").
			WithReportableDetails(map[string]any{
				"plan_id":     p.ID,
				"company_ids": lo.Map(companies, func(c *tenant.Company, _ int) string { return c.ID }),
			}).
			Mark(ierr.ErrConflict)
	}

	if err := s.PlanRepo.Delete(ctx, p.ID); err != nil {
		return err
	}

	s.Cache.Delete(ctx, planCacheKeyPrefix+id)
	s.Logger.WithContext(ctx).Infow("deleted pricing plan", "plan_id", id)
	return nil
}
