package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/securecommand/securecommand/internal/api/dto"
	"github.com/securecommand/securecommand/internal/domain/guard"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
)

// GuardService manages a company's guard roster. Active guards are the
// billable unit of the per-guard fee, so roster changes feed directly into
// invoice amounts.
type GuardService interface {
	CreateGuard(ctx context.Context, companyID string, req dto.CreateGuardRequest) (*dto.GuardResponse, error)
	GetGuard(ctx context.Context, id string) (*dto.GuardResponse, error)
	ListGuards(ctx context.Context, filter *types.GuardFilter) (*dto.ListGuardsResponse, error)
	UpdateGuard(ctx context.Context, id string, req dto.UpdateGuardRequest) (*dto.GuardResponse, error)
}

type guardService struct {
	ServiceParams
}

func NewGuardService(params ServiceParams) GuardService {
	return &guardService{ServiceParams: params}
}

func (s *guardService) CreateGuard(ctx context.Context, companyID string, req dto.CreateGuardRequest) (*dto.GuardResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The company must exist and be active before personnel can be added.
	company, err := s.CompanyRepo.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !company.Active {
		return nil, ierr.NewErrorf("company %s is deactivated", companyID).
			WithHint("Guards cannot be added to a deactivated company").
			Mark(ierr.ErrValidation)
	}

	g := req.ToGuard(ctx, company.ID)
	if err := g.Validate(); err != nil {
		return nil, err
	}

	if err := s.GuardRepo.Create(ctx, g); err != nil {
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("created guard", "guard_id", g.ID, "company_id", company.ID)
	return &dto.GuardResponse{Guard: g}, nil
}

func (s *guardService) GetGuard(ctx context.Context, id string) (*dto.GuardResponse, error) {
	if id == "" {
		return nil, ierr.NewError("guard id is required").
			WithHint("Guard ID is required").
			Mark(ierr.ErrValidation)
	}

	g, err := s.GuardRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.GuardResponse{Guard: g}, nil
}

func (s *guardService) ListGuards(ctx context.Context, filter *types.GuardFilter) (*dto.ListGuardsResponse, error) {
	if filter == nil {
		filter = types.NewGuardFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	guards, err := s.GuardRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListGuardsResponse{
		Items: lo.Map(guards, func(g *guard.Guard, _ int) *dto.GuardResponse {
			return &dto.GuardResponse{Guard: g}
		}),
		Pagination: types.NewPaginationResponse(len(guards), filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *guardService) UpdateGuard(ctx context.Context, id string, req dto.UpdateGuardRequest) (*dto.GuardResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g, err := s.GuardRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(g)
	if err := g.Validate(); err != nil {
		return nil, err
	}

	if err := s.GuardRepo.Update(ctx, g); err != nil {
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("updated guard", "guard_id", id, "active", g.Active)
	return &dto.GuardResponse{Guard: g}, nil
}
