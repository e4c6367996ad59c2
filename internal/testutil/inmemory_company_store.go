package testutil

import (
	"context"

	"github.com/samber/lo"
	"github.com/securecommand/securecommand/internal/domain/tenant"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
)

// InMemoryCompanyStore implements tenant.Repository
type InMemoryCompanyStore struct {
	*InMemoryStore[*tenant.Company]
}

func NewInMemoryCompanyStore() *InMemoryCompanyStore {
	return &InMemoryCompanyStore{
		InMemoryStore: NewInMemoryStore[*tenant.Company](),
	}
}

func copyCompany(c *tenant.Company) *tenant.Company {
	if c == nil {
		return nil
	}
	copied := *c
	if c.CustomLicenseFee != nil {
		fee := *c.CustomLicenseFee
		copied.CustomLicenseFee = &fee
	}
	if c.CustomPerGuardFee != nil {
		fee := *c.CustomPerGuardFee
		copied.CustomPerGuardFee = &fee
	}
	if c.PlanID != nil {
		planID := *c.PlanID
		copied.PlanID = &planID
	}
	return &copied
}

func (s *InMemoryCompanyStore) Create(ctx context.Context, c *tenant.Company) error {
	if c == nil {
		return ierr.NewError("company cannot be nil").
			WithHint("Company cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, c.ID, copyCompany(c))
}

func (s *InMemoryCompanyStore) Get(ctx context.Context, id string) (*tenant.Company, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("company not found").
			WithHint("Company not found").
			WithReportableDetails(map[string]any{
				"company_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyCompany(c), nil
}

func companyFilterFn(_ context.Context, c *tenant.Company, raw interface{}) bool {
	filter, ok := raw.(*types.CompanyFilter)
	if !ok || filter == nil {
		return c.Status == types.StatusPublished
	}
	if c.Status != filter.GetStatus() {
		return false
	}
	if filter.ActiveOnly && !c.Active {
		return false
	}
	if filter.PlanID != nil && (c.PlanID == nil || *c.PlanID != *filter.PlanID) {
		return false
	}
	return true
}

func companySortFn(a, b *tenant.Company) bool {
	return a.CreatedAt.After(b.CreatedAt)
}

func (s *InMemoryCompanyStore) List(ctx context.Context, filter *types.CompanyFilter) ([]*tenant.Company, error) {
	companies, err := s.InMemoryStore.List(ctx, filter, companyFilterFn, companySortFn)
	if err != nil {
		return nil, err
	}
	companies = paginate(companies, filter.GetLimit(), filter.GetOffset())
	result := make([]*tenant.Company, len(companies))
	for i, c := range companies {
		result[i] = copyCompany(c)
	}
	return result, nil
}

func (s *InMemoryCompanyStore) Count(ctx context.Context, filter *types.CompanyFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, companyFilterFn)
}

func (s *InMemoryCompanyStore) Update(ctx context.Context, c *tenant.Company) error {
	if c == nil {
		return ierr.NewError("company cannot be nil").
			WithHint("Company cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, c.ID, copyCompany(c))
}

func (s *InMemoryCompanyStore) ListActiveByPlan(ctx context.Context, planID string) ([]*tenant.Company, error) {
	filter := types.NewCompanyFilter()
	filter.ActiveOnly = true
	filter.PlanID = &planID
	filter.Limit = lo.ToPtr(types.FilterMaxLimit)
	return s.List(ctx, filter)
}
