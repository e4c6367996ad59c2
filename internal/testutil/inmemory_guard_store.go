package testutil

import (
	"context"

	"github.com/securecommand/securecommand/internal/domain/guard"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
)

// InMemoryGuardStore implements guard.Repository
type InMemoryGuardStore struct {
	*InMemoryStore[*guard.Guard]
}

func NewInMemoryGuardStore() *InMemoryGuardStore {
	return &InMemoryGuardStore{
		InMemoryStore: NewInMemoryStore[*guard.Guard](),
	}
}

func copyGuard(g *guard.Guard) *guard.Guard {
	if g == nil {
		return nil
	}
	copied := *g
	return &copied
}

func (s *InMemoryGuardStore) Create(ctx context.Context, g *guard.Guard) error {
	if g == nil {
		return ierr.NewError("guard cannot be nil").
			WithHint("Guard cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, g.ID, copyGuard(g))
}

func (s *InMemoryGuardStore) Get(ctx context.Context, id string) (*guard.Guard, error) {
	g, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("guard not found").
			WithHint("Guard not found").
			WithReportableDetails(map[string]any{
				"guard_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyGuard(g), nil
}

func guardFilterFn(_ context.Context, g *guard.Guard, raw interface{}) bool {
	filter, ok := raw.(*types.GuardFilter)
	if !ok || filter == nil {
		return g.Status == types.StatusPublished
	}
	if g.Status != filter.GetStatus() {
		return false
	}
	if filter.CompanyID != nil && g.CompanyID != *filter.CompanyID {
		return false
	}
	if filter.ActiveOnly && !g.Active {
		return false
	}
	return true
}

func guardSortFn(a, b *guard.Guard) bool {
	return a.CreatedAt.After(b.CreatedAt)
}

func (s *InMemoryGuardStore) List(ctx context.Context, filter *types.GuardFilter) ([]*guard.Guard, error) {
	guards, err := s.InMemoryStore.List(ctx, filter, guardFilterFn, guardSortFn)
	if err != nil {
		return nil, err
	}
	guards = paginate(guards, filter.GetLimit(), filter.GetOffset())
	result := make([]*guard.Guard, len(guards))
	for i, g := range guards {
		result[i] = copyGuard(g)
	}
	return result, nil
}

func (s *InMemoryGuardStore) Update(ctx context.Context, g *guard.Guard) error {
	if g == nil {
		return ierr.NewError("guard cannot be nil").
			WithHint("Guard cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, g.ID, copyGuard(g))
}

func (s *InMemoryGuardStore) CountActiveByCompany(ctx context.Context, companyID string) (int, error) {
	filter := types.NewGuardFilter()
	filter.CompanyID = &companyID
	filter.ActiveOnly = true
	return s.InMemoryStore.Count(ctx, filter, guardFilterFn)
}
