package tenant

import (
	"context"

	"github.com/securecommand/securecommand/internal/types"
)

// Repository is the persistence interface for companies.
type Repository interface {
	Create(ctx context.Context, company *Company) error
	Get(ctx context.Context, id string) (*Company, error)
	List(ctx context.Context, filter *types.CompanyFilter) ([]*Company, error)
	Count(ctx context.Context, filter *types.CompanyFilter) (int, error)
	Update(ctx context.Context, company *Company) error

	// ListActiveByPlan returns the active companies currently referencing the
	// given plan. Used to block plan deletion while references exist.
	ListActiveByPlan(ctx context.Context, planID string) ([]*Company, error)
}
