package guard

import (
	"context"

	"github.com/securecommand/securecommand/internal/types"
)

// Repository is the persistence interface for the guard roster.
type Repository interface {
	Create(ctx context.Context, guard *Guard) error
	Get(ctx context.Context, id string) (*Guard, error)
	List(ctx context.Context, filter *types.GuardFilter) ([]*Guard, error)
	Update(ctx context.Context, guard *Guard) error

	// CountActiveByCompany returns the billable guard count for a company.
	CountActiveByCompany(ctx context.Context, companyID string) (int, error)
}
