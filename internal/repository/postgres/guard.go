package postgres

import (
	"context"
	"fmt"

	domainGuard "github.com/securecommand/securecommand/internal/domain/guard"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/logger"
	"github.com/securecommand/securecommand/internal/postgres"
	"github.com/securecommand/securecommand/internal/types"
)

type guardRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewGuardRepository creates a new guard repository
func NewGuardRepository(client postgres.IClient, logger *logger.Logger) domainGuard.Repository {
	return &guardRepository{
		client: client,
		logger: logger,
	}
}

const guardColumns = `id, company_id, name, active,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *guardRepository) Create(ctx context.Context, guard *domainGuard.Guard) error {
	r.logger.Debugw("creating guard", "guard_id", guard.ID, "company_id", guard.CompanyID)

	query := fmt.Sprintf(`
		INSERT INTO guards (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, guardColumns)

	_, err := r.client.Querier(ctx).Exec(ctx, query,
		guard.ID, guard.CompanyID, guard.Name, guard.Active,
		guard.TenantID, string(guard.Status),
		guard.CreatedAt, guard.UpdatedAt, guard.CreatedBy, guard.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create guard").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *guardRepository) Get(ctx context.Context, id string) (*domainGuard.Guard, error) {
	query := fmt.Sprintf(`SELECT %s FROM guards WHERE id = $1 AND status != $2`, guardColumns)

	row := r.client.Querier(ctx).QueryRow(ctx, query, id, string(types.StatusDeleted))
	guard, err := scanGuard(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.NewError("guard not found").
				WithHint("Guard not found").
				WithReportableDetails(map[string]any{
					"guard_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get guard").
			Mark(ierr.ErrDatabase)
	}
	return guard, nil
}

func (r *guardRepository) List(ctx context.Context, filter *types.GuardFilter) ([]*domainGuard.Guard, error) {
	if filter == nil {
		filter = types.NewGuardFilter()
	}

	query := fmt.Sprintf(`SELECT %s FROM guards WHERE status = $1`, guardColumns)
	args := []any{string(filter.GetStatus())}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		query += fmt.Sprintf(` AND company_id = $%d`, len(args))
	}
	if filter.ActiveOnly {
		query += ` AND active = true`
	}

	query += fmt.Sprintf(` ORDER BY created_at %s`, orderDirection(filter.QueryFilter))
	args = append(args, filter.GetLimit(), filter.GetOffset())
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.client.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list guards").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var guards []*domainGuard.Guard
	for rows.Next() {
		guard, err := scanGuard(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan guard").
				Mark(ierr.ErrDatabase)
		}
		guards = append(guards, guard)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list guards").
			Mark(ierr.ErrDatabase)
	}
	return guards, nil
}

func (r *guardRepository) Update(ctx context.Context, guard *domainGuard.Guard) error {
	query := `
		UPDATE guards
		SET name = $2, active = $3, status = $4, updated_at = $5, updated_by = $6
		WHERE id = $1`

	tag, err := r.client.Querier(ctx).Exec(ctx, query,
		guard.ID, guard.Name, guard.Active,
		string(guard.Status), guard.UpdatedAt, guard.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update guard").
			Mark(ierr.ErrDatabase)
	}
	if tag.RowsAffected() == 0 {
		return ierr.NewError("guard not found").
			WithHint("Guard not found").
			WithReportableDetails(map[string]any{
				"guard_id": guard.ID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *guardRepository) CountActiveByCompany(ctx context.Context, companyID string) (int, error) {
	query := `SELECT COUNT(*) FROM guards WHERE company_id = $1 AND active = true AND status = $2`

	var count int
	err := r.client.Querier(ctx).QueryRow(ctx, query, companyID, string(types.StatusPublished)).Scan(&count)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count active guards").
			WithReportableDetails(map[string]any{
				"company_id": companyID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func scanGuard(row rowScanner) (*domainGuard.Guard, error) {
	var guard domainGuard.Guard
	var status string
	err := row.Scan(
		&guard.ID, &guard.CompanyID, &guard.Name, &guard.Active,
		&guard.TenantID, &status,
		&guard.CreatedAt, &guard.UpdatedAt, &guard.CreatedBy, &guard.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	guard.Status = types.Status(status)
	return &guard, nil
}
