package postgres

import (
	"context"
	"fmt"
	"time"

	domainPlan "github.com/securecommand/securecommand/internal/domain/plan"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/logger"
	"github.com/securecommand/securecommand/internal/postgres"
	"github.com/securecommand/securecommand/internal/types"
)

type planRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewPlanRepository creates a new pricing plan repository
func NewPlanRepository(client postgres.IClient, logger *logger.Logger) domainPlan.Repository {
	return &planRepository{
		client: client,
		logger: logger,
	}
}

const planColumns = `id, name, description,
	license_fee_monthly, license_fee_yearly, per_guard_fee_monthly, per_guard_fee_yearly,
	currency, features, max_users, max_sites, max_guards,
	active, featured, display_order,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *planRepository) Create(ctx context.Context, plan *domainPlan.Plan) error {
	r.logger.Debugw("creating plan", "plan_id", plan.ID, "name", plan.Name)

	query := fmt.Sprintf(`
		INSERT INTO pricing_plans (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		planColumns)

	_, err := r.client.Querier(ctx).Exec(ctx, query,
		plan.ID, plan.Name, plan.Description,
		plan.LicenseFeeMonthly, plan.LicenseFeeYearly, plan.PerGuardFeeMonthly, plan.PerGuardFeeYearly,
		plan.Currency, plan.Features, plan.MaxUsers, plan.MaxSites, plan.MaxGuards,
		plan.Active, plan.Featured, plan.DisplayOrder,
		plan.TenantID, string(plan.Status),
		plan.CreatedAt, plan.UpdatedAt, plan.CreatedBy, plan.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A plan with this name already exists").
				WithReportableDetails(map[string]any{
					"name": plan.Name,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create plan").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id string) (*domainPlan.Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM pricing_plans WHERE id = $1 AND status != $2`, planColumns)

	row := r.client.Querier(ctx).QueryRow(ctx, query, id, string(types.StatusDeleted))
	plan, err := scanPlan(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.NewError("plan not found").
				WithHint("Plan not found").
				WithReportableDetails(map[string]any{
					"plan_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get plan").
			Mark(ierr.ErrDatabase)
	}
	return plan, nil
}

func (r *planRepository) List(ctx context.Context, filter *types.PlanFilter) ([]*domainPlan.Plan, error) {
	if filter == nil {
		filter = types.NewPlanFilter()
	}

	query := fmt.Sprintf(`SELECT %s FROM pricing_plans WHERE status = $1`, planColumns)
	args := []any{string(filter.GetStatus())}

	if filter.ActiveOnly {
		query += ` AND active = true`
	}
	if filter.FeaturedOnly {
		query += ` AND featured = true`
	}
	if filter.Currency != nil {
		args = append(args, *filter.Currency)
		query += fmt.Sprintf(` AND currency = $%d`, len(args))
	}

	query += ` ORDER BY display_order asc, created_at desc`
	args = append(args, filter.GetLimit(), filter.GetOffset())
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.client.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list plans").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var plans []*domainPlan.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan plan").
				Mark(ierr.ErrDatabase)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list plans").
			Mark(ierr.ErrDatabase)
	}
	return plans, nil
}

func (r *planRepository) Count(ctx context.Context, filter *types.PlanFilter) (int, error) {
	if filter == nil {
		filter = types.NewPlanFilter()
	}

	query := `SELECT COUNT(*) FROM pricing_plans WHERE status = $1`
	args := []any{string(filter.GetStatus())}

	if filter.ActiveOnly {
		query += ` AND active = true`
	}
	if filter.FeaturedOnly {
		query += ` AND featured = true`
	}
	if filter.Currency != nil {
		args = append(args, *filter.Currency)
		query += fmt.Sprintf(` AND currency = $%d`, len(args))
	}

	var count int
	if err := r.client.Querier(ctx).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count plans").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *planRepository) Update(ctx context.Context, plan *domainPlan.Plan) error {
	r.logger.Debugw("updating plan", "plan_id", plan.ID)

	query := `
		UPDATE pricing_plans
		SET name = $2, description = $3,
		    license_fee_monthly = $4, license_fee_yearly = $5,
		    per_guard_fee_monthly = $6, per_guard_fee_yearly = $7,
		    currency = $8, features = $9, max_users = $10, max_sites = $11, max_guards = $12,
		    active = $13, featured = $14, display_order = $15,
		    updated_at = $16, updated_by = $17
		WHERE id = $1 AND status != $18`

	tag, err := r.client.Querier(ctx).Exec(ctx, query,
		plan.ID, plan.Name, plan.Description,
		plan.LicenseFeeMonthly, plan.LicenseFeeYearly, plan.PerGuardFeeMonthly, plan.PerGuardFeeYearly,
		plan.Currency, plan.Features, plan.MaxUsers, plan.MaxSites, plan.MaxGuards,
		plan.Active, plan.Featured, plan.DisplayOrder,
		plan.UpdatedAt, plan.UpdatedBy,
		string(types.StatusDeleted),
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update plan").
			Mark(ierr.ErrDatabase)
	}
	if tag.RowsAffected() == 0 {
		return ierr.NewError("plan not found").
			WithHint("Plan not found").
			WithReportableDetails(map[string]any{
				"plan_id": plan.ID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

// Delete soft-deletes the plan. Reference checks against active companies are
// the service layer's responsibility and run in the same transaction.
func (r *planRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debugw("deleting plan", "plan_id", id)

	query := `UPDATE pricing_plans SET status = $2, updated_at = $3 WHERE id = $1 AND status != $2`

	tag, err := r.client.Querier(ctx).Exec(ctx, query, id, string(types.StatusDeleted), time.Now().UTC())
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete plan").
			Mark(ierr.ErrDatabase)
	}
	if tag.RowsAffected() == 0 {
		return ierr.NewError("plan not found").
			WithHint("Plan not found").
			WithReportableDetails(map[string]any{
				"plan_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func scanPlan(row rowScanner) (*domainPlan.Plan, error) {
	var plan domainPlan.Plan
	var status string
	err := row.Scan(
		&plan.ID, &plan.Name, &plan.Description,
		&plan.LicenseFeeMonthly, &plan.LicenseFeeYearly, &plan.PerGuardFeeMonthly, &plan.PerGuardFeeYearly,
		&plan.Currency, &plan.Features, &plan.MaxUsers, &plan.MaxSites, &plan.MaxGuards,
		&plan.Active, &plan.Featured, &plan.DisplayOrder,
		&plan.TenantID, &status,
		&plan.CreatedAt, &plan.UpdatedAt, &plan.CreatedBy, &plan.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	plan.Status = types.Status(status)
	return &plan, nil
}
