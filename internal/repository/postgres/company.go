package postgres

import (
	"context"
	"fmt"

	domainTenant "github.com/securecommand/securecommand/internal/domain/tenant"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/logger"
	"github.com/securecommand/securecommand/internal/postgres"
	"github.com/securecommand/securecommand/internal/types"
)

type companyRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(client postgres.IClient, logger *logger.Logger) domainTenant.Repository {
	return &companyRepository{
		client: client,
		logger: logger,
	}
}

const companyColumns = `id, name, active, custom_license_fee, custom_per_guard_fee, plan_id,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *companyRepository) Create(ctx context.Context, company *domainTenant.Company) error {
	r.logger.Debugw("creating company", "company_id", company.ID, "name", company.Name)

	query := fmt.Sprintf(`
		INSERT INTO companies (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`, companyColumns)

	_, err := r.client.Querier(ctx).Exec(ctx, query,
		company.ID, company.Name, company.Active,
		company.CustomLicenseFee, company.CustomPerGuardFee, company.PlanID,
		company.TenantID, string(company.Status),
		company.CreatedAt, company.UpdatedAt, company.CreatedBy, company.UpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A company with this identifier already exists").
				WithReportableDetails(map[string]any{
					"company_id": company.ID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create company").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *companyRepository) Get(ctx context.Context, id string) (*domainTenant.Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM companies WHERE id = $1 AND status != $2`, companyColumns)

	row := r.client.Querier(ctx).QueryRow(ctx, query, id, string(types.StatusDeleted))
	company, err := scanCompany(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.NewError("company not found").
				WithHint("Company not found").
				WithReportableDetails(map[string]any{
					"company_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get company").
			Mark(ierr.ErrDatabase)
	}
	return company, nil
}

func (r *companyRepository) List(ctx context.Context, filter *types.CompanyFilter) ([]*domainTenant.Company, error) {
	if filter == nil {
		filter = types.NewCompanyFilter()
	}

	query := fmt.Sprintf(`SELECT %s FROM companies WHERE status = $1`, companyColumns)
	args := []any{string(filter.GetStatus())}

	if filter.ActiveOnly {
		query += ` AND active = true`
	}
	if filter.PlanID != nil {
		args = append(args, *filter.PlanID)
		query += fmt.Sprintf(` AND plan_id = $%d`, len(args))
	}

	query += fmt.Sprintf(` ORDER BY created_at %s`, orderDirection(filter.QueryFilter))
	args = append(args, filter.GetLimit(), filter.GetOffset())
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.client.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list companies").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var companies []*domainTenant.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan company").
				Mark(ierr.ErrDatabase)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list companies").
			Mark(ierr.ErrDatabase)
	}
	return companies, nil
}

func (r *companyRepository) Count(ctx context.Context, filter *types.CompanyFilter) (int, error) {
	if filter == nil {
		filter = types.NewCompanyFilter()
	}

	query := `SELECT COUNT(*) FROM companies WHERE status = $1`
	args := []any{string(filter.GetStatus())}

	if filter.ActiveOnly {
		query += ` AND active = true`
	}
	if filter.PlanID != nil {
		args = append(args, *filter.PlanID)
		query += fmt.Sprintf(` AND plan_id = $%d`, len(args))
	}

	var count int
	if err := r.client.Querier(ctx).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count companies").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *companyRepository) Update(ctx context.Context, company *domainTenant.Company) error {
	r.logger.Debugw("updating company", "company_id", company.ID)

	query := `
		UPDATE companies
		SET name = $2, active = $3, custom_license_fee = $4, custom_per_guard_fee = $5,
		    plan_id = $6, status = $7, updated_at = $8, updated_by = $9
		WHERE id = $1`

	tag, err := r.client.Querier(ctx).Exec(ctx, query,
		company.ID, company.Name, company.Active,
		company.CustomLicenseFee, company.CustomPerGuardFee, company.PlanID,
		string(company.Status), company.UpdatedAt, company.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update company").
			Mark(ierr.ErrDatabase)
	}
	if tag.RowsAffected() == 0 {
		return ierr.NewError("company not found").
			WithHint("Company not found").
			WithReportableDetails(map[string]any{
				"company_id": company.ID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *companyRepository) ListActiveByPlan(ctx context.Context, planID string) ([]*domainTenant.Company, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM companies
		WHERE plan_id = $1 AND active = true AND status = $2
		ORDER BY name asc`, companyColumns)

	rows, err := r.client.Querier(ctx).Query(ctx, query, planID, string(types.StatusPublished))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list companies referencing plan").
			WithReportableDetails(map[string]any{
				"plan_id": planID,
			}).
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var companies []*domainTenant.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan company").
				Mark(ierr.ErrDatabase)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list companies referencing plan").
			Mark(ierr.ErrDatabase)
	}
	return companies, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*domainTenant.Company, error) {
	var company domainTenant.Company
	var status string
	err := row.Scan(
		&company.ID, &company.Name, &company.Active,
		&company.CustomLicenseFee, &company.CustomPerGuardFee, &company.PlanID,
		&company.TenantID, &status,
		&company.CreatedAt, &company.UpdatedAt, &company.CreatedBy, &company.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	company.Status = types.Status(status)
	return &company, nil
}

func orderDirection(filter *types.QueryFilter) string {
	if filter.GetOrder() == "asc" {
		return "asc"
	}
	return "desc"
}
