package postgres

import (
	"context"

	domainBilling "github.com/securecommand/securecommand/internal/domain/billing"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/logger"
	"github.com/securecommand/securecommand/internal/postgres"
	"github.com/securecommand/securecommand/internal/types"
)

type settingsRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewSettingsRepository creates a new billing settings repository
func NewSettingsRepository(client postgres.IClient, logger *logger.Logger) domainBilling.SettingsRepository {
	return &settingsRepository{
		client: client,
		logger: logger,
	}
}

// singletonID pins the billing_settings table to a single row.
const singletonID = "bset_default"

func (r *settingsRepository) Get(ctx context.Context) (*domainBilling.PricingConfig, error) {
	query := `
		SELECT id, default_license_fee, default_per_guard_fee,
		       tenant_id, status, created_at, updated_at, created_by, updated_by
		FROM billing_settings WHERE id = $1`

	var config domainBilling.PricingConfig
	var status string
	err := r.client.Querier(ctx).QueryRow(ctx, query, singletonID).Scan(
		&config.ID, &config.DefaultLicenseFee, &config.DefaultPerGuardFee,
		&config.TenantID, &status,
		&config.CreatedAt, &config.UpdatedAt, &config.CreatedBy, &config.UpdatedBy,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.NewError("billing settings not configured").
				WithHint("Platform billing defaults have not been configured yet").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get billing settings").
			Mark(ierr.ErrDatabase)
	}
	config.Status = types.Status(status)
	return &config, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, config *domainBilling.PricingConfig) error {
	r.logger.Debugw("upserting billing settings",
		"default_license_fee", config.DefaultLicenseFee,
		"default_per_guard_fee", config.DefaultPerGuardFee,
	)

	config.ID = singletonID
	query := `
		INSERT INTO billing_settings (id, default_license_fee, default_per_guard_fee,
			tenant_id, status, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET default_license_fee = EXCLUDED.default_license_fee,
		    default_per_guard_fee = EXCLUDED.default_per_guard_fee,
		    updated_at = EXCLUDED.updated_at,
		    updated_by = EXCLUDED.updated_by`

	_, err := r.client.Querier(ctx).Exec(ctx, query,
		config.ID, config.DefaultLicenseFee, config.DefaultPerGuardFee,
		config.TenantID, string(config.Status),
		config.CreatedAt, config.UpdatedAt, config.CreatedBy, config.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update billing settings").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
