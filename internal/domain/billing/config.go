package billing

import (
	"context"

	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
	"github.com/shopspring/decimal"
)

// PricingConfig is the platform-wide default pricing. Exactly one row exists
// once an administrator has configured defaults; before that, every billing
// computation fails with ErrUnconfiguredPricing.
type PricingConfig struct {
	ID                 string          `json:"id"`
	DefaultLicenseFee  decimal.Decimal `json:"default_license_fee"`
	DefaultPerGuardFee decimal.Decimal `json:"default_per_guard_fee"`

	types.BaseModel
}

func (c *PricingConfig) Validate() error {
	if c.DefaultLicenseFee.IsNegative() {
		return ierr.NewError("pricing config validation failed").
			WithHint("default_license_fee must be non negative").
			Mark(ierr.ErrValidation)
	}
	if c.DefaultPerGuardFee.IsNegative() {
		return ierr.NewError("pricing config validation failed").
			WithHint("default_per_guard_fee must be non negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SettingsRepository is the persistence interface for the billing settings
// singleton.
type SettingsRepository interface {
	// Get returns the singleton pricing config, or an ErrNotFound-marked error
	// when defaults have not been configured yet.
	Get(ctx context.Context) (*PricingConfig, error)
	// Upsert creates or replaces the singleton.
	Upsert(ctx context.Context, config *PricingConfig) error
}
