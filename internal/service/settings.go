package service

import (
	"context"

	"github.com/securecommand/securecommand/internal/api/dto"
)

// SettingsService manages the platform-wide billing defaults singleton.
// Mutations are platform-admin operations enforced at the HTTP layer.
type SettingsService interface {
	GetBillingSettings(ctx context.Context) (*dto.BillingSettingsResponse, error)
	UpdateBillingSettings(ctx context.Context, req dto.UpdateBillingSettingsRequest) (*dto.BillingSettingsResponse, error)
}

type settingsService struct {
	ServiceParams
}

func NewSettingsService(params ServiceParams) SettingsService {
	return &settingsService{ServiceParams: params}
}

func (s *settingsService) GetBillingSettings(ctx context.Context) (*dto.BillingSettingsResponse, error) {
	config, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.BillingSettingsResponse{PricingConfig: config}, nil
}

func (s *settingsService) UpdateBillingSettings(ctx context.Context, req dto.UpdateBillingSettingsRequest) (*dto.BillingSettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	config := req.ToPricingConfig(ctx)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := s.SettingsRepo.Upsert(ctx, config); err != nil {
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("updated billing defaults",
		"default_license_fee", config.DefaultLicenseFee.String(),
		"default_per_guard_fee", config.DefaultPerGuardFee.String(),
	)
	return &dto.BillingSettingsResponse{PricingConfig: config}, nil
}
