package testutil

import (
	"context"
	"sync"

	"github.com/securecommand/securecommand/internal/domain/billing"
	ierr "github.com/securecommand/securecommand/internal/errors"
)

// InMemorySettingsStore implements billing.SettingsRepository
type InMemorySettingsStore struct {
	mu     sync.RWMutex
	config *billing.PricingConfig
}

func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{}
}

func copyPricingConfig(c *billing.PricingConfig) *billing.PricingConfig {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}

func (s *InMemorySettingsStore) Get(ctx context.Context) (*billing.PricingConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.config == nil {
		return nil, ierr.NewError("billing settings not configured").
			WithHint("An administrator must configure billing defaults first").
			Mark(ierr.ErrNotFound)
	}
	return copyPricingConfig(s.config), nil
}

func (s *InMemorySettingsStore) Upsert(ctx context.Context, config *billing.PricingConfig) error {
	if config == nil {
		return ierr.NewError("pricing config cannot be nil").
			WithHint("Pricing config cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = copyPricingConfig(config)
	return nil
}

// Clear removes the stored config, returning the store to the unconfigured
// state.
func (s *InMemorySettingsStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = nil
}
