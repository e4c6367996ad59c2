package auth

import (
	"context"

	"github.com/securecommand/securecommand/internal/config"
	"github.com/securecommand/securecommand/internal/logger"
	"github.com/securecommand/securecommand/internal/types"
)

// Claims is the identity extracted from a validated token: who is acting, for
// which company, and with what role.
type Claims struct {
	UserID    string         `json:"user_id"`
	Email     string         `json:"email,omitempty"`
	CompanyID string         `json:"company_id,omitempty"`
	Role      types.UserRole `json:"role"`
}

// Provider validates bearer tokens issued by the backing identity provider.
type Provider interface {
	GetProvider() types.AuthProvider
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

// NewProvider selects the identity provider from configuration.
func NewProvider(cfg *config.Configuration, log *logger.Logger) Provider {
	switch cfg.Auth.Provider {
	case string(types.AuthProviderSupabase):
		return NewSupabaseAuth(cfg, log)
	default:
		return NewSecureCommandAuth(cfg)
	}
}
