package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v4"
	supa "github.com/nedpals/supabase-go"
	"github.com/securecommand/securecommand/internal/config"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/logger"
	"github.com/securecommand/securecommand/internal/types"
)

type supabaseAuth struct {
	AuthConfig config.AuthConfig
	client     *supa.Client
	logger     *logger.Logger
}

// NewSupabaseAuth creates a Provider backed by a hosted Supabase project.
func NewSupabaseAuth(cfg *config.Configuration, log *logger.Logger) Provider {
	client := supa.CreateClient(cfg.Auth.Supabase.BaseURL, cfg.Auth.Supabase.ServiceKey)
	if client == nil {
		log.Fatalf("failed to create Supabase client")
	}

	return &supabaseAuth{
		AuthConfig: cfg.Auth,
		client:     client,
		logger:     log,
	}
}

func (s *supabaseAuth) GetProvider() types.AuthProvider {
	return types.AuthProviderSupabase
}

// ValidateToken verifies the Supabase-issued JWT locally when a JWT secret is
// configured, falling back to the Supabase user endpoint otherwise.
func (s *supabaseAuth) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ierr.NewError("token is required").
			Mark(ierr.ErrPermissionDenied)
	}

	if s.AuthConfig.Supabase.JWTSecret != "" {
		return s.validateLocally(token)
	}
	return s.validateRemotely(ctx, token)
}

func (s *supabaseAuth) validateLocally(token string) (*Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewErrorf("unexpected signing method: %v", t.Header["alg"]).
				Mark(ierr.ErrPermissionDenied)
		}
		return []byte(s.AuthConfig.Supabase.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ierr.WithError(err).
			WithHint("Invalid or expired token").
			Mark(ierr.ErrPermissionDenied)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ierr.NewError("invalid token claims").
			Mark(ierr.ErrPermissionDenied)
	}

	claims := &Claims{Role: types.UserRoleGuard}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.UserID = sub
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	applyAppMetadata(claims, mapClaims)

	if claims.UserID == "" {
		return nil, ierr.NewError("token is missing subject").
			Mark(ierr.ErrPermissionDenied)
	}
	return claims, nil
}

func (s *supabaseAuth) validateRemotely(ctx context.Context, token string) (*Claims, error) {
	user, err := s.client.Auth.User(ctx, token)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid or expired token").
			Mark(ierr.ErrPermissionDenied)
	}

	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   types.UserRoleGuard,
	}

	// The client library does not expose app_metadata, so role and company
	// scope come from the token payload. The user endpoint has already
	// vouched for the token; no second signature check is needed.
	if parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{}); err == nil {
		if mapClaims, ok := parsed.Claims.(jwt.MapClaims); ok {
			applyAppMetadata(claims, mapClaims)
		}
	}
	return claims, nil
}

// applyAppMetadata copies role and company scope from Supabase app_metadata.
// Supabase keeps app_metadata server-controlled, unlike user_metadata which
// end users can edit, so only app_metadata is trusted for authorization.
func applyAppMetadata(claims *Claims, mapClaims jwt.MapClaims) {
	appMetadata, ok := mapClaims["app_metadata"].(map[string]interface{})
	if !ok {
		return
	}
	if role, ok := appMetadata["role"].(string); ok {
		claims.Role = types.UserRole(role)
	}
	if companyID, ok := appMetadata["company_id"].(string); ok {
		claims.CompanyID = companyID
	}
}
