package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/securecommand/securecommand/internal/config"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
	"golang.org/x/crypto/bcrypt"
)

// secureCommandAuth is the self-hosted identity provider: tokens are HMAC JWTs
// signed with the configured secret.
type secureCommandAuth struct {
	AuthConfig config.AuthConfig
}

func NewSecureCommandAuth(cfg *config.Configuration) Provider {
	return &secureCommandAuth{
		AuthConfig: cfg.Auth,
	}
}

func (a *secureCommandAuth) GetProvider() types.AuthProvider {
	return types.AuthProviderSecureCommand
}

// HashPassword hashes a password for storage.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ierr.NewError("password is required").
			WithHint("Password is required").
			Mark(ierr.ErrValidation)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to hash password").
			Mark(ierr.ErrSystem)
	}
	return string(hashed), nil
}

// ComparePassword validates a plaintext password against its stored hash.
func ComparePassword(hashed, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)); err != nil {
		return ierr.NewError("invalid password").
			WithHint("Invalid password").
			Mark(ierr.ErrPermissionDenied)
	}
	return nil
}

// GenerateToken signs a JWT carrying the claims. Used by signup/login flows
// and by tests.
func (a *secureCommandAuth) GenerateToken(claims *Claims, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        claims.UserID,
		"email":      claims.Email,
		"role":       string(claims.Role),
		"company_id": claims.CompanyID,
		"exp":        time.Now().Add(ttl).Unix(),
		"iat":        time.Now().Unix(),
	})

	signed, err := token.SignedString([]byte(a.AuthConfig.Secret))
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to generate token").
			Mark(ierr.ErrSystem)
	}
	return signed, nil
}

func (a *secureCommandAuth) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ierr.NewError("token is required").
			Mark(ierr.ErrPermissionDenied)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewErrorf("unexpected signing method: %v", t.Header["alg"]).
				Mark(ierr.ErrPermissionDenied)
		}
		return []byte(a.AuthConfig.Secret), nil
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
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = types.UserRole(role)
	}
	if companyID, ok := mapClaims["company_id"].(string); ok {
		claims.CompanyID = companyID
	}

	if claims.UserID == "" {
		return nil, ierr.NewError("token is missing subject").
			Mark(ierr.ErrPermissionDenied)
	}
	return claims, nil
}
