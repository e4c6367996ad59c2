package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/securecommand/securecommand/internal/config"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func newSupabaseAuthForTest() *supabaseAuth {
	return &supabaseAuth{
		AuthConfig: config.AuthConfig{
			Provider: string(types.AuthProviderSupabase),
			Supabase: config.SupabaseAuthConfig{
				JWTSecret: testJWTSecret,
			},
		},
	}
}

func signSupabaseToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func TestSupabaseValidateTokenReadsAppMetadata(t *testing.T) {
	a := newSupabaseAuthForTest()

	token := signSupabaseToken(t, jwt.MapClaims{
		"sub":   "user_abc",
		"email": "ops@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"app_metadata": map[string]interface{}{
			"role":       string(types.UserRoleCompanyAdmin),
			"company_id": "company_abc",
		},
	})

	claims, err := a.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user_abc", claims.UserID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, types.UserRoleCompanyAdmin, claims.Role)
	assert.Equal(t, "company_abc", claims.CompanyID)
}

func TestSupabaseValidateTokenDefaultsRole(t *testing.T) {
	a := newSupabaseAuthForTest()

	token := signSupabaseToken(t, jwt.MapClaims{
		"sub": "user_abc",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := a.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, types.UserRoleGuard, claims.Role)
	assert.Empty(t, claims.CompanyID)
}

func TestSupabaseValidateTokenRejectsBadTokens(t *testing.T) {
	a := newSupabaseAuthForTest()

	_, err := a.ValidateToken(context.Background(), "")
	require.Error(t, err)
	assert.True(t, ierr.IsPermissionDenied(err))

	_, err = a.ValidateToken(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.True(t, ierr.IsPermissionDenied(err))

	// Missing subject is rejected even when the signature checks out.
	token := signSupabaseToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, err = a.ValidateToken(context.Background(), token)
	require.Error(t, err)
	assert.True(t, ierr.IsPermissionDenied(err))
}

func TestApplyAppMetadataIgnoresUserMetadata(t *testing.T) {
	claims := &Claims{Role: types.UserRoleGuard}

	applyAppMetadata(claims, jwt.MapClaims{
		"user_metadata": map[string]interface{}{
			"role":       string(types.UserRolePlatformAdmin),
			"company_id": "company_spoofed",
		},
	})

	assert.Equal(t, types.UserRoleGuard, claims.Role)
	assert.Empty(t, claims.CompanyID)
}
