package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/securecommand/securecommand/internal/auth"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/logger"
	"github.com/securecommand/securecommand/internal/types"
)

// AuthenticateMiddleware validates the bearer token and loads the caller's
// identity into the request context. Requests without a valid token are
// rejected before reaching any handler.
func AuthenticateMiddleware(provider auth.Provider, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(types.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := provider.ValidateToken(c.Request.Context(), token)
		if err != nil {
			log.Debugw("token validation failed", "error", err)
			abortUnauthorized(c)
			return
		}

		ctx := c.Request.Context()
		ctx = types.SetUserID(ctx, claims.UserID)
		ctx = types.SetTenantID(ctx, claims.CompanyID)
		ctx = types.SetUserRole(ctx, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// RequirePlatformAdmin restricts a route to platform administrators.
func RequirePlatformAdmin(c *gin.Context) {
	if types.GetUserRole(c.Request.Context()) != types.UserRolePlatformAdmin {
		c.AbortWithStatusJSON(403, ierr.NewErrorResponse(
			ierr.NewError("platform administrator access required").
				WithHint("This operation requires platform administrator access").
				Mark(ierr.ErrPermissionDenied)))
		return
	}
	c.Next()
}

// RequireCompanyAdmin restricts a route to company administrators and above.
func RequireCompanyAdmin(c *gin.Context) {
	role := types.GetUserRole(c.Request.Context())
	if role != types.UserRolePlatformAdmin && role != types.UserRoleCompanyAdmin {
		c.AbortWithStatusJSON(403, ierr.NewErrorResponse(
			ierr.NewError("company administrator access required").
				WithHint("This operation requires company administrator access").
				Mark(ierr.ErrPermissionDenied)))
		return
	}
	c.Next()
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(401, ierr.NewErrorResponse(
		ierr.NewError("unauthorized").
			WithHint("A valid bearer token is required").
			Mark(ierr.ErrPermissionDenied)))
}
