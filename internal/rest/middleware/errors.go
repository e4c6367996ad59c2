package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ierr "github.com/securecommand/securecommand/internal/errors"
)

// ErrorHandler renders errors pushed onto the gin context as JSON with a
// status derived from the error classification. Handlers call c.Error and
// return; this middleware is the single place errors become HTTP.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		c.JSON(statusFromError(err), ierr.NewErrorResponse(err))
	}
}

func statusFromError(err error) int {
	switch {
	case ierr.IsValidation(err):
		return http.StatusBadRequest
	case ierr.IsPermissionDenied(err):
		return http.StatusForbidden
	case ierr.IsNotFound(err):
		return http.StatusNotFound
	case ierr.IsAlreadyExists(err),
		ierr.IsConflict(err),
		ierr.IsInvalidTransition(err),
		ierr.IsStaleState(err):
		return http.StatusConflict
	case ierr.IsUnconfiguredPricing(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
