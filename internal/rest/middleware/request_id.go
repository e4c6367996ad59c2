package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/securecommand/securecommand/internal/types"
)

// RequestIDMiddleware ensures every request carries a request ID, honoring an
// inbound header so callers can correlate retries.
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
	}

	ctx := types.SetRequestID(c.Request.Context(), requestID)
	c.Request = c.Request.WithContext(ctx)
	c.Writer.Header().Set(types.HeaderRequestID, requestID)
	c.Next()
}
