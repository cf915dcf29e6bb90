package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/radahn42/chronicles/internal/lib/authctx"
)

const RequestIDHeader = "X-Request-ID"

// RequestID puts the caller's X-Request-ID, or a fresh UUIDv7, into the
// request context and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			if id, err := uuid.NewV7(); err == nil {
				requestID = id.String()
			}
		}

		c.Request = c.Request.WithContext(authctx.SetRequestID(c.Request.Context(), requestID))
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
