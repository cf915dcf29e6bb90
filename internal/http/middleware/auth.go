package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/radahn42/chronicles/internal/domain/models"
	"github.com/radahn42/chronicles/internal/lib/authctx"
)

// UnauthorizedMessage is the only body a rejected request ever gets.
const UnauthorizedMessage = "unauthorized access"

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (models.Identity, error)
}

// Auth admits a request only when the named cookie holds a valid token and
// stores the decoded identity in the request context.
func Auth(log *slog.Logger, verifier TokenVerifier, cookieName string) gin.HandlerFunc {
	const op = "middleware.Auth"

	log = log.With(slog.String("op", op))

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, err := c.Cookie(cookieName)
		if err != nil {
			token = ""
		}

		identity, err := verifier.VerifyToken(ctx, token)
		if err != nil {
			log.DebugContext(ctx, "request rejected", slog.String("route", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": UnauthorizedMessage})
			return
		}

		c.Request = c.Request.WithContext(authctx.SetIdentity(ctx, identity))

		c.Next()
	}
}
