package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/radahn42/chronicles/internal/domain/models"
	"github.com/radahn42/chronicles/internal/lib/jwt"
)

var (
	// ErrUnauthorized covers every verification failure. Callers cannot tell
	// a missing, forged or expired token apart.
	ErrUnauthorized  = errors.New("unauthorized access")
	ErrReservedClaim = jwt.ErrReservedClaim
)

type Auth struct {
	log      *slog.Logger
	secret   string
	tokenTTL time.Duration
	now      func() time.Time
}

type Option func(*Auth)

// WithClock replaces time.Now as the source of issuance and verification time.
func WithClock(now func() time.Time) Option {
	return func(a *Auth) {
		a.now = now
	}
}

// New returns a new instance of the Auth service.
func New(log *slog.Logger, secret string, tokenTTL time.Duration, opts ...Option) *Auth {
	a := &Auth{
		log:      log,
		secret:   secret,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// IssueToken signs the identity claim as submitted by the client.
func (a *Auth) IssueToken(ctx context.Context, claim models.IdentityClaim) (string, error) {
	const op = "auth.IssueToken"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", claim.Email()),
	)

	token, err := jwt.NewToken(claim, a.secret, a.tokenTTL, a.now())
	if err != nil {
		log.ErrorContext(ctx, "failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.DebugContext(ctx, "token issued", slog.Duration("ttl", a.tokenTTL))

	return token, nil
}

// VerifyToken checks signature and expiry. Every failure is reported as
// ErrUnauthorized; the cause is only logged.
func (a *Auth) VerifyToken(ctx context.Context, token string) (models.Identity, error) {
	const op = "auth.VerifyToken"

	log := a.log.With(slog.String("op", op))

	if token == "" {
		log.DebugContext(ctx, "no token provided")
		return models.Identity{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	identity, err := jwt.ParseToken(token, a.secret, a.now())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.WarnContext(ctx, "access token expired")
		} else {
			log.WarnContext(ctx, "invalid access token", slog.Any("error", err))
		}
		return models.Identity{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	return identity, nil
}
