package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/radahn42/chronicles/internal/domain/models"
	"github.com/radahn42/chronicles/internal/lib/logger/slogdiscard"
	"github.com/radahn42/chronicles/internal/services/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	secret   = "test-secret"
	tokenTTL = time.Hour
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func newAuth(t *testing.T, secret string, c *clock) *auth.Auth {
	t.Helper()

	return auth.New(slogdiscard.NewDiscardLogger(), secret, tokenTTL, auth.WithClock(c.Now))
}

func TestIssueVerify_HappyPath(t *testing.T) {
	ctx := context.Background()
	c := &clock{now: time.Now()}
	a := newAuth(t, secret, c)

	email := gofakeit.Email()
	claim := models.IdentityClaim{"email": email, "displayName": gofakeit.Name()}

	token, err := a.IssueToken(ctx, claim)
	require.NoError(t, err)

	c.now = c.now.Add(tokenTTL - time.Second)

	identity, err := a.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, claim, identity.Claim)
	assert.Equal(t, email, identity.Claim.Email())
}

func TestVerify_Expiry(t *testing.T) {
	ctx := context.Background()
	issuedAt := time.Now()
	c := &clock{now: issuedAt}
	a := newAuth(t, secret, c)

	token, err := a.IssueToken(ctx, models.IdentityClaim{"email": gofakeit.Email()})
	require.NoError(t, err)

	c.now = issuedAt.Add(tokenTTL)
	_, err = a.VerifyToken(ctx, token)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	c.now = issuedAt.Add(tokenTTL + time.Minute)
	_, err = a.VerifyToken(ctx, token)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestVerify_FailCases(t *testing.T) {
	ctx := context.Background()
	c := &clock{now: time.Now()}
	a := newAuth(t, secret, c)

	foreign, err := newAuth(t, "another-secret", c).IssueToken(ctx, models.IdentityClaim{"email": gofakeit.Email()})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "Empty token", token: ""},
		{name: "Foreign secret", token: foreign},
		{name: "Malformed", token: gofakeit.Word()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.VerifyToken(ctx, tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, auth.ErrUnauthorized)
		})
	}
}

func TestIssue_ReservedClaim(t *testing.T) {
	a := newAuth(t, secret, &clock{now: time.Now()})

	_, err := a.IssueToken(context.Background(), models.IdentityClaim{"email": gofakeit.Email(), "exp": 1})
	assert.ErrorIs(t, err, auth.ErrReservedClaim)
}
