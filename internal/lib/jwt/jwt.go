package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/radahn42/chronicles/internal/domain/models"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrReservedClaim = errors.New("payload already has a reserved claim")
)

const (
	claimIssuedAt  = "iat"
	claimExpiresAt = "exp"
	claimNotBefore = "nbf"
)

// NewToken signs the identity payload together with iat=now and
// exp=now+duration using HS256.
func NewToken(claim models.IdentityClaim, secret string, duration time.Duration, now time.Time) (string, error) {
	if _, ok := claim[claimExpiresAt]; ok {
		return "", fmt.Errorf("%w: %q", ErrReservedClaim, claimExpiresAt)
	}
	if nbf, ok := claim[claimNotBefore]; ok && !isNumericDate(nbf) {
		return "", fmt.Errorf("%w: %q is not a number", ErrReservedClaim, claimNotBefore)
	}

	claims := make(jwt.MapClaims, len(claim)+2)
	for k, v := range claim {
		claims[k] = v
	}
	claims[claimIssuedAt] = now.Unix()
	claims[claimExpiresAt] = now.Add(duration).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// isNumericDate reports whether v decodes as a JWT NumericDate.
func isNumericDate(v any) bool {
	switch v.(type) {
	case float64, json.Number, int, int64:
		return true
	default:
		return false
	}
}

// ParseToken verifies the signature and expiry of tokenString as of now.
// The returned identity carries the payload without iat and exp.
func ParseToken(tokenString, secret string, now time.Time) (models.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Identity{}, ErrTokenExpired
		}
		return models.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Identity{}, ErrInvalidToken
	}

	identity := models.Identity{
		Claim: make(models.IdentityClaim, len(claims)),
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		identity.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		identity.IssuedAt = iat.Time
	}
	for k, v := range claims {
		if k == claimIssuedAt || k == claimExpiresAt {
			continue
		}
		identity.Claim[k] = v
	}

	return identity, nil
}
