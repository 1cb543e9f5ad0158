package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is what can be read from a JWT-shaped token without verifying
// it. The values are for display only.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// Expired reports whether the token carries an expiry in the past.
func (c TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Claims decodes the current token when it is a JWT. Opaque tokens, which
// is what the marketplace API issues today, report false.
func (s *Store) Claims(ctx context.Context) (TokenClaims, bool) {
	return ParseClaims(s.Token(ctx))
}

// ParseClaims decodes token without verifying its signature.
func ParseClaims(token string) (TokenClaims, bool) {
	if token == "" {
		return TokenClaims{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return TokenClaims{}, false
	}

	var claims TokenClaims
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, true
}
