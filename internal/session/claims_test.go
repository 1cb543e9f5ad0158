package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/bazaar/internal/storage"
)

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ann",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	t.Run("jwt exposes subject and expiry", func(t *testing.T) {
		claims, ok := ParseClaims(signed)
		require.True(t, ok)
		assert.Equal(t, "ann", claims.Subject)
		assert.True(t, exp.Equal(claims.ExpiresAt))
		assert.False(t, claims.Expired(time.Now()))
		assert.True(t, claims.Expired(exp.Add(time.Minute)))
	})

	t.Run("opaque token is not decodable", func(t *testing.T) {
		_, ok := ParseClaims("Zx9_opaque-urlsafe-token")
		assert.False(t, ok)
	})

	t.Run("empty token", func(t *testing.T) {
		_, ok := ParseClaims("")
		assert.False(t, ok)
	})

	t.Run("store reads current token", func(t *testing.T) {
		ctx := context.Background()
		s := New(storage.NewMemory())
		require.NoError(t, s.SetToken(ctx, signed))
		claims, ok := s.Claims(ctx)
		require.True(t, ok)
		assert.Equal(t, "ann", claims.Subject)
	})
}

func TestTokenClaimsWithoutExpiryNeverExpire(t *testing.T) {
	assert.False(t, TokenClaims{}.Expired(time.Now()))
}
