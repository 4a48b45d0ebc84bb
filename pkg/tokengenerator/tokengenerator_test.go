package tokengenerator

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	gen := NewJwtTokenGenerator("test-secret", "ministry-portal", "ministry-portal")

	tokenStr, expiry, err := gen.GenerateToken("42", time.Hour, map[string]interface{}{
		"user_id": "42",
		"roles":   []string{"admin"},
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	token, err := gen.ParseToken(tokenStr)
	require.NoError(t, err)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "42", claims["sub"])
	assert.NotEmpty(t, claims["jti"])

	extra, ok := claims["extra_claims"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "42", extra["user_id"])
	assert.Equal(t, []interface{}{"admin"}, extra["roles"])
}

func TestGenerateTokenDefaultExpiry(t *testing.T) {
	gen := NewJwtTokenGenerator("test-secret", "iss", "aud")

	_, expiry, err := gen.GenerateToken("1", 0, nil)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultSessionExpiry), expiry, 5*time.Second)
}

func TestParseTokenRejects(t *testing.T) {
	gen := NewJwtTokenGenerator("test-secret", "iss", "aud")

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJwtTokenGenerator("other-secret", "iss", "aud")
		tokenStr, _, err := other.GenerateToken("1", time.Hour, nil)
		require.NoError(t, err)

		_, err = gen.ParseToken(tokenStr)
		assert.Error(t, err)
	})

	t.Run("wrong audience", func(t *testing.T) {
		other := NewJwtTokenGenerator("test-secret", "iss", "someone-else")
		tokenStr, _, err := other.GenerateToken("1", time.Hour, nil)
		require.NoError(t, err)

		_, err = gen.ParseToken(tokenStr)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		tokenStr, _, err := gen.GenerateToken("1", time.Nanosecond, nil)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		_, err = gen.ParseToken(tokenStr)
		assert.Error(t, err)
	})
}
