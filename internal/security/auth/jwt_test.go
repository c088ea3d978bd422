package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "", time.Minute)

	token, err := tm.GenerateToken("0102030400", domain.RoleAdmin)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "0102030400", claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "shopcart", claims.Issuer)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("one", "", time.Minute).GenerateToken("u", domain.RoleUser)
	require.NoError(t, err)

	_, err = NewTokenManager("two", "", time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", "", time.Minute)
	tm.ttl = -time.Minute

	token, err := tm.GenerateToken("u", domain.RoleUser)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateRequiresIdentity(t *testing.T) {
	_, err := NewTokenManager("s", "", 0).GenerateToken("", domain.RoleUser)
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	tok, err := ExtractToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer "} {
		_, err := ExtractToken(h)
		assert.Error(t, err, h)
	}
}
