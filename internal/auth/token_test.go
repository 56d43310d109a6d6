package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelcard/reclamation-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", 15)

	token, expiresAt, err := tm.GenerateToken("user-1", domain.RoleFinance)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleFinance, claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", 15)
	token, _, err := tm.GenerateToken("user-1", domain.RoleClient)
	require.NoError(t, err)

	other := NewTokenManager("secret-b", 15)
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	_, err := tm.ParseToken("not-a-jwt")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "hunter22"))
	assert.Error(t, ComparePassword(hash, "hunter23"))
}
