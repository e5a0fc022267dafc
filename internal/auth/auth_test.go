package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mart-backend/internal/config"
	"mart-backend/internal/models"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, VerifyPassword(hash, "wrong-pass"))
}

func testJWTConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "mart-backend-test"
	return cfg
}

func TestTokenGenerateValidate(t *testing.T) {
	j := NewJWTManager(testJWTConfig())

	user := &models.User{ID: 7, Email: "ops@example.com", Role: "admin", IsActive: true}
	token, err := j.GenerateToken(user)
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "mart-backend-test", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	j := NewJWTManager(testJWTConfig())
	token, err := j.GenerateToken(&models.User{ID: 1, Email: "a@b.c", Role: "operator", IsActive: true})
	require.NoError(t, err)

	other := testJWTConfig()
	other.JWT.Secret = "different-secret"
	_, err = NewJWTManager(other).ValidateToken(token)
	assert.Error(t, err)
}
