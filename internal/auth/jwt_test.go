package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough-32"

func newTestJWTService() *JWTService {
	return NewJWTService(testSecret, 15*time.Minute)
}

// ============================================
// GenerateAccessToken Tests
// ============================================

func TestGenerateAccessToken(t *testing.T) {
	svc := newTestJWTService()

	token, expiresAt, err := svc.GenerateAccessToken("admin@maboutique.com", "admin")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)
}

// ============================================
// ValidateAccessToken Tests
// ============================================

func TestValidateAccessToken(t *testing.T) {
	svc := newTestJWTService()
	token, _, err := svc.GenerateAccessToken("admin@maboutique.com", "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)

	require.NoError(t, err)
	assert.Equal(t, "admin@maboutique.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "admin@maboutique.com", claims.Subject)
}

func TestValidateAccessToken_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not-a-token"},
		{"truncated token", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	svc := newTestJWTService()
	other := NewJWTService("a-completely-different-secret-key-123", 15*time.Minute)

	token, _, err := svc.GenerateAccessToken("admin@maboutique.com", "admin")
	require.NoError(t, err)

	claims, err := other.ValidateAccessToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	svc := NewJWTService(testSecret, -1*time.Minute)

	token, _, err := svc.GenerateAccessToken("admin@maboutique.com", "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestGetAccessTokenExpiry(t *testing.T) {
	svc := NewJWTService(testSecret, 42*time.Minute)

	assert.Equal(t, 42*time.Minute, svc.GetAccessTokenExpiry())
}
