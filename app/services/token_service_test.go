// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, accessTTL time.Duration) TokenService {
	t.Helper()
	svc, err := NewTokenService(accessTTL, 24*time.Hour, "taskdesk-test", "taskdesk-test-api",
		"test-secret-key-at-least-32-chars-long!!")
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceRejectsWeakSecrets(t *testing.T) {
	_, err := NewTokenService(time.Hour, 24*time.Hour, "iss", "aud", "")
	require.Error(t, err)

	_, err = NewTokenService(time.Hour, 24*time.Hour, "iss", "aud", "too-short")
	require.Error(t, err)
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	accessToken, refreshToken, err := svc.GenerateTokens("USR-20250413-00007", "SES-20250413-00001")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	claims, err := svc.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "USR-20250413-00007", claims.UserID)
	assert.Equal(t, "SES-20250413-00001", claims.SessionID)
	assert.Equal(t, "access", claims.TokenType)
	assert.NotEmpty(t, claims.TokenID)

	refreshClaims, err := svc.ValidateToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.TokenType)
	assert.NotEqual(t, claims.TokenID, refreshClaims.TokenID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.ValidateToken("")
	assert.Error(t, err)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	other, err := NewTokenService(time.Hour, 24*time.Hour, "taskdesk-test", "taskdesk-test-api",
		"a-completely-different-32-char-secret!!!")
	require.NoError(t, err)

	token, _, err := other.GenerateTokens("USR-20250413-00001", "SES-20250413-00001")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute)

	token, _, err := svc.GenerateTokens("USR-20250413-00001", "SES-20250413-00001")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRevokeToken(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	token, _, err := svc.GenerateTokens("USR-20250413-00001", "SES-20250413-00001")
	require.NoError(t, err)

	assert.False(t, svc.IsTokenRevoked(token))
	require.NoError(t, svc.RevokeToken(token))
	assert.True(t, svc.IsTokenRevoked(token))

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// Revoking an already-revoked token is a no-op
	require.NoError(t, svc.RevokeToken(token))
}
