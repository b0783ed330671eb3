package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/model"
)

func testUser() *model.User {
	return &model.User{ID: 7, Username: "shantnu", Role: model.RoleTeamLead}
}

func TestJWTService_AccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute, time.Hour)

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "shantnu", claims.Username)
	assert.Equal(t, model.RoleTeamLead, claims.Role)
	assert.NotEmpty(t, claims.ID)

	_, err = svc.ValidateRefreshToken(token)
	assert.Error(t, err, "an access token must not refresh")
}

func TestJWTService_RefreshToken(t *testing.T) {
	svc := NewJWTService("test-secret", 0, 0)
	assert.Equal(t, DefaultAccessTokenExpiry, svc.AccessTTL())
	assert.Equal(t, DefaultRefreshTokenExpiry, svc.RefreshTTL())

	tokenID, token, err := svc.GenerateRefreshToken(testUser())
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, tokenID, claims.ID)

	_, err = svc.ValidateAccessToken(token)
	assert.Error(t, err, "a refresh token must not authenticate requests")
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute, time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTService("other-secret", time.Minute, time.Hour).GenerateAccessToken(testUser())
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewJWTService("test-secret", time.Minute, time.Hour)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := past.GenerateAccessToken(testUser())
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.jwt")
		assert.Error(t, err)
	})
}
