package services

import (
	"testing"
	"time"

	. "github.com/AbbasAlizada1380/mellat/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	service := NewTokenService("test-secret", time.Hour)

	token, expiresAt, err := service.Issue(User{ID: 7, Login: "admin", IsAdmin: true})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID())
	assert.Equal(t, "admin", claims.Login)
	assert.True(t, claims.IsAdmin)
}

func TestTokenService_Verify(t *testing.T) {
	service := NewTokenService("test-secret", time.Hour)
	valid, _, err := service.Issue(User{ID: 1, Login: "staff"})
	require.NoError(t, err)

	otherSecret, _, err := NewTokenService("other-secret", time.Hour).Issue(User{ID: 1, Login: "staff"})
	require.NoError(t, err)

	expiredService := NewTokenService("test-secret", time.Hour)
	expiredService.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredService.Issue(User{ID: 1, Login: "staff"})
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Login: "ghost"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid token", token: valid},
		{name: "garbage", token: "not-a-token", wantErr: ErrTokenInvalid},
		{name: "empty", token: "", wantErr: ErrTokenInvalid},
		{name: "wrong secret", token: otherSecret, wantErr: ErrTokenInvalid},
		{name: "expired", token: expired, wantErr: ErrTokenExpired},
		{name: "missing subject", token: noSubject, wantErr: ErrTokenInvalid},
		{name: "none algorithm", token: noneAlg, wantErr: ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.Verify(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, claims)
		})
	}
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	service := NewTokenService("secret", 0)
	assert.Equal(t, 12*time.Hour, service.ttl)
}
