package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-registration-service/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 15)
	user := &domain.User{
		ID:       "u-1",
		Username: "alice",
		Roles:    []domain.Role{domain.RoleUser, domain.RoleOrganizer},
	}

	token, exp, err := tm.GenerateToken(user)
	require.NoError(t, err)
	require.True(t, exp.After(time.Now()))

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, user.Roles, claims.Roles)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 15).GenerateToken(&domain.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 15).ParseToken(token)
	require.Error(t, err)
}

func TestParseExpiredToken(t *testing.T) {
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}

	token, _, err := tm.GenerateToken(&domain.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	require.Error(t, err)
}

func TestParseGarbageToken(t *testing.T) {
	_, err := NewTokenManager("test-secret", 15).ParseToken("not-a-token")
	require.Error(t, err)
}
