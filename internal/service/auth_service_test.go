package service_test

import (
	"context"
	"testing"
	"time"

	"alcyxob/fitness-ledger/internal/repository/memory"
	"alcyxob/fitness-ledger/internal/service"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthService(premium bool) (service.AuthService, *memory.ProfileRepository) {
	profiles := memory.NewProfileRepository()
	return service.NewAuthService(profiles, service.StaticEntitlement(premium), testSecret, time.Hour), profiles
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newAuthService(true)
	ctx := context.Background()

	profile, err := auth.Register(ctx, "u1@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, profile.UserID)
	assert.Equal(t, "u1@example.com", profile.Email)
	assert.Empty(t, profile.PasswordHash)

	token, logged, err := auth.Login(ctx, "u1@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, profile.UserID, logged.UserID)
	assert.Empty(t, logged.PasswordHash)

	claims := &service.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, profile.UserID, claims.UserID)
	assert.True(t, claims.Premium)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _ := newAuthService(false)
	ctx := context.Background()

	_, err := auth.Register(ctx, "u1@example.com", "hunter22")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "u1@example.com", "other-password")
	assert.ErrorIs(t, err, service.ErrUserAlreadyExists)
}

func TestLoginFailures(t *testing.T) {
	auth, _ := newAuthService(false)
	ctx := context.Background()

	_, err := auth.Register(ctx, "u1@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "u1@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)

	_, _, err = auth.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestLoginFreeTierClaims(t *testing.T) {
	auth, _ := newAuthService(false)
	ctx := context.Background()

	_, err := auth.Register(ctx, "u1@example.com", "hunter22")
	require.NoError(t, err)

	token, _, err := auth.Login(ctx, "u1@example.com", "hunter22")
	require.NoError(t, err)

	claims := &service.Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.False(t, claims.Premium)
}
