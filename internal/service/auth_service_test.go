package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/idrefz/deltaboard/internal/auth"
	"github.com/idrefz/deltaboard/internal/config"
)

func TestAuthService_ConfiguredOperator(t *testing.T) {
	hash, err := auth.HashPassword("hunter2", 4)
	require.NoError(t, err)

	svc, err := NewAuthService(config.AuthConfig{
		JWTSecret:             "secret",
		AccessTokenTTLMinutes: 15,
		BcryptCost:            4,
		Operators: []config.OperatorCredential{
			{Username: "ops", Role: "operator", PasswordHash: hash},
			{Username: "dash", Role: "viewer", PasswordHash: hash},
		},
	}, zap.NewNop())
	require.NoError(t, err)

	result, err := svc.Login("ops", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleOperator, result.Role)
	assert.NotEmpty(t, result.Token)

	claims, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Username)

	_, err = svc.Login("ops", "wrong")
	assert.Error(t, err)
	_, err = svc.Login("nobody", "hunter2")
	assert.Error(t, err)

	viewer, err := svc.Login("dash", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleViewer, viewer.Role)
}

func TestAuthService_BootstrapsAdminWhenEmpty(t *testing.T) {
	svc, err := NewAuthService(config.AuthConfig{
		JWTSecret:             "secret",
		AccessTokenTTLMinutes: 15,
		BcryptCost:            4,
		BootstrapPassword:     "changeme",
	}, zap.NewNop())
	require.NoError(t, err)

	result, err := svc.Login("admin", "changeme")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleOperator, result.Role)
}

func TestAuthService_RejectsUnknownRole(t *testing.T) {
	_, err := NewAuthService(config.AuthConfig{
		JWTSecret:             "secret",
		AccessTokenTTLMinutes: 15,
		BcryptCost:            4,
		Operators: []config.OperatorCredential{
			{Username: "x", Role: "root", PasswordHash: "h"},
		},
	}, zap.NewNop())
	assert.Error(t, err)
}
