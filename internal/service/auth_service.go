package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/idrefz/deltaboard/internal/auth"
	"github.com/idrefz/deltaboard/internal/config"
	apperrors "github.com/idrefz/deltaboard/pkg/util/errorutil"
)

type operatorAccount struct {
	role         auth.Role
	passwordHash string
}

// AuthService authenticates dashboard principals against the
// config-held credential list and issues JWTs.
type AuthService struct {
	tokens   *auth.TokenManager
	accounts map[string]operatorAccount
	logger   *zap.Logger
}

// NewAuthService builds the service. When no operators are configured
// it seeds a default admin operator from the bootstrap password, which
// is only acceptable outside production.
func NewAuthService(cfg config.AuthConfig, logger *zap.Logger) (*AuthService, error) {
	accounts := make(map[string]operatorAccount, len(cfg.Operators))
	for _, op := range cfg.Operators {
		role := auth.Role(op.Role)
		if !role.IsValid() {
			return nil, fmt.Errorf("operator %q: unknown role %q", op.Username, op.Role)
		}
		accounts[op.Username] = operatorAccount{role: role, passwordHash: op.PasswordHash}
	}

	if len(accounts) == 0 {
		hash, err := auth.HashPassword(cfg.BootstrapPassword, cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("bootstrap operator: %w", err)
		}
		accounts["admin"] = operatorAccount{role: auth.RoleOperator, passwordHash: hash}
		logger.Warn("no operators configured; bootstrapped default admin account")
	}

	return &AuthService{
		tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		accounts: accounts,
		logger:   logger,
	}, nil
}

// LoginResult carries the issued token and its metadata.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Username  string
	Role      auth.Role
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	account, ok := s.accounts[username]
	if !ok {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(account.passwordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(username, account.role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("operator logged in", zap.String("username", username), zap.String("role", string(account.role)))
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Username: username, Role: account.role}, nil
}

// TokenManager exposes the manager for the auth middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
