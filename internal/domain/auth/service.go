package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"bottledays/internal/core/apperror"
	appctx "bottledays/internal/core/context"
	"bottledays/pkg/logger"
)

// Account is one configured API account. PasswordHash is a bcrypt hash.
type Account struct {
	Username     string
	Name         string
	PasswordHash string
}

// TokenPair is the login result.
type TokenPair struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Service verifies configured accounts and issues tokens.
type Service struct {
	accounts   map[string]Account
	jwtService *JWTService
}

// NewService creates an auth service over the configured accounts.
func NewService(accounts []Account, jwtService *JWTService) *Service {
	byName := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		byName[a.Username] = a
	}
	return &Service{accounts: byName, jwtService: jwtService}
}

// Login verifies the credentials and returns an access token. The same error
// is returned for unknown accounts and wrong passwords.
func (s *Service) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	account, ok := s.accounts[username]
	if !ok {
		// Burn a comparison so unknown accounts cost the same as bad passwords.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B0n1S/ch1Y0iY1S43T0eF0cQn0sa"), []byte(password))
		return nil, apperror.NewUnauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		logger.Warn(ctx, "failed login attempt", "username", username)
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(account.Username, account.Name)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "login", "username", username)
	return &TokenPair{AccessToken: token, ExpiresAt: expiresAt}, nil
}

// ValidateToken exposes token validation to the HTTP middleware.
func (s *Service) ValidateToken(token string) (*appctx.UserContext, error) {
	uc, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid or expired token")
	}
	return uc, nil
}
