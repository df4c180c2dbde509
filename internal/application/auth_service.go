package application

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/prodledger/prodledger/internal/domain"
	"github.com/prodledger/prodledger/internal/platform/logging"
	"github.com/prodledger/prodledger/internal/platform/token"
)

// AuthService authenticates users and issues access tokens
type AuthService struct {
	users  domain.UserRepository
	tokens *token.Manager
	logger *logging.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users domain.UserRepository, tokens *token.Manager, logger *logging.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger.WithComponent("auth-service"),
	}
}

// Login verifies the credentials and returns a signed access token.
// A wrong email and a wrong password are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err == domain.ErrUserNotFound {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !user.Active {
		return "", nil, domain.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return "", nil, err
	}

	s.logger.Audit(ctx, "auth.login", "user", user.ID, user.ID, nil)

	return accessToken, user, nil
}

// ResetPassword sets a new password when the caller proves account
// ownership with the registered mobile number
func (s *AuthService) ResetPassword(ctx context.Context, email, mobile, newPassword string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err == domain.ErrUserNotFound {
		return domain.ErrInvalidCredentials
	}
	if err != nil {
		return err
	}

	if user.Mobile != mobile {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.Touch()

	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Audit(ctx, "auth.reset_password", "user", user.ID, user.ID, nil)

	return nil
}
