package application

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/prodledger/prodledger/internal/domain"
	"github.com/prodledger/prodledger/internal/platform/logging"
)

// UserService manages accounts. Creation, deletion and listing are
// admin operations; users may update their own profile.
type UserService struct {
	users  domain.UserRepository
	logger *logging.Logger
}

// NewUserService creates a new UserService
func NewUserService(users domain.UserRepository, logger *logging.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger.WithComponent("user-service"),
	}
}

// Create registers a new account. Admin only.
func (s *UserService) Create(ctx context.Context, cmd CreateUserCommand) (*domain.User, error) {
	if !cmd.Principal.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}

	if _, err := s.users.FindByEmail(ctx, cmd.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if err != domain.ErrUserNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(cmd.Name, cmd.Email, cmd.Mobile, string(hash), cmd.Role, cmd.PricePerUnit)

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Audit(ctx, "user.create", "user", user.ID, cmd.Principal.UserID, map[string]any{
		"role": user.Role,
	})

	return user, nil
}

// Update changes account fields. Users may update their own name,
// mobile and password; role, rate and the active flag are admin only.
func (s *UserService) Update(ctx context.Context, cmd UpdateUserCommand) (*domain.User, error) {
	if !cmd.Principal.CanManage(cmd.UserID) {
		return nil, domain.ErrNotAuthorized
	}

	adminOnly := cmd.Role != nil || cmd.PricePerUnit != nil || cmd.Active != nil
	if adminOnly && !cmd.Principal.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}

	user, err := s.users.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		user.Name = *cmd.Name
	}
	if cmd.Mobile != nil {
		user.Mobile = *cmd.Mobile
	}
	if cmd.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*cmd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if cmd.Role != nil {
		user.Role = *cmd.Role
	}
	if cmd.PricePerUnit != nil {
		user.PricePerUnit = *cmd.PricePerUnit
	}
	if cmd.Active != nil {
		if *cmd.Active {
			user.Activate()
		} else {
			user.Deactivate()
		}
	}

	user.Touch()

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Audit(ctx, "user.update", "user", user.ID, cmd.Principal.UserID, nil)

	return user, nil
}

// Delete removes an account. Admin only.
func (s *UserService) Delete(ctx context.Context, principal domain.Principal, userID string) error {
	if !principal.IsAdmin() {
		return domain.ErrNotAuthorized
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Audit(ctx, "user.delete", "user", userID, principal.UserID, nil)

	return nil
}

// GetByID loads one account. Admins may load anyone; users only
// themselves.
func (s *UserService) GetByID(ctx context.Context, principal domain.Principal, userID string) (*domain.User, error) {
	if !principal.CanManage(userID) {
		return nil, domain.ErrNotAuthorized
	}
	return s.users.FindByID(ctx, userID)
}

// ListAll returns every account. Admin only.
func (s *UserService) ListAll(ctx context.Context, principal domain.Principal) ([]*domain.User, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}
	return s.users.FindAll(ctx)
}
