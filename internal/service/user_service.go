package service

import (
	"context"
	"strings"

	"github.com/spec-kit/event-registration-service/internal/auth"
	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/repository"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

// UserService manages account CRUD. Credential hashing happens here so
// handlers and repositories never see plaintext passwords.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// UserCreateInput describes account creation payload.
type UserCreateInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Roles    []domain.Role
}

// UserUpdateInput describes mutable account fields. Password and Roles are
// applied only when non-empty.
type UserUpdateInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Roles    []domain.Role
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// Create registers a new account. Accounts without explicit roles get USER.
func (s *UserService) Create(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if taken, err := s.users.ExistsByUsername(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.NewConflict("username already exists", map[string]any{"username": username})
	}
	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.NewConflict("email already exists", map[string]any{"email": email})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	roles := input.Roles
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleUser}
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Roles:        roles,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update changes account fields, re-checking uniqueness when the username or
// email actually changes.
func (s *UserService) Update(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOn(err, "User")
	}

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if username != "" && username != user.Username {
		if taken, err := s.users.ExistsByUsername(ctx, username); err != nil {
			return nil, err
		} else if taken {
			return nil, apperrors.NewConflict("username already exists", map[string]any{"username": username})
		}
		user.Username = username
	}
	if email != "" && email != user.Email {
		if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
			return nil, err
		} else if taken {
			return nil, apperrors.NewConflict("email already exists", map[string]any{"email": email})
		}
		user.Email = email
	}
	if input.FullName != "" {
		user.FullName = strings.TrimSpace(input.FullName)
	}
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if len(input.Roles) > 0 {
		user.Roles = input.Roles
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, notFoundOn(err, "User")
	}
	return user, nil
}

// Delete removes an account; the schema cascades its events and registrations.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return notFoundOn(err, "User")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundOn(err, "User")
	}
	return nil
}

// GetByID returns a single account.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOn(err, "User")
	}
	return user, nil
}

// GetByUsername returns a single account by username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOn(err, "User")
	}
	return user, nil
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}
