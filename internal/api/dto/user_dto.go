package dto

import (
	"time"

	"github.com/spec-kit/event-registration-service/internal/domain"
)

// SignupRequest payload for self-service account creation.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=100"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest payload for admin account creation, roles included.
type CreateUserRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=50"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	FullName string   `json:"full_name" validate:"required,max=100"`
	Roles    []string `json:"roles" validate:"omitempty,dive,oneof=USER ORGANIZER ADMIN"`
}

// UpdateUserRequest payload. Empty fields are left unchanged.
type UpdateUserRequest struct {
	Username string   `json:"username" validate:"omitempty,min=3,max=50"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Password string   `json:"password" validate:"omitempty,min=8"`
	FullName string   `json:"full_name" validate:"omitempty,max=100"`
	Roles    []string `json:"roles" validate:"omitempty,dive,oneof=USER ORGANIZER ADMIN"`
}

// UserResponse never carries credential material.
type UserResponse struct {
	ID        string        `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	FullName  string        `json:"full_name"`
	Roles     []domain.Role `json:"roles"`
	CreatedAt time.Time     `json:"created_at"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RolesFromStrings converts request role labels to domain roles.
func RolesFromStrings(values []string) []domain.Role {
	roles := make([]domain.Role, 0, len(values))
	for _, val := range values {
		roles = append(roles, domain.Role(val))
	}
	return roles
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
	}
}
