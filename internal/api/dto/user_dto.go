package dto

import (
	"time"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Department string          `json:"department,omitempty"`
	Role       domain.UserRole `json:"role"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// NewUserResponse maps a user for output.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		Name:       user.Name,
		Email:      user.Email,
		Department: user.Department,
		Role:       user.Role,
		CreatedAt:  user.CreatedAt,
	}
}
