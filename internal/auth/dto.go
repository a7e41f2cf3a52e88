package auth

import "github.com/techvent/inventory-backend/internal/users"

// LoginRequest carries the credentials submitted to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the token pair and the authenticated account.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RegisterRequest carries the self-service signup payload.
type RegisterRequest struct {
	FirstName  string  `json:"first_name" validate:"required,max=100"`
	MiddleName *string `json:"middle_name,omitempty" validate:"omitempty,max=100"`
	LastName   string  `json:"last_name" validate:"required,max=100"`
	Suffix     *string `json:"suffix,omitempty" validate:"omitempty,max=20"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=100"`
	Password   string  `json:"password" validate:"required,min=8,max=128"`
}

// RegisterResponse carries the created account.
type RegisterResponse struct {
	User *users.UserDTO `json:"user"`
}

// ChangePasswordRequest carries a password rotation payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}
