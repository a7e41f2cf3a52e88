package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/techvent/inventory-backend/pkg/db/models"
	"github.com/techvent/inventory-backend/pkg/enums"
)

// UserDTO is the API-facing shape of an account. The password hash never
// leaves the service layer.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	FirstName   string         `json:"first_name"`
	MiddleName  *string        `json:"middle_name,omitempty"`
	LastName    string         `json:"last_name"`
	Suffix      *string        `json:"suffix,omitempty"`
	FullName    string         `json:"full_name"`
	Email       string         `json:"email"`
	Phone       *string        `json:"phone,omitempty"`
	Department  *string        `json:"department,omitempty"`
	UserType    enums.UserRole `json:"user_type"`
	IsActive    bool           `json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// UserListResult carries one page of users plus the next cursor.
type UserListResult struct {
	Users      []UserDTO `json:"users"`
	NextCursor *string   `json:"next_cursor,omitempty"`
}

// FromModel maps the model onto the API shape.
func FromModel(user *models.User) *UserDTO {
	return &UserDTO{
		ID:          user.ID,
		FirstName:   user.FirstName,
		MiddleName:  user.MiddleName,
		LastName:    user.LastName,
		Suffix:      user.Suffix,
		FullName:    user.FullName(),
		Email:       user.Email,
		Phone:       user.Phone,
		Department:  user.Department,
		UserType:    user.UserType,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
