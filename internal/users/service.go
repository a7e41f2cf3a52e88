package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/techvent/inventory-backend/pkg/config"
	"github.com/techvent/inventory-backend/pkg/db"
	"github.com/techvent/inventory-backend/pkg/db/models"
	"github.com/techvent/inventory-backend/pkg/enums"
	pkgerrors "github.com/techvent/inventory-backend/pkg/errors"
	"github.com/techvent/inventory-backend/pkg/pagination"
	"github.com/techvent/inventory-backend/pkg/security"
)

const tempPasswordLength = 12

// Service exposes admin account management operations.
type Service interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*CreatedUser, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*UserDTO, error)
	SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*UserDTO, error)
	DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error
	GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	ListUsers(ctx context.Context, input ListUsersInput) (*UserListResult, error)
}

// CreateUserInput holds the validated payload to provision an account.
type CreateUserInput struct {
	FirstName  string
	MiddleName *string
	LastName   string
	Suffix     *string
	Email      string
	Phone      *string
	Department *string
	UserType   enums.UserRole
}

// CreatedUser pairs the new account with its temporary password. The
// password is shown exactly once and never stored in plain text.
type CreatedUser struct {
	User         UserDTO `json:"user"`
	TempPassword string  `json:"temp_password"`
}

// UpdateUserInput holds optional mutation values for an account.
type UpdateUserInput struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	Suffix     *string
	Phone      *string
	Department *string
	UserType   *enums.UserRole
}

// ListUsersInput narrows and paginates account listings.
type ListUsersInput struct {
	Search string
	Limit  int
	Cursor string
}

type service struct {
	repo        Repository
	passwordCfg config.PasswordConfig
}

// NewService constructs a user management service.
func NewService(repo Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

// CreateUser provisions an account with a generated temporary password.
func (s *service) CreateUser(ctx context.Context, input CreateUserInput) (*CreatedUser, error) {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	role := input.UserType
	if role == "" {
		role = enums.UserRoleUser
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid user type %q", role))
	}

	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
	}
	hash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		MiddleName:   input.MiddleName,
		LastName:     strings.TrimSpace(input.LastName),
		Suffix:       input.Suffix,
		Email:        email,
		Phone:        input.Phone,
		Department:   input.Department,
		PasswordHash: hash,
		UserType:     role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsDuplicateEntry(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert user")
	}

	return &CreatedUser{User: *FromModel(user), TempPassword: tempPassword}, nil
}

func (s *service) UpdateUser(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		if strings.TrimSpace(*input.FirstName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name cannot be empty")
		}
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.MiddleName != nil {
		user.MiddleName = input.MiddleName
	}
	if input.LastName != nil {
		if strings.TrimSpace(*input.LastName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "last name cannot be empty")
		}
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Suffix != nil {
		user.Suffix = input.Suffix
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Department != nil {
		user.Department = input.Department
	}
	if input.UserType != nil {
		if !input.UserType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid user type %q", *input.UserType))
		}
		user.UserType = *input.UserType
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update user")
	}
	return FromModel(user), nil
}

// SetActive toggles whether the account may sign in. Admins cannot
// deactivate themselves, which keeps at least the acting admin working.
func (s *service) SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*UserDTO, error) {
	if !active && actorID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "you cannot deactivate your own account")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update user")
	}
	return FromModel(user), nil
}

// DeleteUser removes an account. Self-deletion is rejected for the same
// reason as self-deactivation.
func (s *service) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return pkgerrors.New(pkgerrors.CodeValidation, "you cannot delete your own account")
	}

	if _, err := s.loadUser(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete user")
	}
	return nil
}

func (s *service) GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) ListUsers(ctx context.Context, input ListUsersInput) (*UserListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	rows, err := s.repo.List(ctx, input.Search, pagination.LimitWithBuffer(input.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list users")
	}

	result := &UserListResult{Users: make([]UserDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Users = append(result.Users, *FromModel(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}
	return user, nil
}
