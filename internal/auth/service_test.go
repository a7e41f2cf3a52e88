package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/techvent/inventory-backend/pkg/auth"
	"github.com/techvent/inventory-backend/pkg/config"
	"github.com/techvent/inventory-backend/pkg/db/models"
	"github.com/techvent/inventory-backend/pkg/enums"
	pkgerrors "github.com/techvent/inventory-backend/pkg/errors"
	"github.com/techvent/inventory-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "techvent",
		ExpirationMinutes: 30,
	}
}

func TestLoginIssuesTokensAndStampsLastLogin(t *testing.T) {
	password := "correct horse"
	user := activeUser(t, password, enums.UserRoleAdmin)
	repo := &stubUserRepo{user: user}
	cfg := testJWTConfig()
	svc := buildAuthService(t, repo, cfg)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    " ADMIN@Example.com ",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role claim, got %s", claims.Role)
	}
	if claims.ID == "" {
		t.Fatalf("expected session id claim")
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token")
	}
	if repo.user.LastLoginAt == nil {
		t.Fatalf("expected last login to be stamped")
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := activeUser(t, "right", enums.UserRoleUser)
	svc := buildAuthService(t, &stubUserRepo{user: user}, testJWTConfig())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong",
	})
	assertUnauthorized(t, err)
}

func TestLoginInactiveAccount(t *testing.T) {
	password := "secret pass"
	user := activeUser(t, password, enums.UserRoleUser)
	user.IsActive = false
	svc := buildAuthService(t, &stubUserRepo{user: user}, testJWTConfig())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	assertUnauthorized(t, err)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := buildAuthService(t, &stubUserRepo{}, testJWTConfig())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assertUnauthorized(t, err)
}

func TestRegisterAlwaysCreatesRegularUser(t *testing.T) {
	repo := &stubUserRepo{}
	svc := buildAuthService(t, repo, testJWTConfig())

	resp, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Riley",
		LastName:  "Chen",
		Email:     "Riley@Example.com",
		Password:  "a strong password",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if resp.User.UserType != enums.UserRoleUser {
		t.Fatalf("self-service signup must be a regular user, got %s", resp.User.UserType)
	}
	if resp.User.Email != "riley@example.com" {
		t.Fatalf("expected lowercased email, got %q", resp.User.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &stubUserRepo{createErr: gorm.ErrDuplicatedKey}
	svc := buildAuthService(t, repo, testJWTConfig())

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Riley",
		LastName:  "Chen",
		Email:     "riley@example.com",
		Password:  "a strong password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	user := activeUser(t, "old password", enums.UserRoleUser)
	repo := &stubUserRepo{user: user}
	svc := buildAuthService(t, repo, testJWTConfig())

	err := svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		CurrentPassword: "not the old one",
		NewPassword:     "new password",
	})
	assertUnauthorized(t, err)

	if err := svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		CurrentPassword: "old password",
		NewPassword:     "new password",
	}); err != nil {
		t.Fatalf("change password: %v", err)
	}

	ok, err := security.VerifyPassword("new password", repo.user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("new password does not verify: ok=%v err=%v", ok, err)
	}
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func buildAuthService(t *testing.T, repo *stubUserRepo, cfg config.JWTConfig) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: stubSessionManager{refreshToken: "refresh-token"},
		JWTConfig:      cfg,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func activeUser(t *testing.T, password string, role enums.UserRole) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		FirstName:    "Admin",
		LastName:     "User",
		Email:        "admin@example.com",
		PasswordHash: hash,
		UserType:     role,
		IsActive:     true,
	}
}

type stubUserRepo struct {
	user      *models.User
	createErr error
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.user = user
	return nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.user
	return &copied, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.user
	return &copied, nil
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	if s.user == nil || s.user.ID != user.ID {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	s.user = &copied
	return nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	refreshToken string
}

func (s stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}
