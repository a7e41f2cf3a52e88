package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	authsvc "github.com/techvent/inventory-backend/internal/auth"
	ledgersvc "github.com/techvent/inventory-backend/internal/ledger"
	productsvc "github.com/techvent/inventory-backend/internal/products"
	suppliersvc "github.com/techvent/inventory-backend/internal/suppliers"
	usersvc "github.com/techvent/inventory-backend/internal/users"
	pkgauth "github.com/techvent/inventory-backend/pkg/auth"
	"github.com/techvent/inventory-backend/pkg/auth/session"
	"github.com/techvent/inventory-backend/pkg/config"
	"github.com/techvent/inventory-backend/pkg/enums"
	"github.com/techvent/inventory-backend/pkg/logger"
	"github.com/techvent/inventory-backend/pkg/pagination"
	"github.com/techvent/inventory-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{}, nil
}

func (stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.RegisterResponse, error) {
	return &authsvc.RegisterResponse{}, nil
}

func (stubAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req authsvc.ChangePasswordRequest) error {
	return nil
}

type stubLedgerService struct{}

func (stubLedgerService) CreateRecord(ctx context.Context, input ledgersvc.CreateRecordInput) (*ledgersvc.RecordDTO, error) {
	return &ledgersvc.RecordDTO{}, nil
}

func (stubLedgerService) ApplyMovement(ctx context.Context, recordID uuid.UUID, input ledgersvc.MovementInput) (*ledgersvc.RecordDTO, error) {
	return &ledgersvc.RecordDTO{}, nil
}

func (stubLedgerService) UpdateSettings(ctx context.Context, recordID uuid.UUID, input ledgersvc.UpdateSettingsInput) (*ledgersvc.RecordDTO, error) {
	return &ledgersvc.RecordDTO{}, nil
}

func (stubLedgerService) GetRecord(ctx context.Context, recordID uuid.UUID) (*ledgersvc.RecordDTO, error) {
	return &ledgersvc.RecordDTO{}, nil
}

func (stubLedgerService) GetRecordByProduct(ctx context.Context, productID uuid.UUID) (*ledgersvc.RecordDTO, error) {
	return &ledgersvc.RecordDTO{}, nil
}

func (stubLedgerService) ListRecords(ctx context.Context, input ledgersvc.ListRecordsInput) (*ledgersvc.RecordListResult, error) {
	return &ledgersvc.RecordListResult{}, nil
}

func (stubLedgerService) ListRecentTransactions(ctx context.Context, params pagination.Params) (*ledgersvc.TransactionListResult, error) {
	return &ledgersvc.TransactionListResult{}, nil
}

func (stubLedgerService) ListRecordTransactions(ctx context.Context, recordID uuid.UUID, params pagination.Params) (*ledgersvc.TransactionListResult, error) {
	return &ledgersvc.TransactionListResult{}, nil
}

type stubProductService struct{}

func (stubProductService) CreateProduct(ctx context.Context, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) UpdateProduct(ctx context.Context, productID uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return nil
}

func (stubProductService) GetProduct(ctx context.Context, productID uuid.UUID) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) ListProducts(ctx context.Context, input productsvc.ListProductsInput) (*productsvc.ProductListResult, error) {
	return &productsvc.ProductListResult{}, nil
}

func (stubProductService) ListCategories(ctx context.Context) ([]string, error) {
	return []string{"peripherals"}, nil
}

type stubSupplierService struct{}

func (stubSupplierService) CreateSupplier(ctx context.Context, input suppliersvc.CreateSupplierInput) (*suppliersvc.SupplierDTO, error) {
	return &suppliersvc.SupplierDTO{}, nil
}

func (stubSupplierService) UpdateSupplier(ctx context.Context, supplierID uuid.UUID, input suppliersvc.UpdateSupplierInput) (*suppliersvc.SupplierDTO, error) {
	return &suppliersvc.SupplierDTO{}, nil
}

func (stubSupplierService) DeleteSupplier(ctx context.Context, supplierID uuid.UUID) error {
	return nil
}

func (stubSupplierService) GetSupplier(ctx context.Context, supplierID uuid.UUID) (*suppliersvc.SupplierDTO, error) {
	return &suppliersvc.SupplierDTO{}, nil
}

func (stubSupplierService) ListSuppliers(ctx context.Context, input suppliersvc.ListSuppliersInput) (*suppliersvc.SupplierListResult, error) {
	return &suppliersvc.SupplierListResult{}, nil
}

type stubUserService struct{}

func (stubUserService) CreateUser(ctx context.Context, input usersvc.CreateUserInput) (*usersvc.CreatedUser, error) {
	return &usersvc.CreatedUser{}, nil
}

func (stubUserService) UpdateUser(ctx context.Context, userID uuid.UUID, input usersvc.UpdateUserInput) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{}, nil
}

func (stubUserService) SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{}, nil
}

func (stubUserService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	return nil
}

func (stubUserService) GetUser(ctx context.Context, userID uuid.UUID) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{}, nil
}

func (stubUserService) ListUsers(ctx context.Context, input usersvc.ListUsersInput) (*usersvc.UserListResult, error) {
	return &usersvc.UserListResult{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "development", Port: "8080"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "techvent", ExpirationMinutes: 30},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:          cfg,
		Logger:          logg,
		DBPinger:        stubPinger{},
		RedisClient:     (*redis.Client)(nil),
		SessionManager:  stubSessionManager{},
		MetricsGatherer: prometheus.NewRegistry(),
		AuthService:     stubAuthService{},
		LedgerService:   stubLedgerService{},
		ProductService:  stubProductService{},
		SupplierService: stubSupplierService{},
		UserService:     stubUserService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestUsersGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestMutationsRequireAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	recordID := uuid.New()

	targets := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/inventory"},
		{http.MethodPost, "/api/v1/inventory/" + recordID.String() + "/movements"},
		{http.MethodPatch, "/api/v1/inventory/" + recordID.String()},
		{http.MethodPost, "/api/v1/products"},
		{http.MethodDelete, "/api/v1/products/" + uuid.New().String()},
		{http.MethodPost, "/api/v1/suppliers"},
		{http.MethodDelete, "/api/v1/suppliers/" + uuid.New().String()},
	}

	for _, target := range targets {
		req := httptest.NewRequest(target.method, target.path, nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403 for non-admin, got %d", target.method, target.path, resp.Code)
		}
	}

	// Reads stay open to regular users.
	read := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/transactions", nil)
	read.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, read)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for read-only route, got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, "/api/v1/suppliers", strings.NewReader(`{"name":"Acme Supply"}`))
	admin.Header.Set("Content-Type", "application/json")
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d", resp.Code)
	}
}

func TestProductInventoryLookupRoute(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	productID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String()+"/inventory", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
