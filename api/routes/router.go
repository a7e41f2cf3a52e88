package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/techvent/inventory-backend/api/controllers"
	"github.com/techvent/inventory-backend/api/middleware"
	authsvc "github.com/techvent/inventory-backend/internal/auth"
	ledgersvc "github.com/techvent/inventory-backend/internal/ledger"
	productsvc "github.com/techvent/inventory-backend/internal/products"
	suppliersvc "github.com/techvent/inventory-backend/internal/suppliers"
	usersvc "github.com/techvent/inventory-backend/internal/users"
	"github.com/techvent/inventory-backend/pkg/auth/session"
	"github.com/techvent/inventory-backend/pkg/config"
	"github.com/techvent/inventory-backend/pkg/logger"
	"github.com/techvent/inventory-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps bundles everything the router needs so NewRouter stays readable.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        controllers.Pinger
	RedisClient     *redis.Client
	SessionManager  sessionManager
	MetricsGatherer prometheus.Gatherer

	AuthService     authsvc.Service
	LedgerService   ledgersvc.Service
	ProductService  productsvc.Service
	SupplierService suppliersvc.Service
	UserService     usersvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DBPinger, deps.RedisClient, logg))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RedisClient, logg)).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.SessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.SessionManager, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))

		// Regular users get a read-only view; every mutation is admin-only.
		adminOnly := middleware.RequireRole("admin", logg)

		r.Post("/auth/change-password", controllers.AuthChangePassword(deps.AuthService, logg))
		r.Get("/users/me", controllers.UsersMe(deps.UserService, logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryListRecords(deps.LedgerService, logg))
			r.Get("/transactions", controllers.InventoryListRecentTransactions(deps.LedgerService, logg))
			r.Get("/{recordId}", controllers.InventoryGetRecord(deps.LedgerService, logg))
			r.Get("/{recordId}/transactions", controllers.InventoryListRecordTransactions(deps.LedgerService, logg))

			r.With(adminOnly).Post("/", controllers.InventoryCreateRecord(deps.LedgerService, logg))
			r.With(adminOnly).Post("/{recordId}/movements", controllers.InventoryApplyMovement(deps.LedgerService, logg))
			r.With(adminOnly).Patch("/{recordId}", controllers.InventoryUpdateSettings(deps.LedgerService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(deps.ProductService, logg))
			r.Get("/categories", controllers.ProductsListCategories(deps.ProductService, logg))
			r.Get("/{productId}", controllers.ProductsGet(deps.ProductService, logg))
			r.Get("/{productId}/inventory", controllers.InventoryGetRecordByProduct(deps.LedgerService, logg))

			r.With(adminOnly).Post("/", controllers.ProductsCreate(deps.ProductService, logg))
			r.With(adminOnly).Patch("/{productId}", controllers.ProductsUpdate(deps.ProductService, logg))
			r.With(adminOnly).Delete("/{productId}", controllers.ProductsDelete(deps.ProductService, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SuppliersList(deps.SupplierService, logg))
			r.Get("/{supplierId}", controllers.SuppliersGet(deps.SupplierService, logg))

			r.With(adminOnly).Post("/", controllers.SuppliersCreate(deps.SupplierService, logg))
			r.With(adminOnly).Patch("/{supplierId}", controllers.SuppliersUpdate(deps.SupplierService, logg))
			r.With(adminOnly).Delete("/{supplierId}", controllers.SuppliersDelete(deps.SupplierService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", controllers.UsersList(deps.UserService, logg))
			r.Post("/", controllers.UsersCreate(deps.UserService, logg))
			r.Get("/{userId}", controllers.UsersGet(deps.UserService, logg))
			r.Patch("/{userId}", controllers.UsersUpdate(deps.UserService, logg))
			r.Post("/{userId}/active", controllers.UsersSetActive(deps.UserService, logg))
			r.Delete("/{userId}", controllers.UsersDelete(deps.UserService, logg))
		})
	})

	return r
}
