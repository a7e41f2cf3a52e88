package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/techvent/inventory-backend/api/routes"
	authsvc "github.com/techvent/inventory-backend/internal/auth"
	"github.com/techvent/inventory-backend/internal/ledger"
	"github.com/techvent/inventory-backend/internal/products"
	"github.com/techvent/inventory-backend/internal/suppliers"
	"github.com/techvent/inventory-backend/internal/users"
	"github.com/techvent/inventory-backend/pkg/auth/session"
	"github.com/techvent/inventory-backend/pkg/config"
	"github.com/techvent/inventory-backend/pkg/db"
	"github.com/techvent/inventory-backend/pkg/logger"
	"github.com/techvent/inventory-backend/pkg/metrics"
	"github.com/techvent/inventory-backend/pkg/migrate"
	"github.com/techvent/inventory-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	movementMetrics := metrics.NewMovementMetrics(registry)

	userRepo := users.NewRepository(dbClient.Gorm())
	supplierRepo := suppliers.NewRepository(dbClient.Gorm())
	productRepo := products.NewRepository(dbClient.Gorm())
	ledgerRepo := ledger.NewRepository(dbClient.Gorm())

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(userRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	supplierService, err := suppliers.NewService(supplierRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create supplier service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo, supplierRepo, ledgerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(ledgerRepo, dbClient, productRepo, movementMetrics, cfg.Ledger.MovementRetries)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		DBPinger:        dbClient,
		RedisClient:     redisClient,
		SessionManager:  sessionManager,
		MetricsGatherer: registry,
		AuthService:     authService,
		LedgerService:   ledgerService,
		ProductService:  productService,
		SupplierService: supplierService,
		UserService:     userService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	closeErr := multierr.Combine(redisClient.Close(), dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error closing clients", closeErr)
		os.Exit(1)
	}
}
