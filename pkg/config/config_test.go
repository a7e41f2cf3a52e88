package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}

	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}

	if got := cfg.JWT.RefreshTokenTTL(); got != 30*24*time.Hour {
		t.Fatalf("expected default refresh ttl 30d, got %v", got)
	}

	if cfg.Ledger.MovementRetries != 3 {
		t.Fatalf("expected default movement retries 3, got %d", cfg.Ledger.MovementRetries)
	}

	if cfg.Password.ArgonMemoryKB != 65536 {
		t.Fatalf("unexpected argon memory default %d", cfg.Password.ArgonMemoryKB)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_LegacyDBVars(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvDBDSN); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvDBDSN, err)
	}
	t.Setenv(EnvDBHost, "db.internal")
	t.Setenv(EnvDBUser, "techvent")
	t.Setenv("TECHVENT_DB_PASSWORD", "s3cret")
	t.Setenv(EnvDBName, "inventory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !strings.Contains(cfg.DB.DSN, "techvent:s3cret@tcp(db.internal:3306)/inventory") {
		t.Fatalf("legacy DSN not assembled, got %q", cfg.DB.DSN)
	}
	if !strings.Contains(cfg.DB.DSN, "parseTime=true") {
		t.Fatalf("expected parseTime in DSN, got %q", cfg.DB.DSN)
	}
}

func TestLoad_MissingDBConfig(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvDBDSN); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvDBDSN, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected error when neither DSN nor legacy vars are set")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv("TECHVENT_APP_PORT", "8081")
	t.Setenv(EnvDBDSN, "techvent:pass@tcp(localhost:3306)/inventory?parseTime=true")
	t.Setenv("TECHVENT_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TECHVENT_JWT_SECRET", "secret")
	t.Setenv("TECHVENT_JWT_ISSUER", "techvent")
	t.Setenv("TECHVENT_JWT_EXPIRATION_MINUTES", "60")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEVELOPMENT"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "production"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
