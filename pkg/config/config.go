package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "TECHVENT"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "TECHVENT_APP_ENV"
	EnvDBDSN  = "TECHVENT_DB_DSN"
	EnvDBHost = "TECHVENT_DB_HOST"
	EnvDBUser = "TECHVENT_DB_USER"
	EnvDBName = "TECHVENT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Ledger        LedgerConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TECHVENT_APP_ENV" required:"true"`
	Port         string `envconfig:"TECHVENT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TECHVENT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TECHVENT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"TECHVENT_DB_DSN"`

	LegacyHost     string `envconfig:"TECHVENT_DB_HOST"`
	LegacyPort     int    `envconfig:"TECHVENT_DB_PORT" default:"3306"`
	LegacyUser     string `envconfig:"TECHVENT_DB_USER"`
	LegacyPassword string `envconfig:"TECHVENT_DB_PASSWORD"`
	LegacyName     string `envconfig:"TECHVENT_DB_NAME"`

	MaxOpenConns    int           `envconfig:"TECHVENT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TECHVENT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TECHVENT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TECHVENT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TECHVENT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TECHVENT_REDIS_ADDR"`
	Password     string        `envconfig:"TECHVENT_REDIS_PASSWORD"`
	DB           int           `envconfig:"TECHVENT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TECHVENT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TECHVENT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TECHVENT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TECHVENT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TECHVENT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TECHVENT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TECHVENT_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"TECHVENT_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"TECHVENT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TECHVENT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TECHVENT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TECHVENT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TECHVENT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TECHVENT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"TECHVENT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"TECHVENT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"TECHVENT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"TECHVENT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"TECHVENT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"TECHVENT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type LedgerConfig struct {
	// MovementRetries bounds optimistic-conflict retries for a single movement.
	MovementRetries int `envconfig:"TECHVENT_LEDGER_MOVEMENT_RETRIES" default:"3"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TECHVENT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	params := url.Values{}
	params.Set("parseTime", "true")
	params.Set("charset", "utf8mb4")
	params.Set("loc", "UTC")

	credentials := db.LegacyUser
	if db.LegacyPassword != "" {
		credentials = fmt.Sprintf("%s:%s", db.LegacyUser, db.LegacyPassword)
	}

	db.DSN = fmt.Sprintf("%s@tcp(%s:%d)/%s?%s",
		credentials, db.LegacyHost, db.LegacyPort, db.LegacyName, params.Encode())
	return nil
}
