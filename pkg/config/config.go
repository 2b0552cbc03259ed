package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Lockout       LockoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BCARD_APP_ENV" required:"true"`
	Port         string `envconfig:"BCARD_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"BCARD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BCARD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BCARD_DB_DSN" required:"true"`
	Driver string `envconfig:"BCARD_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"BCARD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BCARD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BCARD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BCARD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite is the single switch for sqlite behavior: it selects the dialector
// and swaps goose SQL migrations for GORM AutoMigrate.
func (d DBConfig) IsSQLite() bool {
	return strings.EqualFold(d.Driver, DBDriverSQLite)
}

// RedisConfig is optional; when URL is empty the auth rate limiter is disabled.
type RedisConfig struct {
	URL          string        `envconfig:"BCARD_REDIS_URL"`
	PoolSize     int           `envconfig:"BCARD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BCARD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BCARD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BCARD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BCARD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

// JWTConfig configures token signing. ExpirationMinutes of 0 issues tokens
// without an exp claim, matching the historical behavior of the API.
type JWTConfig struct {
	Secret            string `envconfig:"BCARD_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BCARD_JWT_ISSUER" default:"bcard"`
	ExpirationMinutes int    `envconfig:"BCARD_JWT_EXPIRATION_MINUTES" default:"0"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BCARD_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BCARD_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BCARD_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BCARD_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BCARD_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BCARD_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BCARD_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BCARD_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BCARD_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BCARD_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BCARD_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BCARD_AUTO_MIGRATE" default:"false"`
	Seed        bool `envconfig:"BCARD_SEED" default:"true"`
}

// LockoutConfig controls the failed-login lockout counters stored on the user.
type LockoutConfig struct {
	MaxFailedAttempts int           `envconfig:"BCARD_LOCKOUT_MAX_FAILED_ATTEMPTS" default:"3"`
	Duration          time.Duration `envconfig:"BCARD_LOCKOUT_DURATION" default:"24h"`
}
