package config

// EnvPrefix is empty because every variable carries the full BCARD_ name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

// Environment variable names referenced outside struct tags (tests, error text).
const (
	EnvAppEnv    = "BCARD_APP_ENV"
	EnvPort      = "BCARD_APP_PORT"
	EnvDBDSN     = "BCARD_DB_DSN"
	EnvRedisURL  = "BCARD_REDIS_URL"
	EnvJWTSecret = "BCARD_JWT_SECRET"
	EnvJWTIssuer = "BCARD_JWT_ISSUER"
)
