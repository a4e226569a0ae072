package config

// EnvPrefix is the envconfig prefix shared by every LocalLink variable.
const EnvPrefix = "LOCALLINK"

const (
	EnvAppEnv   = "LOCALLINK_APP_ENV"
	EnvPort     = "LOCALLINK_APP_PORT"
	EnvLogLvl   = "LOCALLINK_LOG_LEVEL"
	EnvDriver   = "LOCALLINK_PERSISTENCE_DRIVER"
	EnvDBDSN    = "LOCALLINK_DB_DSN"
	EnvDBHost   = "LOCALLINK_DB_HOST"
	EnvDBUser   = "LOCALLINK_DB_USER"
	EnvDBName   = "LOCALLINK_DB_NAME"
	EnvDBPass   = "LOCALLINK_DB_PASSWORD"
	EnvDBPort   = "LOCALLINK_DB_PORT"
	EnvDBSSL    = "LOCALLINK_DB_SSLMODE"
	EnvRedisURL = "LOCALLINK_REDIS_URL"

	EnvAuthLatency       = "LOCALLINK_SESSION_AUTH_LATENCY"
	EnvStrictTransitions = "LOCALLINK_ORDERS_STRICT_TRANSITIONS"
	EnvGeminiAPIKey      = "LOCALLINK_RECOMMENDATIONS_API_KEY"
	EnvGeminiModel       = "LOCALLINK_RECOMMENDATIONS_MODEL"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
