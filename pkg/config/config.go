package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App             AppConfig
	Persistence     PersistenceConfig
	DB              DBConfig
	Redis           RedisConfig
	Password        PasswordConfig
	Session         SessionConfig
	Orders          OrdersConfig
	AuthRateLimit   AuthRateLimitConfig
	Recommendations RecommendationsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Persistence.validate(); err != nil {
		return nil, err
	}
	if cfg.Persistence.Driver == DriverPostgres {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if cfg.Persistence.Driver == DriverRedis && !cfg.Redis.Enabled() {
		return nil, fmt.Errorf("%s is required when %s=%s", EnvRedisURL, EnvDriver, DriverRedis)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LOCALLINK_APP_ENV" required:"true"`
	Port         string `envconfig:"LOCALLINK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LOCALLINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LOCALLINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// PersistenceConfig selects the blob store that mirrors marketplace state.
type PersistenceConfig struct {
	Driver      string `envconfig:"LOCALLINK_PERSISTENCE_DRIVER" default:"sqlite"`
	AutoMigrate bool   `envconfig:"LOCALLINK_PERSISTENCE_AUTO_MIGRATE" default:"true"`
}

// UsesSQL reports whether the configured driver is backed by gorm.
func (p PersistenceConfig) UsesSQL() bool {
	return p.Driver == DriverSQLite || p.Driver == DriverPostgres
}

func (p *PersistenceConfig) validate() error {
	p.Driver = strings.ToLower(strings.TrimSpace(p.Driver))
	switch p.Driver {
	case DriverMemory, DriverRedis, DriverSQLite, DriverPostgres:
		return nil
	}
	return fmt.Errorf("unsupported %s %q", EnvDriver, p.Driver)
}

type DBConfig struct {
	DSN string `envconfig:"LOCALLINK_DB_DSN" default:"locallink.db"`

	LegacyHost     string `envconfig:"LOCALLINK_DB_HOST"`
	LegacyPort     int    `envconfig:"LOCALLINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LOCALLINK_DB_USER"`
	LegacyPassword string `envconfig:"LOCALLINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"LOCALLINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"LOCALLINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LOCALLINK_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"LOCALLINK_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"LOCALLINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LOCALLINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LOCALLINK_REDIS_URL"`
	Address      string        `envconfig:"LOCALLINK_REDIS_ADDR"`
	Password     string        `envconfig:"LOCALLINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"LOCALLINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LOCALLINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LOCALLINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LOCALLINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LOCALLINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LOCALLINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether enough is configured to dial redis.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LOCALLINK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LOCALLINK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LOCALLINK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LOCALLINK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LOCALLINK_ARGON_KEY_LEN" default:"32"`
}

type SessionConfig struct {
	AuthLatency time.Duration `envconfig:"LOCALLINK_SESSION_AUTH_LATENCY" default:"800ms"`
}

type OrdersConfig struct {
	StrictTransitions bool `envconfig:"LOCALLINK_ORDERS_STRICT_TRANSITIONS" default:"false"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LOCALLINK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LOCALLINK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LOCALLINK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LOCALLINK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LOCALLINK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LOCALLINK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type RecommendationsConfig struct {
	APIKey  string        `envconfig:"LOCALLINK_RECOMMENDATIONS_API_KEY"`
	Model   string        `envconfig:"LOCALLINK_RECOMMENDATIONS_MODEL" default:"gemini-2.5-flash"`
	BaseURL string        `envconfig:"LOCALLINK_RECOMMENDATIONS_BASE_URL"`
	Timeout time.Duration `envconfig:"LOCALLINK_RECOMMENDATIONS_TIMEOUT" default:"15s"`
}

// Remote reports whether the hosted model should be consulted.
func (r RecommendationsConfig) Remote() bool {
	return strings.TrimSpace(r.APIKey) != ""
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" && !strings.HasSuffix(db.DSN, ".db") {
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
		return fmt.Errorf("either a postgres %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
