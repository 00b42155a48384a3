package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Operator     OperatorConfig
	Password     PasswordConfig
	Ledger       LedgerConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
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
	Env          string   `envconfig:"PACKSPLIT_APP_ENV" required:"true"`
	Port         string   `envconfig:"PACKSPLIT_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"PACKSPLIT_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"PACKSPLIT_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"PACKSPLIT_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PACKSPLIT_DB_DSN"`
	Driver string `envconfig:"PACKSPLIT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PACKSPLIT_DB_HOST"`
	LegacyPort     int    `envconfig:"PACKSPLIT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PACKSPLIT_DB_USER"`
	LegacyPassword string `envconfig:"PACKSPLIT_DB_PASSWORD"`
	LegacyName     string `envconfig:"PACKSPLIT_DB_NAME"`
	LegacySSLMode  string `envconfig:"PACKSPLIT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PACKSPLIT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PACKSPLIT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PACKSPLIT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PACKSPLIT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PACKSPLIT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PACKSPLIT_REDIS_ADDR"`
	Password     string        `envconfig:"PACKSPLIT_REDIS_PASSWORD"`
	DB           int           `envconfig:"PACKSPLIT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PACKSPLIT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PACKSPLIT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PACKSPLIT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PACKSPLIT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PACKSPLIT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PACKSPLIT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PACKSPLIT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PACKSPLIT_JWT_EXPIRATION_MINUTES" required:"true"`
}

// TokenTTL returns the access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// OperatorConfig identifies the single operator account allowed to mutate the ledger.
type OperatorConfig struct {
	Email        string `envconfig:"PACKSPLIT_OPERATOR_EMAIL" required:"true"`
	PasswordHash string `envconfig:"PACKSPLIT_OPERATOR_PASSWORD_HASH" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PACKSPLIT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PACKSPLIT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PACKSPLIT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PACKSPLIT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PACKSPLIT_ARGON_KEY_LEN" default:"32"`
}

type LedgerConfig struct {
	// RejectNegativeBoxes makes apply fail when an opening would drive the
	// closed-box balance below zero. Off by default: the legacy tracker lets
	// balances go negative and operators correct them with a stock override.
	RejectNegativeBoxes bool          `envconfig:"PACKSPLIT_LEDGER_REJECT_NEGATIVE_BOXES" default:"false"`
	IdempotencyTTL      time.Duration `envconfig:"PACKSPLIT_LEDGER_IDEMPOTENCY_TTL" default:"24h"`
}

// RateLimitConfig throttles the login surface; the rest of the API sits
// behind the bearer token.
type RateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"PACKSPLIT_LOGIN_RATE_WINDOW" default:"10m"`
	LoginIPLimit    int           `envconfig:"PACKSPLIT_LOGIN_RATE_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"PACKSPLIT_LOGIN_RATE_EMAIL_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PACKSPLIT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PACKSPLIT_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PACKSPLIT_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"PACKSPLIT_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PACKSPLIT_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	StockTopic string `envconfig:"PACKSPLIT_PUBSUB_STOCK_TOPIC"`
}

// EventingEnabled reports whether stock events should be published at all.
func (c *Config) EventingEnabled() bool {
	return strings.TrimSpace(c.GCP.ProjectID) != "" && strings.TrimSpace(c.PubSub.StockTopic) != ""
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
