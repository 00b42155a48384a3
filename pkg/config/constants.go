package config

// EnvPrefix is the envconfig prefix shared by every PACKSPLIT_* variable.
const EnvPrefix = "PACKSPLIT"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error messages).
const (
	EnvAppEnv     = "PACKSPLIT_APP_ENV"
	EnvPort       = "PACKSPLIT_APP_PORT"
	EnvDBDSN      = "PACKSPLIT_DB_DSN"
	EnvDBHost     = "PACKSPLIT_DB_HOST"
	EnvDBUser     = "PACKSPLIT_DB_USER"
	EnvDBName     = "PACKSPLIT_DB_NAME"
	EnvRedisURL   = "PACKSPLIT_REDIS_URL"
	EnvJWTSecret  = "PACKSPLIT_JWT_SECRET"
	EnvJWTIssuer  = "PACKSPLIT_JWT_ISSUER"
	EnvJWTExpMins = "PACKSPLIT_JWT_EXPIRATION_MINUTES"

	EnvOperatorEmail        = "PACKSPLIT_OPERATOR_EMAIL"
	EnvOperatorPasswordHash = "PACKSPLIT_OPERATOR_PASSWORD_HASH"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
