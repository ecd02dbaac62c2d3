package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "PUNTOVENTA"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                 = "PUNTOVENTA_APP_ENV"
	EnvPort                   = "PUNTOVENTA_APP_PORT"
	EnvDBDSN                  = "PUNTOVENTA_DB_DSN"
	EnvDBHost                 = "PUNTOVENTA_DB_HOST"
	EnvDBUser                 = "PUNTOVENTA_DB_USER"
	EnvDBName                 = "PUNTOVENTA_DB_NAME"
	EnvRedisURL               = "PUNTOVENTA_REDIS_URL"
	EnvJWTSecret              = "PUNTOVENTA_JWT_SECRET"
	EnvJWTIssuer              = "PUNTOVENTA_JWT_ISSUER"
	EnvJWTExpMins             = "PUNTOVENTA_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "PUNTOVENTA_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
