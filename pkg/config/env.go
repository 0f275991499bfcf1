package config

// EnvPrefix is passed to envconfig when processing the environment.
const EnvPrefix = "loft"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "LOFT_DB_DSN"
	EnvDBHost = "LOFT_DB_HOST"
	EnvDBUser = "LOFT_DB_USER"
	EnvDBName = "LOFT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
