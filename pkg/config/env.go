package config

// EnvPrefix namespaces every environment variable the platform reads.
const EnvPrefix = "FLEETOPS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "FLEETOPS_DB_DSN"
	EnvDBHost = "FLEETOPS_DB_HOST"
	EnvDBUser = "FLEETOPS_DB_USER"
	EnvDBName = "FLEETOPS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
