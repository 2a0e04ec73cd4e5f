package config

// EnvPrefix namespaces every variable read by Load.
const EnvPrefix = "REPAIRSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "REPAIRSHOP_APP_ENV"
	EnvPort         = "REPAIRSHOP_APP_PORT"
	EnvLogLevel     = "REPAIRSHOP_LOG_LEVEL"
	EnvDBDSN        = "REPAIRSHOP_DB_DSN"
	EnvDBHost       = "REPAIRSHOP_DB_HOST"
	EnvDBUser       = "REPAIRSHOP_DB_USER"
	EnvDBName       = "REPAIRSHOP_DB_NAME"
	EnvUseSQLite    = "REPAIRSHOP_USE_SQLITE"
	EnvRedisURL     = "REPAIRSHOP_REDIS_URL"
	EnvShopTimeZone = "REPAIRSHOP_SHOP_TIMEZONE"
	EnvTwilioSID    = "REPAIRSHOP_TWILIO_ACCOUNT_SID"
	EnvTwilioToken  = "REPAIRSHOP_TWILIO_AUTH_TOKEN"
	EnvTwilioFrom   = "REPAIRSHOP_TWILIO_FROM_NUMBER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
