package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	FeatureFlags  FeatureFlagsConfig
	Shop          ShopConfig
	Booking       BookingConfig
	Notifications NotificationsConfig
	Twilio        TwilioConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if _, err := cfg.Shop.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"REPAIRSHOP_APP_ENV" required:"true"`
	Port         string   `envconfig:"REPAIRSHOP_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"REPAIRSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"REPAIRSHOP_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"REPAIRSHOP_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"REPAIRSHOP_DB_DSN"`
	Driver string `envconfig:"REPAIRSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"REPAIRSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"REPAIRSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"REPAIRSHOP_DB_USER"`
	LegacyPassword string `envconfig:"REPAIRSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"REPAIRSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"REPAIRSHOP_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"REPAIRSHOP_SQLITE_PATH" default:"repairshop.db"`

	MaxOpenConns    int           `envconfig:"REPAIRSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"REPAIRSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"REPAIRSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"REPAIRSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional; an empty URL and address disables Redis-backed features.
type RedisConfig struct {
	URL          string        `envconfig:"REPAIRSHOP_REDIS_URL"`
	Address      string        `envconfig:"REPAIRSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"REPAIRSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"REPAIRSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REPAIRSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REPAIRSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REPAIRSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REPAIRSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REPAIRSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"REPAIRSHOP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"REPAIRSHOP_AUTO_MIGRATE" default:"false"`
}

type ShopConfig struct {
	Name     string `envconfig:"REPAIRSHOP_SHOP_NAME" default:"Repair Shop"`
	TimeZone string `envconfig:"REPAIRSHOP_SHOP_TIMEZONE" default:"UTC"`
}

// Location resolves the shop time zone used to interpret booking dates.
func (s ShopConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(s.TimeZone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", EnvShopTimeZone, name, err)
	}
	return loc, nil
}

type BookingConfig struct {
	ReferencePrefix  string        `envconfig:"REPAIRSHOP_BOOKING_REFERENCE_PREFIX" default:"BK-"`
	ReferenceRetries int           `envconfig:"REPAIRSHOP_BOOKING_REFERENCE_RETRIES" default:"5"`
	SlotHoldTTL      time.Duration `envconfig:"REPAIRSHOP_BOOKING_SLOT_HOLD_TTL" default:"15s"`
	IdempotencyTTL   time.Duration `envconfig:"REPAIRSHOP_BOOKING_IDEMPOTENCY_TTL" default:"24h"`
}

type NotificationsConfig struct {
	Timeout time.Duration `envconfig:"REPAIRSHOP_NOTIFICATIONS_TIMEOUT" default:"10s"`
}

type TwilioConfig struct {
	AccountSID string `envconfig:"REPAIRSHOP_TWILIO_ACCOUNT_SID"`
	AuthToken  string `envconfig:"REPAIRSHOP_TWILIO_AUTH_TOKEN"`
	FromNumber string `envconfig:"REPAIRSHOP_TWILIO_FROM_NUMBER"`
}

// Enabled reports whether SMS confirmations can be sent.
func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite || db.DSN != "" {
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
