package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "pricemgr"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Upload       UploadConfig
	Pricing      PricingConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"PRICEMGR_APP_ENV" required:"true"`
	Port         string `envconfig:"PRICEMGR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PRICEMGR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRICEMGR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PRICEMGR_DB_DSN"`
	Driver string `envconfig:"PRICEMGR_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PRICEMGR_DB_HOST"`
	Port     int    `envconfig:"PRICEMGR_DB_PORT" default:"5432"`
	User     string `envconfig:"PRICEMGR_DB_USER"`
	Password string `envconfig:"PRICEMGR_DB_PASSWORD"`
	Name     string `envconfig:"PRICEMGR_DB_NAME"`
	SSLMode  string `envconfig:"PRICEMGR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRICEMGR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRICEMGR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRICEMGR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRICEMGR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRICEMGR_REDIS_URL"`
	Address      string        `envconfig:"PRICEMGR_REDIS_ADDR"`
	Password     string        `envconfig:"PRICEMGR_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRICEMGR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRICEMGR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRICEMGR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRICEMGR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRICEMGR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRICEMGR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint is configured at all. The catalog
// price cache degrades to a no-op when it is not.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"PRICEMGR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PRICEMGR_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PRICEMGR_JWT_EXPIRATION_MINUTES" default:"60"`
}

// UploadConfig controls how uploaded CSV files are accepted.
type UploadConfig struct {
	// StrictMIME narrows the content-type allow-list to exact CSV types.
	// The lenient default mirrors what spreadsheet tools actually send,
	// octet-stream included.
	StrictMIME  bool `envconfig:"PRICEMGR_UPLOAD_STRICT_MIME" default:"false"`
	MaxUploadMB int  `envconfig:"PRICEMGR_MAX_UPLOAD_MB" default:"20"`
}

// PricingConfig carries the catalog's price formatting rules.
type PricingConfig struct {
	// Decimals is the fixed-point precision CSV prices are rounded to.
	Decimals int32 `envconfig:"PRICEMGR_PRICE_DECIMALS" default:"2"`
	// CurrencySymbol is prepended to prices in human-readable reports.
	CurrencySymbol string `envconfig:"PRICEMGR_CURRENCY_SYMBOL" default:"$"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PRICEMGR_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		"PRICEMGR_DB_HOST": db.Host,
		"PRICEMGR_DB_USER": db.User,
		"PRICEMGR_DB_NAME": db.Name,
	}
	for _, key := range []string{"PRICEMGR_DB_HOST", "PRICEMGR_DB_USER", "PRICEMGR_DB_NAME"} {
		if parts[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either PRICEMGR_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
