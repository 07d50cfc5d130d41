package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	OverpaymentAllow  = "allow"
	OverpaymentReject = "reject"
)

type Config struct {
	ServerPort   int    `mapstructure:"SERVER_PORT"`
	AppEnv       string `mapstructure:"APP_ENV"`
	AppTimezone  string `mapstructure:"APP_TIMEZONE"`
	AppLogLevel  string `mapstructure:"APP_LOG_LEVEL"`
	ExposeErrors bool   `mapstructure:"APP_EXPOSE_ERRORS"`

	CorsAllowOrigins string `mapstructure:"CORS_ALLOW_ORIGINS"`

	DatabaseDriver       string `mapstructure:"DATABASE_DRIVER"`
	DatabaseDbPath       string `mapstructure:"DATABASE_DB_PATH"`
	DatabaseHost         string `mapstructure:"DATABASE_HOST"`
	DatabasePort         int    `mapstructure:"DATABASE_PORT"`
	DatabaseUser         string `mapstructure:"DATABASE_USER"`
	DatabasePassword     string `mapstructure:"DATABASE_PASSWORD"`
	DatabaseName         string `mapstructure:"DATABASE_NAME"`
	DatabaseCacheAddress string `mapstructure:"DATABASE_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DATABASE_CACHE_PORT"`

	SecurityJwtSecret     string `mapstructure:"SECURITY_JWT_SECRET"`
	SecurityTokenTTLHours int    `mapstructure:"SECURITY_TOKEN_TTL_HOURS"`
	SecurityAuthDisabled  bool   `mapstructure:"SECURITY_AUTH_DISABLED"`

	UploadsDir          string `mapstructure:"UPLOADS_DIR"`
	UploadsMaxFileBytes int64  `mapstructure:"UPLOADS_MAX_FILE_BYTES"`

	FeesOverpaymentPolicy string `mapstructure:"FEES_OVERPAYMENT_POLICY"`

	PaginationDefaultLimit int `mapstructure:"PAGINATION_DEFAULT_LIMIT"`
	PaginationMaxLimit     int `mapstructure:"PAGINATION_MAX_LIMIT"`

	SeedAdminLogin    string `mapstructure:"SEED_ADMIN_LOGIN"`
	SeedAdminPassword string `mapstructure:"SEED_ADMIN_PASSWORD"`
}

var defaults = map[string]any{
	"SERVER_PORT":              8288,
	"APP_ENV":                  "development",
	"APP_TIMEZONE":             "UTC",
	"APP_LOG_LEVEL":            "info",
	"APP_EXPOSE_ERRORS":        false,
	"CORS_ALLOW_ORIGINS":       "*",
	"DATABASE_DRIVER":          "sqlite",
	"DATABASE_DB_PATH":         "data/mellat.db",
	"DATABASE_HOST":            "localhost",
	"DATABASE_PORT":            5432,
	"DATABASE_USER":            "",
	"DATABASE_PASSWORD":        "",
	"DATABASE_NAME":            "mellat",
	"DATABASE_CACHE_ADDRESS":   "",
	"DATABASE_CACHE_PORT":      6379,
	"SECURITY_JWT_SECRET":      "",
	"SECURITY_TOKEN_TTL_HOURS": 12,
	"SECURITY_AUTH_DISABLED":   false,
	"UPLOADS_DIR":              "uploads",
	"UPLOADS_MAX_FILE_BYTES":   5 * 1024 * 1024,
	"FEES_OVERPAYMENT_POLICY":  OverpaymentAllow,
	"PAGINATION_DEFAULT_LIMIT": 10,
	"PAGINATION_MAX_LIMIT":     100,
	"SEED_ADMIN_LOGIN":         "admin",
	"SEED_ADMIN_PASSWORD":      "",
}

// InitConfig reads defaults, an optional .env file in the working directory
// and finally the process environment.
func InitConfig() (Config, error) {
	return load(".env")
}

func load(envFile string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("failed to read config file %s: %w", envFile, err)
			}
		}
	}

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.DatabaseDriver = strings.ToLower(strings.TrimSpace(config.DatabaseDriver))
	config.FeesOverpaymentPolicy = strings.ToLower(strings.TrimSpace(config.FeesOverpaymentPolicy))

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case "sqlite":
		if c.DatabaseDbPath == "" {
			errs = append(errs, errors.New("DATABASE_DB_PATH is required for sqlite"))
		}
	case "postgres":
		if c.DatabaseHost == "" || c.DatabaseName == "" {
			errs = append(errs, errors.New("DATABASE_HOST and DATABASE_NAME are required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	if !c.SecurityAuthDisabled && c.SecurityJwtSecret == "" {
		errs = append(errs, errors.New("SECURITY_JWT_SECRET is required unless SECURITY_AUTH_DISABLED is set"))
	}

	switch c.FeesOverpaymentPolicy {
	case OverpaymentAllow, OverpaymentReject:
	default:
		errs = append(errs, fmt.Errorf("unsupported FEES_OVERPAYMENT_POLICY %q", c.FeesOverpaymentPolicy))
	}

	if c.UploadsDir == "" {
		errs = append(errs, errors.New("UPLOADS_DIR is required"))
	}

	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c Config) CacheEnabled() bool {
	return c.DatabaseCacheAddress != ""
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
	)
}
