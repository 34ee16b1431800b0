// Package config loads the server configuration from environment variables.
//
// # Environment Variables
//
//   - PORT: HTTP listen port. Default: 8080
//   - DATABASE_URL: PostgreSQL connection string. Required.
//   - DB_MAX_CONNS: pool size. Default: 10
//   - DB_CONNECT_TIMEOUT, DB_QUERY_TIMEOUT, DB_PROBE_TIMEOUT: durations such as "5s"
//   - DB_AUTO_MIGRATE: apply the embedded schema at startup. Default: false
//   - LOG_LEVEL: debug, info, warn or error. Default: info
//   - SESSION_CACHE_TTL, SESSION_TOUCH_THROTTLE, SESSION_MAX_AGE: durations
//   - SESSION_EVICT_ON_LOGOUT: drop cached sessions on logout. Default: false
//   - LISTING_DEFAULT_LIMIT, LISTING_MAX_LIMIT: listing page sizes
//   - CORS_ALLOW_ORIGINS: comma separated origins. Default: *
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrDatabaseURLRequired = errors.New("DATABASE_URL is required")

type Config struct {
	Port     int    `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	DBMaxConns       int32         `mapstructure:"DB_MAX_CONNS"`
	DBConnectTimeout time.Duration `mapstructure:"DB_CONNECT_TIMEOUT"`
	DBQueryTimeout   time.Duration `mapstructure:"DB_QUERY_TIMEOUT"`
	DBProbeTimeout   time.Duration `mapstructure:"DB_PROBE_TIMEOUT"`
	DBAutoMigrate    bool          `mapstructure:"DB_AUTO_MIGRATE"`

	SessionCacheTTL      time.Duration `mapstructure:"SESSION_CACHE_TTL"`
	SessionTouchThrottle time.Duration `mapstructure:"SESSION_TOUCH_THROTTLE"`
	SessionMaxAge        time.Duration `mapstructure:"SESSION_MAX_AGE"`
	SessionEvictOnLogout bool          `mapstructure:"SESSION_EVICT_ON_LOGOUT"`

	ListingDefaultLimit int `mapstructure:"LISTING_DEFAULT_LIMIT"`
	ListingMaxLimit     int `mapstructure:"LISTING_MAX_LIMIT"`

	CORSAllowOrigins string `mapstructure:"CORS_ALLOW_ORIGINS"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	v.SetDefault("DB_QUERY_TIMEOUT", "10s")
	v.SetDefault("DB_PROBE_TIMEOUT", "1s")
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("SESSION_CACHE_TTL", "2m")
	v.SetDefault("SESSION_TOUCH_THROTTLE", "5m")
	v.SetDefault("SESSION_MAX_AGE", "24h")
	v.SetDefault("SESSION_EVICT_ON_LOGOUT", false)

	v.SetDefault("LISTING_DEFAULT_LIMIT", 1000)
	v.SetDefault("LISTING_MAX_LIMIT", 50)

	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, ErrDatabaseURLRequired
	}
	if cfg.ListingMaxLimit < 1 {
		return nil, fmt.Errorf("LISTING_MAX_LIMIT must be positive, got %d", cfg.ListingMaxLimit)
	}

	return &cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AllowOrigins splits CORS_ALLOW_ORIGINS into trimmed, non-empty origins.
func (c *Config) AllowOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
