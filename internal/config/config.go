package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	GateModeVerify   = "verify"
	GateModePresence = "presence"

	// DevelopmentSecret signs tokens when app.env is development and no
	// auth.jwt_secret is configured.
	DevelopmentSecret = "development-only-secret"
)

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	Mode           string        `mapstructure:"mode"`
	WebDir         string        `mapstructure:"web_dir"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	// Addr is empty when the movie cache is disabled.
	Addr     string        `mapstructure:"addr"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
	GateMode   string        `mapstructure:"gate_mode"`
}

type CatalogConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TelemetryConfig struct {
	// OTLPEndpoint is empty when telemetry export is disabled.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
}

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// IsDevelopment reports whether the service runs in local development.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == EnvDevelopment
}

// UsesDevelopmentSecret reports whether tokens are signed with the built-in
// development secret.
func (c *Config) UsesDevelopmentSecret() bool {
	return c.Auth.JWTSecret == DevelopmentSecret
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", EnvDevelopment)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.web_dir", "./web")
	v.SetDefault("server.request_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", int64(10<<20))

	v.SetDefault("database.path", "./movies.db")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.cache_ttl", 10*time.Minute)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.gate_mode", GateModeVerify)

	v.SetDefault("catalog.page_size", 8)

	v.SetDefault("log.level", "info")

	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.service_name", "movies")
}

// Load reads configuration from the YAML file at path (skipped when path is
// empty) and from MOVIES_* environment variables, e.g. MOVIES_SERVER_ADDR.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MOVIES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Env != EnvDevelopment && c.App.Env != EnvProduction {
		errs = append(errs, fmt.Errorf("app.env must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.App.Env))
	}
	if c.Auth.JWTSecret == "" {
		if c.IsDevelopment() {
			c.Auth.JWTSecret = DevelopmentSecret
		} else {
			errs = append(errs, errors.New("auth.jwt_secret is required outside development"))
		}
	} else if c.UsesDevelopmentSecret() && !c.IsDevelopment() {
		errs = append(errs, errors.New("auth.jwt_secret must not be the development secret outside development"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Auth.GateMode != GateModeVerify && c.Auth.GateMode != GateModePresence {
		errs = append(errs, fmt.Errorf("auth.gate_mode must be %q or %q, got %q", GateModeVerify, GateModePresence, c.Auth.GateMode))
	}
	if c.Catalog.PageSize < 1 {
		errs = append(errs, errors.New("catalog.page_size must be at least 1"))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("server.request_timeout must be positive"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes must be positive"))
	}

	return errors.Join(errs...)
}
