package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the server reads at startup. It is built once in
// main and handed to the pieces that need it.
type Config struct {
	Port            int           `mapstructure:"port"`
	GinMode         string        `mapstructure:"gin_mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigin      string        `mapstructure:"cors_origin"`

	DB   DatabaseConfig `mapstructure:"db"`
	Auth AuthConfig     `mapstructure:"auth"`
	Log  LogConfig      `mapstructure:"log"`
	Seed SeedConfig     `mapstructure:"seed"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, mysql, postgres
	DSN    string `mapstructure:"dsn"`
}

type AuthConfig struct {
	JWTSecret          string        `mapstructure:"jwt_secret"`
	TokenTTL           time.Duration `mapstructure:"token_ttl"`
	LoginRatePerMinute int           `mapstructure:"login_rate_per_minute"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text, json
}

// SeedConfig describes the first admin account. Seeding is skipped unless both
// Email and Password are set.
type SeedConfig struct {
	AdminName     string `mapstructure:"admin_name"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
	AdminContact  string `mapstructure:"admin_contact"`
}

// env names differ from the nested keys for a few settings
var envBindings = map[string]string{
	"auth.jwt_secret":            "JWT_SECRET",
	"auth.token_ttl":             "TOKEN_TTL",
	"auth.login_rate_per_minute": "LOGIN_RATE_PER_MINUTE",
	"seed.admin_name":            "SEED_ADMIN_NAME",
	"seed.admin_email":           "SEED_ADMIN_EMAIL",
	"seed.admin_password":        "SEED_ADMIN_PASSWORD",
	"seed.admin_contact":         "SEED_ADMIN_CONTACT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 5000)
	v.SetDefault("gin_mode", "debug")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("cors_origin", "http://localhost:3000")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "hostelcare.db")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.login_rate_per_minute", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("seed.admin_name", "Administrator")
	v.SetDefault("seed.admin_email", "")
	v.SetDefault("seed.admin_password", "")
	v.SetDefault("seed.admin_contact", "0000000000")
}

// Load reads the optional env files (".env" when none are given) and then
// resolves settings from defaults and the environment. Environment variables
// win over defaults.
func Load(envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFiles skips files that do not exist, the process environment may
// carry everything. A file that exists but cannot be parsed is an error.
func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("invalid config: JWT_SECRET is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("invalid config: JWT_SECRET must be at least 16 characters")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("invalid config: TOKEN_TTL must be positive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid config: PORT must be between 1 and 65535")
	}
	switch c.DB.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("invalid config: unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("invalid config: DB_DSN is required")
	}
	if c.Auth.LoginRatePerMinute <= 0 {
		return fmt.Errorf("invalid config: LOGIN_RATE_PER_MINUTE must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
