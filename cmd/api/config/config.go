// Package config reads the service settings from BOOKS_ prefixed environment
// variables, optionally loaded from a .env file, and validates them.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "BOOKS_"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env      string `koanf:"env" validate:"oneof=development production"`
	Port     int    `koanf:"port" validate:"min=1,max=65535"`
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// An empty DatabaseURL selects the in-memory store.
	DatabaseURL            string `koanf:"database_url"`
	DatabaseMigrationsPath string `koanf:"database_migrations_path" validate:"required_with=DatabaseURL"`
	DatabaseMaxOpenConns   int    `koanf:"database_max_open_conns" validate:"min=0"`
	DatabaseMaxIdleConns   int    `koanf:"database_max_idle_conns" validate:"min=0"`

	HTTPRequestTimeout  time.Duration `koanf:"http_request_timeout" validate:"gt=0"`
	HTTPShutdownTimeout time.Duration `koanf:"http_shutdown_timeout" validate:"gt=0"`

	NotificationsEnabled bool          `koanf:"notifications_enabled"`
	NotificationsURL     string        `koanf:"notifications_url" validate:"required_if=NotificationsEnabled true"`
	NotificationsTimeout time.Duration `koanf:"notifications_timeout" validate:"gt=0"`
}

func defaults() Config {
	return Config{
		Env:                    EnvDevelopment,
		Port:                   8080,
		LogLevel:               "info",
		DatabaseMigrationsPath: "cmd/api/database/migrations",
		DatabaseMaxOpenConns:   10,
		DatabaseMaxIdleConns:   5,
		HTTPRequestTimeout:     5 * time.Second,
		HTTPShutdownTimeout:    10 * time.Second,
		NotificationsTimeout:   2 * time.Second,
	}
}

func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

/* Loads the configuration from the environment on top of the defaults and validates the result.
BOOKS_DATABASE_URL maps to database_url, BOOKS_HTTP_REQUEST_TIMEOUT to http_request_timeout, and so on. */
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env variables: %w", err)
	}

	cfg := defaults()
	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	err = validator.New().Struct(cfg)
	if err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
