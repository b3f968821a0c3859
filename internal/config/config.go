package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SessionStoreCookie = "cookie"
	SessionStoreGorm   = "gorm"
)

// Config holds all application configuration, read from the environment.
type Config struct {
	Port            string        `mapstructure:"port" validate:"required,numeric"`
	DatabaseURL     string        `mapstructure:"database_url" validate:"required"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	GinMode         string        `mapstructure:"gin_mode" validate:"required,oneof=debug release test"`
	Session         Session       `mapstructure:",squash"`
	CORSOrigins     []string      `mapstructure:"cors_allowed_origins" validate:"required,min=1"`
	BcryptCost      int           `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
	TemplatesDir    string        `mapstructure:"templates_dir" validate:"required"`
	StaticDir       string        `mapstructure:"static_dir" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Session configures the gin-contrib/sessions store.
type Session struct {
	Secret string `mapstructure:"session_secret" validate:"required,min=8"`
	Name   string `mapstructure:"session_name" validate:"required"`
	Store  string `mapstructure:"session_store" validate:"required,oneof=cookie gorm"`
	Secure bool   `mapstructure:"session_secure"`
	MaxAge int    `mapstructure:"session_max_age" validate:"gt=0"`
}

var defaults = map[string]any{
	"port":                 "8080",
	"database_url":         "host=localhost user=postgres password=postgres dbname=recommread port=5432 sslmode=disable",
	"auto_migrate":         true,
	"log_level":            "info",
	"gin_mode":             "release",
	"session_secret":       "dev_secret_key",
	"session_name":         "recommread_session",
	"session_store":        SessionStoreCookie,
	"session_secure":       false,
	"session_max_age":      7 * 24 * 60 * 60,
	"cors_allowed_origins": []string{"*"},
	"bcrypt_cost":          10,
	"templates_dir":        "./web/templates",
	"static_dir":           "./web/static",
	"shutdown_timeout":     10 * time.Second,
}

// Load reads an optional .env file, then the environment, and validates the
// result. Environment variables use the upper-cased key (DATABASE_URL, ...).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
