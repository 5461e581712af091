// Package config loads the service configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"golang.org/x/crypto/bcrypt"

	"task_backend/internal/platform/db"
)

// MinBcryptCost is the lowest accepted password hashing cost.
const MinBcryptCost = 12

// Config is loaded once at startup and passed down explicitly.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	GinMode  string `env:"GIN_MODE" envDefault:"release"`

	DatabaseURL      string        `env:"DATABASE_URL"`
	SQLitePath       string        `env:"SQLITE_PATH" envDefault:"./tasks.db"`
	RunMigrations    bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	DBConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"60s"`

	// JWTSecret is removed from the process environment once read.
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty,unset"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"168h"`

	BcryptCost      int `env:"BCRYPT_COST" envDefault:"12"`
	HashConcurrency int `env:"HASH_CONCURRENCY" envDefault:"0"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	// CORSAllowedOrigins is empty by default, which disables CORS handling.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD,unset"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	TaskCacheTTL  time.Duration `env:"TASK_CACHE_TTL" envDefault:"5m"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.BcryptCost < MinBcryptCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", MinBcryptCost, bcrypt.MaxCost, c.BcryptCost))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL))
	}
	if c.HashConcurrency < 0 {
		errs = append(errs, fmt.Errorf("HASH_CONCURRENCY must not be negative, got %d", c.HashConcurrency))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout))
	}
	return errors.Join(errs...)
}

// DB returns the persistence settings.
func (c *Config) DB() db.Config {
	return db.Config{
		DatabaseURL:    c.DatabaseURL,
		SQLitePath:     c.SQLitePath,
		ConnectTimeout: c.DBConnectTimeout,
		RunMigrations:  c.RunMigrations,
	}
}

// CacheEnabled reports whether a Redis address is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}
