// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the server and the seed tool.
type Config struct {
	AppEnv          string        `envconfig:"APP_ENV" default:"development"`
	AppPort         string        `envconfig:"APP_PORT" default:"8080"`
	AppReadTimeout  time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	AppIdleTimeout  time.Duration `envconfig:"APP_IDLE_TIMEOUT" default:"60s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL      string        `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns       int32         `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns       int32         `envconfig:"DB_MIN_CONNS" default:"5"`
	DBStatementLimit time.Duration `envconfig:"DB_STATEMENT_TIMEOUT" default:"30s"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"12h"`

	// BillAllowNegativeStock lets a sale drive on-hand quantity below zero.
	BillAllowNegativeStock bool `envconfig:"BILL_ALLOW_NEGATIVE_STOCK" default:"true"`

	AuditCompressThreshold int `envconfig:"AUDIT_COMPRESS_THRESHOLD" default:"10240"`

	// IdempotencyEnabled honours X-Idempotency-Key on bill creation.
	IdempotencyEnabled bool          `envconfig:"IDEMPOTENCY_ENABLED" default:"true"`
	IdempotencyTTL     time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`

	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.IdempotencyEnabled && c.IdempotencyTTL <= 0 {
		return errors.New("IDEMPOTENCY_TTL must be positive")
	}
	return nil
}

// IsDevelopment returns true when running outside production.
func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv != "production"
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.AppPort
}
