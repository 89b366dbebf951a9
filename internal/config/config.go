// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all runtime settings for the server.
type Config struct {
	// Port the HTTP server listens on.
	Port int

	// DataDir is where the SQLite database lives.
	DataDir string

	// JWTSecret signs session tokens.
	JWTSecret string

	// TokenTTL is the session token lifetime. Zero means tokens do not
	// expire; the verifier still honors an exp claim when one is present.
	TokenTTL time.Duration

	// BcryptCost is the work factor for password hashing.
	BcryptCost int

	// LogLevel is a logrus level string (debug, info, warn, error).
	LogLevel string
}

const defaultJWTSecret = "dev-secret-change-me"

// Load reads configuration from a .env file (if present) and the
// environment. Missing values fall back to development defaults; JWT_SECRET
// falling back is logged loudly by the caller.
func Load() (*Config, error) {
	// A missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{
		Port:       3000,
		DataDir:    "./data",
		JWTSecret:  defaultJWTSecret,
		BcryptCost: bcrypt.DefaultCost,
		LogLevel:   "info",
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl < 0 {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q", v)
		}
		cfg.TokenTTL = ttl
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("invalid BCRYPT_COST %q", v)
		}
		cfg.BcryptCost = cost
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// UsingDefaultSecret reports whether the config fell back to the built-in
// development signing secret.
func (c *Config) UsingDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}
