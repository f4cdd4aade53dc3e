// Package config reads service settings from the environment, after loading
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

type Config struct {
	Port int

	MongoURI      string
	MongoDatabase string
	AuthMechanism string

	TokenFile       string
	TokenSigningKey string
	TokenRefresh    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RateLimit      rate.Limit
	RateLimitBurst int

	UploadDir          string
	CORSAllowedOrigins []string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	LogLevel slog.Level
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Port:               5001,
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "recipesplusplus",
		TokenRefresh:       30 * time.Minute,
		CacheTTL:           2 * time.Hour,
		RateLimit:          100,
		RateLimitBurst:     200,
		UploadDir:          "static/uploads",
		CORSAllowedOrigins: []string{"*"},
		ReadTimeout:        7 * time.Second,
		WriteTimeout:       15 * time.Second,
		IdleTimeout:        120 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		LogLevel:           slog.LevelInfo,
	}
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup, starting from Default.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := Default()
	var errs []error

	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v := getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v := getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	integer("PORT", &cfg.Port)
	str("MONGODB_URI", &cfg.MongoURI)
	str("MONGODB_DATABASE", &cfg.MongoDatabase)
	str("MONGODB_AUTH_MECHANISM", &cfg.AuthMechanism)
	str("TOKEN_FILE", &cfg.TokenFile)
	str("TOKEN_SIGNING_KEY", &cfg.TokenSigningKey)
	duration("TOKEN_REFRESH_INTERVAL", &cfg.TokenRefresh)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("REDIS_PASSWORD", &cfg.RedisPassword)
	integer("REDIS_DB", &cfg.RedisDB)
	duration("CACHE_TTL", &cfg.CacheTTL)
	integer("RATE_LIMIT_BURST", &cfg.RateLimitBurst)
	str("UPLOAD_DIR", &cfg.UploadDir)
	duration("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)

	if v := getenv("RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("RATE_LIMIT: %w", err))
		} else {
			cfg.RateLimit = rate.Limit(f)
		}
	}

	if v := getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSAllowedOrigins = origins
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
		}
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT: %d out of range", cfg.Port))
	}
	if cfg.MongoDatabase == "" {
		errs = append(errs, errors.New("MONGODB_DATABASE: must not be empty"))
	}
	if cfg.TokenRefresh <= 0 {
		errs = append(errs, errors.New("TOKEN_REFRESH_INTERVAL: must be positive"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// NewLogger returns a text logger at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel}))
}
