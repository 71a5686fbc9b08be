// Package config holds process configuration and its layered loader.
package config

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. HACKJUDGE_ADDR
const EnvPrefix = "HACKJUDGE_"

// Config contains process configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8081".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	// AdminPassword is generated at startup when empty.
	AdminPassword string `koanf:"admin_password"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// HTTPLogging enables per-request logging.
	HTTPLogging bool `koanf:"http_logging"`

	// BaseURL is the public URL used in judge links and QR codes.
	BaseURL string `koanf:"base_url"`

	// RedisAddr enables the redis leaderboard cache when set.
	RedisAddr string `koanf:"redis_addr"`
	RedisDB   int    `koanf:"redis_db"`

	// CacheTTLSeconds bounds how long a cached leaderboard lives.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// MailURL is the mail relay; email is only logged when empty.
	MailURL         string `koanf:"mail_url"`
	MailFrom        string `koanf:"mail_from"`
	MailConcurrency int    `koanf:"mail_concurrency"`

	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:            ":8081",
		DBPath:          "hackjudge.db",
		LogLevel:        "info",
		BaseURL:         "http://localhost:8081",
		CacheTTLSeconds: 30,
		MailFrom:        "judging@localhost",
		MailConcurrency: 4,
		MetricsEnabled:  true,
	}
}

// CacheTTL returns CacheTTLSeconds as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if HACKJUDGE_CONFIG is set
//  3. env (prefix HACKJUDGE_), after loading .env when present
func Load(_ context.Context) (*Config, error) {
	// A missing .env is normal
	_ = godotenv.Load(".env")

	k := koanf.New(".")

	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// HACKJUDGE_CACHE_TTL_SECONDS -> cache_ttl_seconds (flat keys)
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	if c.MailConcurrency < 1 {
		return errors.New("mail_concurrency must be at least 1")
	}
	if c.CacheTTLSeconds < 0 {
		return errors.New("cache_ttl_seconds must not be negative")
	}
	return nil
}
